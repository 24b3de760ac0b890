// Package strictbind decodes JSON request bodies with unknown fields
// rejected, then runs the standard binding validators. Write endpoints use
// it so a misspelled field fails loudly instead of being silently dropped.
package strictbind

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func JSON(c *gin.Context, dst interface{}) error {
	if c.Request == nil || c.Request.Body == nil {
		return errors.New("request body is required")
	}

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}

	return binding.Validator.ValidateStruct(dst)
}
