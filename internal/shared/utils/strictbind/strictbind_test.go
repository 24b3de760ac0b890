package strictbind

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holdBody struct {
	EventID string   `json:"event_id" binding:"required,uuid"`
	SeatIDs []string `json:"seat_ids" binding:"required,min=1"`
}

func bindContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestJSON_ValidBody(t *testing.T) {
	c := bindContext(`{"event_id":"550e8400-e29b-41d4-a716-446655440000","seat_ids":["A-R1-S1"]}`)

	var body holdBody
	require.NoError(t, JSON(c, &body))
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", body.EventID)
	assert.Equal(t, []string{"A-R1-S1"}, body.SeatIDs)
}

func TestJSON_RejectsUnknownFields(t *testing.T) {
	c := bindContext(`{"event_id":"550e8400-e29b-41d4-a716-446655440000","seat_ids":["A-R1-S1"],"admin":true}`)

	var body holdBody
	err := JSON(c, &body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestJSON_RejectsEmptyBody(t *testing.T) {
	c := bindContext("")

	var body holdBody
	err := JSON(c, &body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request body is required")
}

func TestJSON_ValidationFailures(t *testing.T) {
	c := bindContext(`{"event_id":"not-a-uuid","seat_ids":["A-R1-S1"]}`)

	var body holdBody
	assert.Error(t, JSON(c, &body))
}
