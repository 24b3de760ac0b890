package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIntentParams_Metadata(t *testing.T) {
	order := &Order{
		ID:            uuid.New(),
		OrderNumber:   "TKT-20260825-ABCDEF",
		EventID:       uuid.New(),
		SessionID:     "session-1",
		CustomerEmail: "ada@example.com",
		SeatIDs:       []string{"A-R1-S1", "A-R1-S2"},
		Total:         94.17,
		Currency:      "USD",
	}

	params := buildIntentParams(order)

	require.NotNil(t, params.Amount)
	assert.Equal(t, int64(9417), *params.Amount)
	require.NotNil(t, params.Currency)
	assert.Equal(t, "USD", *params.Currency)

	assert.Equal(t, order.ID.String(), params.Metadata["order_id"])
	assert.Equal(t, "TKT-20260825-ABCDEF", params.Metadata["order_number"])
	assert.Equal(t, order.EventID.String(), params.Metadata["event_id"])
	assert.Equal(t, "A-R1-S1,A-R1-S2", params.Metadata["seat_ids"])
	assert.Equal(t, "ada@example.com", params.Metadata["customer_email"])
	assert.Equal(t, "session-1", params.Metadata["session_id"])
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(9417), toMinorUnits(94.17))
	assert.Equal(t, int64(100), toMinorUnits(1.0))
	assert.Equal(t, int64(0), toMinorUnits(0))
}
