package seatid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSection(t *testing.T) {
	assert.Equal(t, "A", Section("A-R1-S5"))
	assert.Equal(t, "ORC", Section("ORC-R12-S3"))
	assert.Equal(t, "A", Section("SEC-A-R3-S12"))
	assert.Equal(t, "A", Section("A"))
	assert.Equal(t, "", Section(""))
}

func TestParse(t *testing.T) {
	p := Parse("A-R1-S5")
	assert.Equal(t, "A", p.Section)
	assert.Equal(t, 1, p.Row)
	assert.Equal(t, 5, p.Seat)

	p = Parse("SEC-B-R12-S34")
	assert.Equal(t, "B", p.Section)
	assert.Equal(t, 12, p.Row)
	assert.Equal(t, 34, p.Seat)

	p = Parse("A-R1")
	assert.Equal(t, "A", p.Section)
	assert.Equal(t, 1, p.Row)
	assert.Equal(t, 0, p.Seat)

	p = Parse("A-Rx-Sy")
	assert.Equal(t, 0, p.Row)
	assert.Equal(t, 0, p.Seat)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("A-R1-S5"))
	assert.True(t, Valid("SEC-A-R3-S12"))
	assert.True(t, Valid("ORC-R10-S100"))

	assert.False(t, Valid(""))
	assert.False(t, Valid("A"))
	assert.False(t, Valid("A-R1"))
	assert.False(t, Valid("A-R0-S0"))
	assert.False(t, Valid("A-Rx-S5"))
}
