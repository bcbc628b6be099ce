package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCloseDate(t *testing.T) {
	newYork := time.FixedZone("EST", -5*60*60)
	tests := []struct {
		name  string
		close time.Time
		want  string
	}{
		{"utc", time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC), "2025-03-12"},
		{"behind utc rolls forward", time.Date(2025, 3, 12, 23, 30, 0, 0, newYork), "2025-03-13"},
		{"ahead of utc rolls back", time.Date(2025, 3, 13, 1, 0, 0, 0, time.FixedZone("EET", 2*60*60)), "2025-03-12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalTrade{CloseTime: tt.close}.CloseDate())
		})
	}
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"Buy": SideBuy, " SELL ": SideSell, "buy limit": SideBuy} {
		got, ok := ParseSide(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseSide("balance")
	assert.False(t, ok)
}
