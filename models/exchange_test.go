package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsedMinDeposit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"explicit value", "1000", 1000},
		{"padded", " 750 ", 750},
		{"blank falls back", "", DefaultMinDeposit},
		{"garbage falls back", "abc", DefaultMinDeposit},
		{"zero falls back", "0", DefaultMinDeposit},
		{"negative falls back", "-50", DefaultMinDeposit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ExchangeRequest{Name: "Betfair", MinDeposit: tt.input}
			assert.Equal(t, tt.want, req.ParsedMinDeposit())
		})
	}
}

func TestMinDepositFor(t *testing.T) {
	exchanges := []Exchange{
		{Name: "Betfair", MinDeposit: 1000},
		{Name: "Bet365", MinDeposit: 0},
	}

	min, ok := MinDepositFor(exchanges, "Betfair")
	assert.True(t, ok)
	assert.Equal(t, 1000, min)

	// Unconfigured minimum falls back to the default but the platform exists
	min, ok = MinDepositFor(exchanges, "Bet365")
	assert.True(t, ok)
	assert.Equal(t, DefaultMinDeposit, min)

	// A deleted platform reports non-existence
	_, ok = MinDepositFor(exchanges, "Parimatch")
	assert.False(t, ok)

	_, ok = MinDepositFor(nil, "Betfair")
	assert.False(t, ok)
}
