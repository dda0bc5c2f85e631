package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCoins(t *testing.T) {
	cases := map[int64]string{
		0:       "0 coins",
		1:       "1 coin",
		10:      "10 coins",
		999:     "999 coins",
		1000:    "1,000 coins",
		12500:   "12,500 coins",
		1234567: "1,234,567 coins",
		-12500:  "-12,500 coins",
	}
	for amount, want := range cases {
		assert.Equal(t, want, FormatCoins(amount), "amount=%d", amount)
	}
}
