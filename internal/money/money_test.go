package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		expected string
	}{
		{name: "usd cents", amount: 1999, currency: "usd", expected: "19.99"},
		{name: "eur whole", amount: 1000, currency: "eur", expected: "10.00"},
		{name: "zero", amount: 0, currency: "usd", expected: "0.00"},
		{name: "negative", amount: -250, currency: "usd", expected: "-2.50"},
		{name: "zero-decimal currency", amount: 1999, currency: "jpy", expected: "1999"},
		{name: "uppercase currency", amount: 500, currency: "JPY", expected: "500"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Format(test.amount, test.currency))
		})
	}
}
