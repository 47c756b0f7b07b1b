package offer

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"decorated comma", "€4,99€", 4.99, true},
		{"doubled symbol", "4.99€€", 4.99, true},
		{"plain dot", "1.29", 1.29, true},
		{"integer string", "3 €", 3, true},
		{"spaces around", "  ab 2,49 € ", 2.49, true},
		{"float", 2.5, 2.5, true},
		{"int", 4, 4, true},
		{"json number", json.Number("3.79"), 3.79, true},
		{"zero number", 0.0, 0, true},
		{"symbols only", "€€€", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"negative number", -1.0, 0, false},
		{"nan", math.NaN(), 0, false},
		{"bool", true, 0, false},
		{"bad json number", json.Number("abc"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			} else {
				assert.Zero(t, got)
			}
		})
	}
}

func TestParsePriceSeparatorAgnostic(t *testing.T) {
	for _, decorated := range []string{"4,99", "4.99", "€4,99", "4,99€", "EUR 4.99", "*4,99*€"} {
		got, ok := ParsePrice(decorated)
		assert.True(t, ok, decorated)
		assert.InDelta(t, 4.99, got, 1e-9, decorated)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "4.50€", FormatPrice(4.5))
	assert.Equal(t, "0.99€", FormatPrice(0.99))
	assert.Equal(t, "5.00€", FormatPrice(5))
}
