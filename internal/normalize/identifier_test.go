package normalize

import (
	"math"
	"testing"
)

func TestIdentifierStability(t *testing.T) {
	a := Identifier(" Coffee Shop ", "2024-01-05", 12.5)
	b := Identifier("coffee shop", "2024-01-05", 12.50)
	if a != b {
		t.Errorf("identifiers differ: %q vs %q", a, b)
	}
	if a != "coffee shop|2024-01-05|12.50" {
		t.Errorf("unexpected identifier %q", a)
	}
}

func TestIdentifierSensitivity(t *testing.T) {
	base := Identifier("Coffee Shop", "2024-01-05", 12.50)

	cases := map[string]string{
		"amount": Identifier("Coffee Shop", "2024-01-05", 12.51),
		"date":   Identifier("Coffee Shop", "2024-01-06", 12.50),
		"name":   Identifier("Tea Shop", "2024-01-05", 12.50),
	}
	for name, got := range cases {
		if got == base {
			t.Errorf("%s change did not change identifier %q", name, base)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12.5, "12.50"},
		{0, "0.00"},
		{1234.567, "1234.57"},
		{math.NaN(), "0.00"},
		{math.Inf(1), "0.00"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.in); got != c.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
