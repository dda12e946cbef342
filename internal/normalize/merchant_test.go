package normalize

import "testing"

func TestSanitizeMerchant(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"clean input unchanged", "Trader Joe's", "Trader Joe's"},
		{"nbsp becomes space", "Coffee Shop", "Coffee Shop"},
		{"narrow nbsp becomes space", "Coffee Shop", "Coffee Shop"},
		{"html entity", "Ben &amp; Jerry's", "Ben & Jerry's"},
		{"leaked unicode escape", `Coffee Shop`, "Coffee Shop"},
		{"disallowed symbols dropped", "Shop* #5!", "Shop 5"},
		{"whitespace collapsed", "  Coffee   Shop  ", "Coffee Shop"},
		{"hebrew preserved", "סופר פארם", "סופר פארם"},
		{"allowed punctuation kept", "A-B & C.D/E (F), 'G'", "A-B & C.D/E (F), 'G'"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SanitizeMerchant(c.in); got != c.want {
				t.Errorf("SanitizeMerchant(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestSanitizeMerchantIdempotent(t *testing.T) {
	inputs := []string{
		"Trader Joe's",
		"Coffee Shop",
		"Ben &amp; Jerry's",
		`Café Aroma`,
		"  S p a c e s  ",
		"סופר פארם בע\"מ",
	}
	for _, in := range inputs {
		once := SanitizeMerchant(in)
		twice := SanitizeMerchant(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
