package pipeline

import "testing"

func TestParseTranscript(t *testing.T) {
	raw := `[
		{"merchant": "Coffee Shop", "amount": 12.5, "date": "2024-01-05"},
		{"merchant": "  Ben &amp; Jerry's ", "amount": 7, "date": "2024-01-06"}
	]`
	txs, err := parseTranscript(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].Merchant != "Coffee Shop" || txs[0].Amount != 12.5 || txs[0].Date != "2024-01-05" {
		t.Errorf("unexpected first transaction %+v", txs[0])
	}
	// Merchant sanitization happens at the parse boundary.
	if txs[1].Merchant != "Ben & Jerry's" {
		t.Errorf("merchant not sanitized: %q", txs[1].Merchant)
	}
}

func TestParseTranscriptWithFences(t *testing.T) {
	raw := "```json\n" +
		`[{"merchant": "Shop", "amount": 1.0, "date": "2024-01-05"}]` +
		"\n```"
	txs, err := parseTranscript(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("got %d transactions, want 1", len(txs))
	}
}

func TestParseTranscriptSurroundingJunk(t *testing.T) {
	raw := "Here are the transactions you asked for:\n" +
		`[{"merchant": "Shop", "amount": 1.0, "date": "2024-01-05"}]` +
		"\nLet me know if you need anything else."
	txs, err := parseTranscript(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("got %d transactions, want 1", len(txs))
	}
}

func TestParseTranscriptEmptyArray(t *testing.T) {
	txs, err := parseTranscript("[]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("got %d transactions, want 0", len(txs))
	}
}

func TestParseTranscriptRejects(t *testing.T) {
	cases := map[string]string{
		"not JSON":         "transactions: none",
		"object not array": `{"merchant": "Shop"}`,
		"missing merchant": `[{"amount": 1.0, "date": "2024-01-05"}]`,
		"missing date":     `[{"merchant": "Shop", "amount": 1.0}]`,
		"string amount":    `[{"merchant": "Shop", "amount": "1.0", "date": "2024-01-05"}]`,
		"bad date":         `[{"merchant": "Shop", "amount": 1.0, "date": "05/01/2024"}]`,
		"empty merchant":   `[{"merchant": "  ", "amount": 1.0, "date": "2024-01-05"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseTranscript(raw); err == nil {
				t.Error("expected error, got none")
			}
		})
	}
}

func TestCleanModelJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", `[1, 2]`, `[1, 2]`},
		{"fenced", "```json\n[1, 2]\n```", `[1, 2]`},
		{"bare fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"prose around array", "sure:\n[1, 2]\nthanks", `[1, 2]`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := cleanModelJSON(c.in); got != c.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}
