package browser

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	cases := []struct {
		now       string
		wantStart string
		wantEnd   string
	}{
		{"2024-07-13", "2024-07-01", "2024-08-01"},
		{"2024-12-31", "2024-12-01", "2025-01-01"},
		{"2024-01-01", "2024-01-01", "2024-02-01"},
		{"2024-02-29", "2024-02-01", "2024-03-01"},
	}
	for _, c := range cases {
		now, err := time.Parse("2006-01-02", c.now)
		if err != nil {
			t.Fatal(err)
		}
		start, end := monthRange(now)
		if got := start.Format("2006-01-02"); got != c.wantStart {
			t.Errorf("monthRange(%s) start = %s, want %s", c.now, got, c.wantStart)
		}
		if got := end.Format("2006-01-02"); got != c.wantEnd {
			t.Errorf("monthRange(%s) end = %s, want %s", c.now, got, c.wantEnd)
		}
	}
}

func TestCredentialsRedacted(t *testing.T) {
	creds := Credentials{Username: "alice@example.com", Password: "hunter2"}

	for name, rendered := range map[string]string{
		"String":  creds.String(),
		"GoString": creds.GoString(),
		"fmt %v":  fmt.Sprintf("%v", creds),
		"fmt %+v": fmt.Sprintf("%+v", creds),
		"fmt %#v": fmt.Sprintf("%#v", creds),
		"fmt %s":  fmt.Sprintf("%s", creds),
	} {
		if strings.Contains(rendered, "hunter2") || strings.Contains(rendered, "alice") {
			t.Errorf("%s leaks credentials: %q", name, rendered)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{
		LoginURL:        "https://bank.example/login",
		TransactionsURL: "https://bank.example/transactions",
	}.withDefaults()

	if cfg.RowSelector == "" || cfg.UsernameSelector == "" || cfg.PasswordSelector == "" || cfg.SubmitSelector == "" {
		t.Error("selector defaults not applied")
	}
	if cfg.Timeout == 0 {
		t.Error("timeout default not applied")
	}
}

func TestScriptsEmbedWindow(t *testing.T) {
	start, end := monthRange(time.Date(2024, 7, 13, 10, 0, 0, 0, time.UTC))

	for name, script := range map[string]string{
		"scan":      scanScript("table tr", start, end),
		"serialize": serializeScript("table tr", start, end),
	} {
		if !strings.Contains(script, fmt.Sprintf("%d", start.UnixMilli())) {
			t.Errorf("%s script missing window start", name)
		}
		if !strings.Contains(script, `"table tr"`) {
			t.Errorf("%s script missing row selector", name)
		}
	}
}
