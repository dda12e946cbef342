package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/normalize"
)

// parseTranscript validates a model response against the transaction-list
// schema: a strict JSON array of {merchant, amount, date}. Any schema
// violation fails the whole transcript; callers treat that as an extraction
// failure. Merchant strings are sanitized here, the single entry point for
// model and scraper output.
func parseTranscript(raw string) ([]domain.Transaction, error) {
	clean := cleanModelJSON(raw)

	var items []any
	if err := json.Unmarshal([]byte(clean), &items); err != nil {
		return nil, fmt.Errorf("parseTranscript: unmarshal JSON array: %w", err)
	}

	out := make([]domain.Transaction, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parseTranscript: element %d is %T, want object", i, item)
		}

		merchant, err := getStringField(obj, "merchant")
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		dateStr, err := getStringField(obj, "date")
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		amount, err := getFloat64Field(obj, "amount")
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		date, err := civil.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: invalid date %q: %w", i, dateStr, err)
		}

		merchant = normalize.SanitizeMerchant(merchant)
		if merchant == "" {
			return nil, fmt.Errorf("transaction %d: merchant is empty after sanitization", i)
		}

		out = append(out, domain.Transaction{
			Merchant: merchant,
			Amount:   amount,
			Date:     date.String(),
		})
	}
	return out, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignored the strict-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// If there is still junk around the JSON array, keep only the span from
	// the first '[' to the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

func getStringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("required field %q is empty", key)
	}
	return s, nil
}

func getFloat64Field(m map[string]any, key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing required field %q", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
	return f, nil
}
