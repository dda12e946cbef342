package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/orgabay12/epxe/internal/domain"
)

// ExpenseToNotionProperties converts an expense to the properties of the
// Notion expenses database. The Identifier column carries the dedup key so
// later syncs can match pages back to rows.
func ExpenseToNotionProperties(e domain.Expense) notionapi.Properties {
	props := notionapi.Properties{
		"Merchant": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: e.Merchant,
					},
				},
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: e.Amount,
		},
		"Identifier": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: e.Identifier,
					},
				},
			},
		},
	}

	if e.Category != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: e.Category,
			},
		}
	}

	if parsed, err := time.Parse("2006-01-02", e.Date); err == nil {
		d := notionapi.Date(parsed)
		props["Date"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &d,
			},
		}
	}

	return props
}

// extractIdentifier reads the dedup key back out of a Notion page. Returns
// empty string when the page has no Identifier property.
func extractIdentifier(page notionapi.Page) string {
	if prop, ok := page.Properties["Identifier"]; ok {
		if richText, ok := prop.(*notionapi.RichTextProperty); ok {
			if len(richText.RichText) > 0 {
				return richText.RichText[0].PlainText
			}
		}
	}
	return ""
}

// extractDate reads the ISO date from a Notion page, or "" when absent.
func extractDate(page notionapi.Page) string {
	if prop, ok := page.Properties["Date"]; ok {
		if date, ok := prop.(*notionapi.DateProperty); ok {
			if date.Date != nil && date.Date.Start != nil {
				return time.Time(*date.Date.Start).Format("2006-01-02")
			}
		}
	}
	return ""
}
