package browser

import (
	"fmt"
	"time"
)

// The in-page scripts read transaction rows cell by cell. Row dates are
// parsed best-effort in the page; rows whose date cannot be parsed are kept
// and left for the validator model to judge.

const rowHelpers = `
	const cells = (row) => Array.from(row.querySelectorAll('td, [role="cell"], .cell'))
		.map((c) => c.innerText.trim())
		.filter((t) => t.length > 0);
	const rowDate = (row) => {
		for (const t of cells(row)) {
			const d = new Date(t);
			if (!isNaN(d.getTime())) return d;
		}
		return null;
	};
`

// scanScript counts loaded rows and reports whether a row older than the
// month window has appeared yet.
func scanScript(rowSelector string, start, end time.Time) string {
	return fmt.Sprintf(`(() => {
		%s
		const rows = Array.from(document.querySelectorAll(%q));
		const startMs = %d, endMs = %d;
		let sawOutOfRange = false;
		for (const row of rows) {
			const d = rowDate(row);
			if (d !== null && d.getTime() < startMs) sawOutOfRange = true;
		}
		return { count: rows.length, sawOutOfRange };
	})()`, rowHelpers, rowSelector, start.UnixMilli(), end.UnixMilli())
}

// serializeScript renders every in-range row as {merchant, amount, date}
// from its first text cell, first numeric-looking cell, and parsed date.
// The output is intentionally tolerant; schema enforcement happens in the
// validator call.
func serializeScript(rowSelector string, start, end time.Time) string {
	return fmt.Sprintf(`(() => {
		%s
		const rows = Array.from(document.querySelectorAll(%q));
		const startMs = %d, endMs = %d;
		const out = [];
		for (const row of rows) {
			const texts = cells(row);
			if (texts.length === 0) continue;
			const d = rowDate(row);
			if (d !== null) {
				const ms = d.getTime();
				if (ms < startMs || ms >= endMs) continue;
			}
			const amountText = texts.find((t) => /[0-9][0-9.,]*/.test(t) && isNaN(new Date(t).getTime()));
			const merchant = texts.find((t) => t !== amountText && isNaN(new Date(t).getTime()));
			out.push({
				merchant: merchant || texts[0],
				amount: amountText ? parseFloat(amountText.replace(/[^0-9.\-]/g, '')) : null,
				date: d !== null ? d.toISOString().slice(0, 10) : null,
			});
		}
		return JSON.stringify(out);
	})()`, rowHelpers, rowSelector, start.UnixMilli(), end.UnixMilli())
}
