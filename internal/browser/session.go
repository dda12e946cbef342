// Package browser drives a headless Chrome session against the configured
// card issuer's website and serializes the visible transaction rows into a
// raw JSON transcript. The transcript is deliberately loose: a separate
// strict-validator model call owns turning it into well-formed transactions.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// Credentials holds the issuer login. They are handed to the automation
// layer only; both stringer interfaces are overridden so the values can
// never leak into logs, errors, or progress events.
type Credentials struct {
	Username string
	Password string
}

func (Credentials) String() string   { return "credentials(redacted)" }
func (Credentials) GoString() string { return "credentials(redacted)" }

// Config describes the issuer site. The selector fields default to the
// issuer markup observed in production; override them when the site
// changes.
type Config struct {
	LoginURL        string
	TransactionsURL string
	Credentials     Credentials

	UsernameSelector string
	PasswordSelector string
	SubmitSelector   string
	RowSelector      string

	// Timeout bounds the whole session, login through scraping.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.UsernameSelector == "" {
		c.UsernameSelector = `input[name="username"]`
	}
	if c.PasswordSelector == "" {
		c.PasswordSelector = `input[type="password"]`
	}
	if c.SubmitSelector == "" {
		c.SubmitSelector = `button[type="submit"]`
	}
	if c.RowSelector == "" {
		c.RowSelector = `table tbody tr`
	}
	if c.Timeout == 0 {
		c.Timeout = 3 * time.Minute
	}
	return c
}

// Collector implements the pipeline's TranscriptCollector against a real
// browser.
type Collector struct {
	cfg Config
	log zerolog.Logger

	// now is swappable for tests of the month window.
	now func() time.Time
}

// NewCollector creates a collector for the configured issuer site.
func NewCollector(cfg Config, log zerolog.Logger) *Collector {
	return &Collector{
		cfg: cfg.withDefaults(),
		log: log.With().Str("component", "browser").Logger(),
		now: time.Now,
	}
}

const maxScrollRounds = 40

// Collect opens a fresh browser session, logs in, loads the current-month
// transactions and returns them as a JSON transcript. The browser process
// is torn down on every exit path; a leaked headless Chrome across repeated
// imports is a real resource leak.
func (c *Collector) Collect(ctx context.Context) (string, error) {
	start, end := monthRange(c.now())

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	c.log.Info().
		Str("login_url", c.cfg.LoginURL).
		Str("transactions_url", c.cfg.TransactionsURL).
		Str("month_start", start.Format("2006-01-02")).
		Msg("Starting issuer-site session")

	err := chromedp.Run(taskCtx,
		chromedp.Navigate(c.cfg.LoginURL),
		chromedp.WaitVisible(c.cfg.UsernameSelector, chromedp.ByQuery),
		chromedp.SendKeys(c.cfg.UsernameSelector, c.cfg.Credentials.Username, chromedp.ByQuery),
		chromedp.SendKeys(c.cfg.PasswordSelector, c.cfg.Credentials.Password, chromedp.ByQuery),
		chromedp.Click(c.cfg.SubmitSelector, chromedp.ByQuery),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("issuer login: %w", err)
	}

	err = chromedp.Run(taskCtx,
		chromedp.Navigate(c.cfg.TransactionsURL),
		chromedp.WaitVisible(c.cfg.RowSelector, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("open transactions page: %w", err)
	}

	// Scroll until every in-range row is loaded. The page is assumed to
	// list newest first, so the first out-of-range row means we are done.
	prevCount := -1
	for round := 0; round < maxScrollRounds; round++ {
		var scan pageScan
		if err := chromedp.Run(taskCtx,
			chromedp.Evaluate(scanScript(c.cfg.RowSelector, start, end), &scan),
		); err != nil {
			return "", fmt.Errorf("scan transaction rows: %w", err)
		}
		if scan.SawOutOfRange || scan.Count == prevCount {
			break
		}
		prevCount = scan.Count

		if err := chromedp.Run(taskCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(800*time.Millisecond),
		); err != nil {
			return "", fmt.Errorf("scroll transactions page: %w", err)
		}
	}

	var transcript string
	if err := chromedp.Run(taskCtx,
		chromedp.Evaluate(serializeScript(c.cfg.RowSelector, start, end), &transcript),
	); err != nil {
		return "", fmt.Errorf("serialize transaction rows: %w", err)
	}

	c.log.Info().Int("transcript_bytes", len(transcript)).Msg("Issuer-site session finished")
	return transcript, nil
}

type pageScan struct {
	Count         int  `json:"count"`
	SawOutOfRange bool `json:"sawOutOfRange"`
}

// monthRange returns [first-of-month, first-of-next-month) for t.
func monthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
