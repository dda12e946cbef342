package pipeline

import "context"

// Blob is an inline binary payload attached to a structured model call.
type Blob struct {
	MIMEType string
	Data     []byte
}

// ModelClient is the language-model boundary. Implementations return the
// model's raw text; the pipeline owns schema validation of the response.
type ModelClient interface {
	// GenerateStructured runs a single structured-extraction call expected
	// to yield a strict JSON array. blob may be nil for text-only calls.
	GenerateStructured(ctx context.Context, prompt string, blob *Blob) (string, error)

	// GenerateWithSearch runs a web-search-augmented call and returns the
	// model's free-text answer.
	GenerateWithSearch(ctx context.Context, prompt string) (string, error)
}

// MerchantHistory is the persistence lookup the classifier consults before
// any model call: the most recent category ever assigned to an exact-match
// merchant string.
type MerchantHistory interface {
	CategoryByMerchant(ctx context.Context, merchant string) (string, bool, error)
}

// TranscriptCollector drives an authenticated browser session against the
// issuer site and returns the scraped rows as a raw JSON transcript. The
// session is scoped to the call: implementations tear down the automation
// resource on every exit path.
type TranscriptCollector interface {
	Collect(ctx context.Context) (string, error)
}
