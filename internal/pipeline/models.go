// Package pipeline runs the transaction extraction-and-classification
// workflow: route by input modality to exactly one extractor, then always
// classify, producing an ordered list of categorized transactions. Internal
// failures never escape an extractor or the classifier; the worst outcome is
// an empty or partially-Uncategorized result, reported over the progress
// stream.
package pipeline

import "github.com/orgabay12/epxe/internal/domain"

// GraphState is the working memory of a single pipeline run. It exists only
// for the duration of the run and is never persisted.
type GraphState struct {
	Modality   domain.Modality
	Image      []byte // set for image runs
	ImageMIME  string
	Text       string // set for text runs
	Categories []string

	Transactions []domain.Transaction
	Categorized  []domain.CategorizedTransaction
}

// Input is the caller-facing request for one pipeline run. Image and Text
// are mutually exclusive; which one is consulted follows the modality.
type Input struct {
	Modality   domain.Modality
	Image      []byte
	ImageMIME  string
	Text       string
	Categories []string
}
