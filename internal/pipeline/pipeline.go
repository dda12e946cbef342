package pipeline

import (
	"context"
	"fmt"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/logger"
)

// Pipeline is the orchestrator: a fixed acyclic workflow of
// route-by-modality → one extractor → classifier. No branch skips
// classification and no branch runs more than one extractor.
type Pipeline struct {
	model   ModelClient
	history MerchantHistory
	browser TranscriptCollector // nil when web import is not configured
}

// New assembles a pipeline. browser may be nil; web runs then degrade to an
// empty result with a diagnostic event.
func New(model ModelClient, history MerchantHistory, browser TranscriptCollector) *Pipeline {
	return &Pipeline{
		model:   model,
		history: history,
		browser: browser,
	}
}

// Run executes one pipeline invocation. The only hard errors are caller
// bugs (invalid modality); extraction and classification failures are
// contained per the fail-soft policy, so a successful return with zero
// transactions is a normal outcome. Progress events go to events
// best-effort; pass nil to discard them.
func (p *Pipeline) Run(ctx context.Context, in Input, events chan<- ProgressEvent) ([]domain.CategorizedTransaction, error) {
	if _, err := domain.ParseModality(string(in.Modality)); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	log := logger.FromContext(ctx)
	em := emitter{ch: events}

	state := &GraphState{
		Modality:   in.Modality,
		Image:      in.Image,
		ImageMIME:  in.ImageMIME,
		Text:       in.Text,
		Categories: in.Categories,
	}

	log.Info().Str("modality", string(in.Modality)).Msg("Pipeline run started")

	switch in.Modality {
	case domain.ModalityImage:
		state.Transactions = p.extractFromImage(ctx, state, em)
	case domain.ModalityText:
		state.Transactions = p.extractFromText(ctx, state, em)
	case domain.ModalityWeb:
		state.Transactions = p.extractFromWeb(ctx, state, em)
	}

	state.Categorized = p.classify(ctx, state, em)

	em.emit(StageDone, "processed %d transaction(s)", len(state.Categorized))
	log.Info().Int("transactions", len(state.Categorized)).Msg("Pipeline run finished")

	return state.Categorized, nil
}
