package pipeline

import (
	"context"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/logger"
)

// Extractors never raise past their boundary: every internal failure (model
// error, network failure, automation failure) becomes an empty transaction
// list plus a diagnostic progress event. A garbled receipt must not abort
// the whole upload flow; the caller shows "0 transactions found" instead.

func (p *Pipeline) extractFromImage(ctx context.Context, state *GraphState, em emitter) []domain.Transaction {
	log := logger.FromContext(ctx)
	em.emit(StageExtract, "reading receipt image")

	mime := state.ImageMIME
	if mime == "" {
		mime = "image/jpeg"
	}

	raw, err := p.model.GenerateStructured(ctx, imageExtractionPrompt, &Blob{
		MIMEType: mime,
		Data:     state.Image,
	})
	if err != nil {
		log.Error().Err(err).Msg("Receipt extraction failed")
		em.emit(StageExtract, "could not read the receipt: %v", err)
		return nil
	}

	txs, err := parseTranscript(raw)
	if err != nil {
		log.Error().Err(err).Msg("Receipt extraction returned malformed output")
		em.emit(StageExtract, "receipt output was malformed: %v", err)
		return nil
	}

	em.emit(StageExtract, "found %d transaction(s) on the receipt", len(txs))
	return txs
}

func (p *Pipeline) extractFromText(ctx context.Context, state *GraphState, em emitter) []domain.Transaction {
	log := logger.FromContext(ctx)
	em.emit(StageExtract, "parsing text dump")

	raw, err := p.model.GenerateStructured(ctx, textExtractionPrompt(state.Text), nil)
	if err != nil {
		log.Error().Err(err).Msg("Text extraction failed")
		em.emit(StageExtract, "could not parse the text dump: %v", err)
		return nil
	}

	txs, err := parseTranscript(raw)
	if err != nil {
		log.Error().Err(err).Msg("Text extraction returned malformed output")
		em.emit(StageExtract, "text extraction output was malformed: %v", err)
		return nil
	}

	em.emit(StageExtract, "found %d transaction(s) in the text dump", len(txs))
	return txs
}

func (p *Pipeline) extractFromWeb(ctx context.Context, _ *GraphState, em emitter) []domain.Transaction {
	log := logger.FromContext(ctx)

	if p.browser == nil {
		em.emit(StageExtract, "web import is not configured")
		return nil
	}

	em.emit(StageExtract, "browsing the issuer site")
	transcript, err := p.browser.Collect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Issuer-site browsing failed")
		em.emit(StageExtract, "issuer-site browsing failed: %v", err)
		return nil
	}

	// Second, independent call: a strict validator re-parses whatever the
	// browsing session produced into the canonical transaction shape.
	em.emit(StageExtract, "validating scraped transactions")
	raw, err := p.model.GenerateStructured(ctx, validatorPrompt(transcript), nil)
	if err != nil {
		log.Error().Err(err).Msg("Transcript validation failed")
		em.emit(StageExtract, "could not validate scraped transactions: %v", err)
		return nil
	}

	txs, err := parseTranscript(raw)
	if err != nil {
		log.Error().Err(err).Msg("Transcript validation returned malformed output")
		em.emit(StageExtract, "scraped transactions were malformed: %v", err)
		return nil
	}

	em.emit(StageExtract, "found %d transaction(s) on the issuer site", len(txs))
	return txs
}
