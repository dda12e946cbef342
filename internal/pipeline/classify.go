package pipeline

import (
	"context"
	"slices"
	"strings"

	"github.com/orgabay12/epxe/internal/domain"
	"github.com/orgabay12/epxe/internal/logger"
)

// classify assigns one category per transaction, strictly in input order.
// Persistence history wins over the model: a merchant the user has already
// categorized must not drift to a different category on a later import, and
// the cached path costs no model call. On a miss, a single
// search-augmented model call is made, accepted only if the answer is a
// case-sensitive exact member of the vocabulary; anything else falls back to
// the Uncategorized sentinel.
func (p *Pipeline) classify(ctx context.Context, state *GraphState, em emitter) []domain.CategorizedTransaction {
	log := logger.FromContext(ctx)
	out := make([]domain.CategorizedTransaction, 0, len(state.Transactions))

	for _, tx := range state.Transactions {
		category, found := p.lookupHistory(ctx, tx.Merchant)
		switch {
		case found:
			em.emit(StageClassify, "%s: using known category %q", tx.Merchant, category)
		default:
			category = p.classifyWithModel(ctx, tx.Merchant, state.Categories)
			if category == domain.Uncategorized {
				em.emit(StageClassify, "%s: could not classify, using %q", tx.Merchant, category)
			} else {
				em.emit(StageClassify, "%s: classified as %q", tx.Merchant, category)
			}
		}

		log.Debug().Str("merchant", tx.Merchant).Str("category", category).Msg("Transaction classified")
		out = append(out, domain.CategorizedTransaction{
			Transaction: tx,
			Category:    category,
		})
	}
	return out
}

func (p *Pipeline) lookupHistory(ctx context.Context, merchant string) (string, bool) {
	category, found, err := p.history.CategoryByMerchant(ctx, merchant)
	if err != nil {
		// A history failure is not fatal; fall through to the model.
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("merchant", merchant).Msg("Merchant history lookup failed")
		return "", false
	}
	return category, found
}

func (p *Pipeline) classifyWithModel(ctx context.Context, merchant string, categories []string) string {
	answer, err := p.model.GenerateWithSearch(ctx, classifyPrompt(merchant, categories))
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("merchant", merchant).Msg("Model classification failed")
		return domain.Uncategorized
	}

	answer = strings.TrimSpace(answer)
	if !slices.Contains(categories, answer) {
		// The model hallucinated a category outside the vocabulary.
		return domain.Uncategorized
	}
	return answer
}
