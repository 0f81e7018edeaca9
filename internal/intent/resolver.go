package intent

import (
	"context"

	"courselens/internal/llm"
	"courselens/internal/metrics"
	"courselens/internal/store"
)

// Resolver orchestrates the two parsing strategies: the LLM fallback parser
// first when a provider is configured, then the rule catalog. Each strategy
// runs at most once per question.
type Resolver struct {
	llmParser *LLMParser
}

// NewResolver creates a resolver. provider may be nil, in which case the LLM
// strategy is skipped entirely and resolution is identical to calling
// ParseQuestion directly.
func NewResolver(provider llm.Provider, registry *metrics.Registry, db *store.DB, verbose bool) *Resolver {
	r := &Resolver{}
	if provider != nil {
		r.llmParser = NewLLMParser(provider, registry, db, verbose)
	}
	return r
}

// Resolve maps a question to an Intent, or nil when both strategies fail
func (r *Resolver) Resolve(ctx context.Context, question string) *Intent {
	if r.llmParser != nil {
		if in := r.llmParser.Parse(ctx, question); in != nil {
			return in
		}
	}
	return ParseQuestion(question)
}
