package intent

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"courselens/internal/llm"
	"courselens/internal/metrics"
	"courselens/internal/store"
)

// LLMParser resolves questions through the language-model collaborator.
// Any failure — transport, auth, malformed response, unresolvable entity
// name — yields a nil intent, never an error: the orchestrator recovers by
// falling back to the rule catalog.
type LLMParser struct {
	provider llm.Provider
	registry *metrics.Registry
	db       *store.DB
	verbose  bool
}

// NewLLMParser creates a parser backed by the given provider
func NewLLMParser(provider llm.Provider, registry *metrics.Registry, db *store.DB, verbose bool) *LLMParser {
	return &LLMParser{provider: provider, registry: registry, db: db, verbose: verbose}
}

// Parse sends the question with live schema and metric catalog context and
// turns the response into a candidate Intent. Name-valued parameters
// (keys ending in _name) are resolved to ids; if any resolution fails the
// whole candidate is discarded.
func (p *LLMParser) Parse(ctx context.Context, question string) *Intent {
	schema, err := p.db.Schema(ctx)
	if err != nil {
		p.logf("schema introspection failed: %v", err)
		return nil
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: buildSystemPrompt(schema, p.registry)},
		{Role: llm.RoleUser, Content: question},
	}

	response, err := p.provider.Chat(ctx, messages, 0)
	if err != nil {
		p.logf("LLM parsing failed: %v", err)
		return nil
	}

	obj, ok := llm.ExtractJSONObject(response)
	if !ok {
		p.logf("LLM response contained no JSON object")
		return nil
	}

	metric, _ := obj["metric"].(string)
	if metric == "" {
		return nil
	}
	params, _ := obj["params"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}

	if !p.resolveNames(ctx, params) {
		return nil
	}

	return &Intent{Metric: metric, Params: normalizeParams(params)}
}

// resolveNames converts every *_name parameter to the matching *_id via the
// store. Returns false when any name cannot be resolved.
func (p *LLMParser) resolveNames(ctx context.Context, params map[string]any) bool {
	for key, value := range params {
		if !strings.HasSuffix(key, "_name") {
			continue
		}
		name := fmt.Sprintf("%v", value)

		var (
			id  int64
			ok  bool
			err error
		)
		switch key {
		case "module_name":
			id, ok, err = p.db.ResolveModuleID(ctx, name)
		case "assessment_name":
			id, ok, err = p.db.ResolveAssessmentID(ctx, name)
		default:
			p.logf("unresolvable parameter %s", key)
			return false
		}
		if err != nil {
			p.logf("entity lookup failed: %v", err)
			return false
		}
		if !ok {
			p.logf("no match for %s %q", strings.TrimSuffix(key, "_name"), name)
			return false
		}

		delete(params, key)
		params[strings.TrimSuffix(key, "_name")+"_id"] = id
	}
	return true
}

// normalizeParams converts integral JSON numbers to int64 so that bound
// values are scalar identifiers, not floats.
func normalizeParams(params map[string]any) map[string]any {
	for k, v := range params {
		if f, ok := v.(float64); ok && f == math.Trunc(f) {
			params[k] = int64(f)
		}
	}
	return params
}

func buildSystemPrompt(schema string, registry *metrics.Registry) string {
	var catalog strings.Builder
	for _, name := range registry.Names() {
		spec, _ := registry.Get(name)
		if len(spec.Params) > 0 {
			fmt.Fprintf(&catalog, "- %s (requires: %s)\n", name, strings.Join(spec.Params, ", "))
		} else {
			fmt.Fprintf(&catalog, "- %s\n", name)
		}
	}

	return fmt.Sprintf(`You are a natural language to SQL intent parser for an educational analytics system.

Database Schema:
%s

Available Metrics:
%s
Your task is to parse natural language questions and return a JSON object with:
- "metric": the exact metric name from the available metrics
- "params": a dictionary of required parameters

For module/assessment names, extract the name into "module_name" or "assessment_name" and it will be resolved to an ID.

Examples:
- "How many students completed module 2?" -> {"metric": "students_completed_module", "params": {"module_id": 2}}
- "How many students completed module Foundations?" -> {"metric": "students_completed_module", "params": {"module_name": "Foundations"}}
- "What's the average score on assessment 3?" -> {"metric": "average_assessment_score", "params": {"assessment_id": 3}}

Return ONLY the JSON object, no other text.`, schema, catalog.String())
}

func (p *LLMParser) logf(format string, args ...any) {
	if p.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
