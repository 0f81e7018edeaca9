package intent

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestResolver_NilProviderMatchesRules(t *testing.T) {
	resolver := NewResolver(nil, newTestRegistry(t), newTestDB(t), false)
	ctx := context.Background()

	questions := []string{
		"How many students completed module 2?",
		"How many students are enrolled?",
		"What is the average rating for module 5?",
		"Tell me about the weather",
	}
	for _, q := range questions {
		got := resolver.Resolve(ctx, q)
		want := ParseQuestion(q)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Resolve(%q) = %+v, rules give %+v", q, got, want)
		}
	}
}

func TestResolver_PrefersLLMResult(t *testing.T) {
	provider := &fakeProvider{response: `{"metric": "students_completed_module", "params": {"module_name": "Pedagogy"}}`}
	resolver := NewResolver(provider, newTestRegistry(t), newTestDB(t), false)

	in := resolver.Resolve(context.Background(), "How many finished the pedagogy module?")
	if in == nil {
		t.Fatal("expected an intent")
	}
	if in.Metric != "students_completed_module" {
		t.Errorf("metric = %s", in.Metric)
	}
	if got, _ := in.Params["module_id"].(int64); got != 2 {
		t.Errorf("module_id = %v, want 2", in.Params["module_id"])
	}
}

func TestResolver_FallsBackToRules(t *testing.T) {
	provider := &fakeProvider{response: "no JSON here, sorry"}
	resolver := NewResolver(provider, newTestRegistry(t), newTestDB(t), false)

	in := resolver.Resolve(context.Background(), "How many students completed module 2?")
	if in == nil {
		t.Fatal("expected rule fallback to produce an intent")
	}
	if in.Metric != "students_completed_module" {
		t.Errorf("metric = %s", in.Metric)
	}
}

func TestResolver_TransportFailureFallsBack(t *testing.T) {
	provider := &fakeProvider{err: errors.New("dial tcp: connection refused")}
	resolver := NewResolver(provider, newTestRegistry(t), newTestDB(t), false)

	in := resolver.Resolve(context.Background(), "How many students are enrolled?")
	if in == nil || in.Metric != "students_enrolled" {
		t.Errorf("got %+v, want students_enrolled via rules", in)
	}
}

func TestResolver_BothStrategiesFail(t *testing.T) {
	provider := &fakeProvider{response: "???"}
	resolver := NewResolver(provider, newTestRegistry(t), newTestDB(t), false)

	if in := resolver.Resolve(context.Background(), "Tell me about the weather"); in != nil {
		t.Errorf("expected unresolved, got %+v", in)
	}
}
