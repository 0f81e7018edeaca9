package llm

import (
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOK     bool
		wantMetric string
	}{
		{
			name:       "plain object",
			input:      `{"metric": "students_enrolled", "params": {}}`,
			wantOK:     true,
			wantMetric: "students_enrolled",
		},
		{
			name:       "surrounding whitespace",
			input:      "\n\n  {\"metric\": \"students_enrolled\", \"params\": {}}  \n",
			wantOK:     true,
			wantMetric: "students_enrolled",
		},
		{
			name:       "json fence",
			input:      "```json\n{\"metric\": \"average_module_rating\", \"params\": {\"module_id\": 5}}\n```",
			wantOK:     true,
			wantMetric: "average_module_rating",
		},
		{
			name:       "bare fence",
			input:      "```\n{\"metric\": \"average_module_rating\", \"params\": {}}\n```",
			wantOK:     true,
			wantMetric: "average_module_rating",
		},
		{
			name:       "leading json tag",
			input:      "json\n{\"metric\": \"students_enrolled\", \"params\": {}}",
			wantOK:     true,
			wantMetric: "students_enrolled",
		},
		{
			name:       "object embedded in prose",
			input:      "Sure! Here is the intent you asked for:\n{\"metric\": \"students_completed_module\", \"params\": {\"module_id\": 2}}\nLet me know if you need anything else.",
			wantOK:     true,
			wantMetric: "students_completed_module",
		},
		{
			name:       "nested braces",
			input:      `The answer is {"metric": "students_completed_module", "params": {"module_id": 2}} as requested.`,
			wantOK:     true,
			wantMetric: "students_completed_module",
		},
		{
			name:   "no object at all",
			input:  "I could not determine a metric for that question.",
			wantOK: false,
		},
		{
			name:   "unbalanced braces",
			input:  `{"metric": "students_enrolled", "params": {`,
			wantOK: false,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, ok := ExtractJSONObject(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if metric, _ := obj["metric"].(string); metric != tt.wantMetric {
				t.Errorf("metric = %q, want %q", metric, tt.wantMetric)
			}
		})
	}
}
