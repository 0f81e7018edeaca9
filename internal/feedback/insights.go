package feedback

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"courselens/internal/llm"
	"courselens/internal/store"
)

// Insights is the structured summary the LLM produces from comments
type Insights struct {
	Summary     string   `json:"summary"`
	Themes      []string `json:"themes"`
	Praise      []string `json:"praise"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Comment trimming bounds keep the prompt within token limits
const (
	maxComments        = 200
	maxCharsPerComment = 500
)

const insightsSystemPrompt = "You analyze student feedback for a course module and return useful, concise, and actionable insights " +
	"as STRICT JSON with keys: summary (string), themes (array), praise (array), issues (array), suggestions (array). " +
	"Be specific, avoid fluff, avoid repeating comments verbatim, and give concrete suggestions."

// summarize asks the LLM for structured insights. Returns nil on any
// failure; reports degrade to quantitative data plus raw comments.
func (r *Reporter) summarize(ctx context.Context, comments []string, moduleName *string, stats store.RatingStats) *Insights {
	trimmed := make([]string, 0, maxComments)
	for _, c := range comments {
		if len(trimmed) >= maxComments {
			break
		}
		c = strings.TrimSpace(c)
		if len(c) > maxCharsPerComment {
			c = c[:maxCharsPerComment]
		}
		trimmed = append(trimmed, c)
	}

	label := "This module"
	if moduleName != nil {
		label = *moduleName
	}
	avg := "N/A"
	if stats.Average != nil {
		avg = fmt.Sprintf("%.2f", *stats.Average)
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Module: %s\n", label)
	fmt.Fprintf(&user, "Ratings: count=%d, avg=%s, distribution={1:%d,2:%d,3:%d,4:%d,5:%d}\n\n",
		stats.Count, avg, stats.R1, stats.R2, stats.R3, stats.R4, stats.R5)
	user.WriteString("Here are student comments (one per line):\n")
	for _, c := range trimmed {
		fmt.Fprintf(&user, "- %s\n", c)
	}
	user.WriteString("\nReturn STRICT JSON ONLY with keys: summary, themes, praise, issues, suggestions.")

	response, err := r.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: insightsSystemPrompt},
		{Role: llm.RoleUser, Content: user.String()},
	}, 0.2)
	if err != nil {
		return nil
	}

	obj, ok := llm.ExtractJSONObject(response)
	if !ok {
		// Unparseable but non-empty output is still worth surfacing
		return &Insights{Summary: strings.TrimSpace(response)}
	}

	summary, _ := obj["summary"].(string)
	return &Insights{
		Summary:     summary,
		Themes:      asList(obj["themes"]),
		Praise:      asList(obj["praise"]),
		Issues:      asList(obj["issues"]),
		Suggestions: asList(obj["suggestions"]),
	}
}

var listSplitter = regexp.MustCompile(`[;\n]`)

// asList normalizes an insight field: accepts a JSON array or a single
// string split on newlines/semicolons.
func asList(v any) []string {
	switch x := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		var out []string
		for _, part := range listSplitter.Split(x, -1) {
			part = strings.Trim(part, "- •\t ")
			if part != "" {
				out = append(out, part)
			}
		}
		if out == nil {
			out = []string{}
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", x)}
	}
}
