package feedback

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"courselens/internal/llm"
	"courselens/internal/store"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	f.calls++
	for _, m := range messages {
		if m.Role == llm.RoleUser {
			f.lastUser = m.Content
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const fixtureSQL = `
CREATE TABLE students (student_id INTEGER PRIMARY KEY, student_name TEXT);
CREATE TABLE modules (module_id INTEGER PRIMARY KEY, module_name TEXT);
CREATE TABLE assessments (assessment_id INTEGER PRIMARY KEY, assessment_name TEXT);
CREATE TABLE student_module_completions (
  student_id INTEGER, module_id INTEGER,
  time_spent_minutes REAL, rating INTEGER, feedback TEXT
);
INSERT INTO modules VALUES (1, 'Foundations of Education'), (2, 'Advanced Pedagogy');
INSERT INTO student_module_completions VALUES
  (1, 1, 120, 5, 'Loved the pacing'),
  (2, 1, 90, 4, 'Clear examples'),
  (3, 1, 150, 2, NULL),
  (1, 2, 60, 3, 'Too dense');
`

func newFixtureDB(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer func() { _ = conn.Close() }()
	if _, err := conn.Exec(fixtureSQL); err != nil {
		t.Fatalf("populate fixture db: %v", err)
	}
	return store.New(path)
}

func TestModuleReport_WithoutProvider(t *testing.T) {
	reporter := NewReporter(newFixtureDB(t), nil)

	report, err := reporter.ModuleReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("ModuleReport failed: %v", err)
	}

	if report.ModuleName == nil || *report.ModuleName != "Foundations of Education" {
		t.Errorf("module name = %v", report.ModuleName)
	}
	if report.Quantitative.Count != 3 {
		t.Errorf("rating count = %d, want 3", report.Quantitative.Count)
	}
	want := []string{"Loved the pacing", "Clear examples"}
	if !reflect.DeepEqual(report.Comments, want) {
		t.Errorf("comments = %v, want %v", report.Comments, want)
	}
	if report.Insights != nil {
		t.Error("expected no insights without a provider")
	}
}

func TestModuleReport_WithInsights(t *testing.T) {
	provider := &fakeProvider{response: `{
		"summary": "Students rate this module highly.",
		"themes": ["pacing", "examples"],
		"praise": ["clear structure"],
		"issues": [],
		"suggestions": "add more exercises; shorten videos"
	}`}
	reporter := NewReporter(newFixtureDB(t), provider)

	report, err := reporter.ModuleReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("ModuleReport failed: %v", err)
	}
	if report.Insights == nil {
		t.Fatal("expected insights")
	}
	if report.Insights.Summary != "Students rate this module highly." {
		t.Errorf("summary = %q", report.Insights.Summary)
	}
	if !reflect.DeepEqual(report.Insights.Themes, []string{"pacing", "examples"}) {
		t.Errorf("themes = %v", report.Insights.Themes)
	}
	// A single string field is split into list items
	if !reflect.DeepEqual(report.Insights.Suggestions, []string{"add more exercises", "shorten videos"}) {
		t.Errorf("suggestions = %v", report.Insights.Suggestions)
	}
	if len(report.Insights.Issues) != 0 {
		t.Errorf("issues = %v, want empty", report.Insights.Issues)
	}

	// Prompt carries the quantitative context and the comments
	for _, want := range []string{"Foundations of Education", "count=3", "- Loved the pacing"} {
		if !strings.Contains(provider.lastUser, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestModuleReport_UnparseableInsights(t *testing.T) {
	provider := &fakeProvider{response: "The students seem happy overall."}
	reporter := NewReporter(newFixtureDB(t), provider)

	report, err := reporter.ModuleReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("ModuleReport failed: %v", err)
	}
	if report.Insights == nil {
		t.Fatal("expected raw-text insights")
	}
	if report.Insights.Summary != "The students seem happy overall." {
		t.Errorf("summary = %q", report.Insights.Summary)
	}
}

func TestModuleReport_ProviderFailureDegrades(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	reporter := NewReporter(newFixtureDB(t), provider)

	report, err := reporter.ModuleReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("ModuleReport failed: %v", err)
	}
	if report.Insights != nil {
		t.Error("expected no insights on provider failure")
	}
	if report.Quantitative.Count != 3 {
		t.Error("quantitative data must survive provider failure")
	}
}

func TestModuleReport_NoCommentsSkipsLLM(t *testing.T) {
	provider := &fakeProvider{response: `{"summary": "x"}`}
	reporter := NewReporter(newFixtureDB(t), provider)

	// Module 2's only completion has a comment; use a module with none
	report, err := reporter.ModuleReport(context.Background(), 99)
	if err != nil {
		t.Fatalf("ModuleReport failed: %v", err)
	}
	if provider.calls != 0 {
		t.Error("LLM must not be called without comments")
	}
	if report.Insights != nil {
		t.Error("expected no insights")
	}
}

func TestCourseReport(t *testing.T) {
	reporter := NewReporter(newFixtureDB(t), nil)

	reports, err := reporter.CourseReport(context.Background())
	if err != nil {
		t.Fatalf("CourseReport failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected reports for 2 modules, got %d", len(reports))
	}
	if reports[2] == nil || reports[2].Quantitative.Count != 1 {
		t.Errorf("module 2 report = %+v", reports[2])
	}
}

func TestAsList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, []string{}},
		{"array", []any{"a", "b"}, []string{"a", "b"}},
		{"string with separators", "one; two\nthree", []string{"one", "two", "three"}},
		{"bulleted string", "- first\n- second", []string{"first", "second"}},
		{"number", 42.0, []string{"42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("asList(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
