package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

const testCatalog = `{
  "students_enrolled": {
    "sql": "SELECT COUNT(*) FROM students",
    "params": []
  },
  "students_completed_module": {
    "sql": "SELECT COUNT(DISTINCT student_id) FROM student_module_completions WHERE module_id = :module_id",
    "params": ["module_id"]
  },
  "students_completed_assessment_but_not_other": {
    "sql": "SELECT 1",
    "params": ["assessment_x", "assessment_y"]
  }
}`

func loadTestRegistry(t *testing.T) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.json")
	if err := os.WriteFile(path, []byte(testCatalog), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return r
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed catalog")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := loadTestRegistry(t)

	spec, ok := r.Get("students_completed_module")
	if !ok {
		t.Fatal("expected metric to exist")
	}
	if !reflect.DeepEqual(spec.Params, []string{"module_id"}) {
		t.Errorf("unexpected params: %v", spec.Params)
	}

	if _, ok := r.Get("nope"); ok {
		t.Error("expected absent metric")
	}
}

func TestRegistry_Names_Sorted(t *testing.T) {
	r := loadTestRegistry(t)
	names := r.Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %d", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
}

func TestRender_DropsExtraParams(t *testing.T) {
	r := loadTestRegistry(t)

	query, bound, err := r.Render("students_completed_module", map[string]any{
		"module_id": int64(2),
		"extra":     "never bound",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if query == "" {
		t.Error("expected non-empty query template")
	}
	want := map[string]any{"module_id": int64(2)}
	if !reflect.DeepEqual(bound, want) {
		t.Errorf("bound = %v, want %v", bound, want)
	}
}

func TestRender_Idempotent(t *testing.T) {
	r := loadTestRegistry(t)
	params := map[string]any{"module_id": int64(5)}

	q1, b1, err := r.Render("students_completed_module", params)
	if err != nil {
		t.Fatalf("first Render failed: %v", err)
	}
	q2, b2, err := r.Render("students_completed_module", params)
	if err != nil {
		t.Fatalf("second Render failed: %v", err)
	}
	if q1 != q2 || !reflect.DeepEqual(b1, b2) {
		t.Error("Render is not idempotent for identical inputs")
	}
}

func TestRender_NoParams(t *testing.T) {
	r := loadTestRegistry(t)
	_, bound, err := r.Render("students_enrolled", map[string]any{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(bound) != 0 {
		t.Errorf("expected empty bound params, got %v", bound)
	}
}

func TestRender_UnknownMetric(t *testing.T) {
	r := loadTestRegistry(t)
	_, _, err := r.Render("made_up_metric", map[string]any{})
	if !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestRender_MissingParams(t *testing.T) {
	r := loadTestRegistry(t)

	_, _, err := r.Render("students_completed_assessment_but_not_other", map[string]any{
		"assessment_x": int64(3),
	})
	var missing *MissingParamsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingParamsError, got %v", err)
	}
	if !reflect.DeepEqual(missing.Params, []string{"assessment_y"}) {
		t.Errorf("missing = %v, want [assessment_y]", missing.Params)
	}
}
