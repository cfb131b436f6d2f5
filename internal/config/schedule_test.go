package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScheduleDefault(t *testing.T) {
	s, err := LoadSchedule("")
	if err != nil {
		t.Fatalf("LoadSchedule(\"\") failed: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("expected the builtin 6-field schedule, got %d", s.Len())
	}
}

func TestLoadScheduleFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	yaml := `fields:
  - id: Date
    prompt: "send the date"
    label: "date"
  - id: Summary
    prompt: "send the summary"
    label: "summary"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing schedule file: %v", err)
	}

	s, err := LoadSchedule(path)
	if err != nil {
		t.Fatalf("LoadSchedule failed: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", s.Len())
	}
	if s.Field(1).ID != "Summary" {
		t.Fatalf("order not preserved: %+v", s.Field(1))
	}
}

func TestLoadScheduleRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	yaml := `fields:
  - {id: Date, prompt: p, label: l}
  - {id: Date, prompt: p2, label: l2}
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing schedule file: %v", err)
	}

	if _, err := LoadSchedule(path); err == nil {
		t.Fatalf("expected duplicate ids to be rejected")
	}
}

func TestLoadScheduleMissingFile(t *testing.T) {
	if _, err := LoadSchedule(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected missing explicit schedule file to fail")
	}
}
