package rewrite

import (
	"strings"
	"testing"
)

func TestBuildPromptDateUsesStrictFormat(t *testing.T) {
	p := BuildPrompt("Date", "التاريخ", "خمسة وعشرين مايو")

	if !strings.Contains(p, "25/مايو/2025") {
		t.Fatalf("date prompt must pin the output format, got %q", p)
	}
	if !strings.Contains(p, "خمسة وعشرين مايو") {
		t.Fatalf("date prompt must carry the raw text")
	}
}

func TestBuildPromptTechnicalOpinionIsAnalytic(t *testing.T) {
	p := BuildPrompt("TechnicalOpinion", "الرأي الفني", "النص")

	if !strings.Contains(p, "وتحليلية") {
		t.Fatalf("technical opinion prompt must ask for an analytic register, got %q", p)
	}
	if !strings.Contains(p, "الرأي الفني") {
		t.Fatalf("prompt must mention the field label")
	}
}

func TestBuildPromptDefaultIsFormalRewrite(t *testing.T) {
	p := BuildPrompt("Briefing", "موجز الواقعة", "النص")

	if !strings.Contains(p, "موجز الواقعة") {
		t.Fatalf("prompt must mention the field label, got %q", p)
	}
	if strings.Contains(p, "25/مايو/2025") {
		t.Fatalf("generic prompt must not pin the date format")
	}
}
