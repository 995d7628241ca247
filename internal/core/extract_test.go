package core

import (
	"strings"
	"testing"
)

func TestExtractorFinalizeFromFragments(t *testing.T) {
	fragments := []string{`{"sub`, `ject_line": "Hi`, `", "bod`, `y": "Hello\nWorld"}`}

	extractor := &Extractor{}
	for _, fragment := range fragments {
		extractor.Feed(fragment)
	}

	email, degraded := extractor.Finalize()
	if degraded {
		t.Fatalf("expected clean parse, got degraded result %+v", email)
	}
	if email.SubjectLine != "Hi" {
		t.Errorf("expected subject %q, got %q", "Hi", email.SubjectLine)
	}
	if email.Body != "Hello\nWorld" {
		t.Errorf("expected body %q, got %q", "Hello\nWorld", email.Body)
	}
}

func TestExtractorPartialSubjectBeforeBody(t *testing.T) {
	extractor := &Extractor{}
	extractor.Feed(`{"sub`)

	if preview := extractor.Preview(); preview != nil {
		t.Fatalf("expected no preview after one fragment, got %+v", preview)
	}

	extractor.Feed(`ject_line": "Hi`)

	preview := extractor.Preview()
	if preview == nil {
		t.Fatal("expected a preview once the subject value closed")
	}
	if preview.SubjectLine != "Hi" {
		t.Errorf("expected preview subject %q, got %q", "Hi", preview.SubjectLine)
	}
	if preview.Body != "" {
		t.Errorf("expected body unset, got %q", preview.Body)
	}
}

func TestExtractorBodyPrefersCompleteMatch(t *testing.T) {
	extractor := &Extractor{}
	extractor.Feed(`{"subject_line": "S", "body": "first part`)

	preview := extractor.Preview()
	if preview == nil || preview.Body != "first part" {
		t.Fatalf("expected in-progress body %q, got %+v", "first part", preview)
	}

	extractor.Feed(`, second part"}`)

	preview = extractor.Preview()
	if preview == nil || preview.Body != "first part, second part" {
		t.Fatalf("expected complete body, got %+v", preview)
	}
}

func TestExtractorIgnoresLeadingFence(t *testing.T) {
	extractor := &Extractor{}
	extractor.Feed("```json\n" + `{"subject_line": "A", "body": "B`)

	preview := extractor.Preview()
	if preview == nil {
		t.Fatal("expected a preview despite the fence prefix")
	}
	if preview.SubjectLine != "A" || preview.Body != "B" {
		t.Errorf("expected subject A and body B, got %+v", preview)
	}
}

func TestExtractorUnescapesPreviewValues(t *testing.T) {
	extractor := &Extractor{}
	extractor.Feed(`{"subject_line": "Re: \"launch\"", "body": "line one\nline two"}`)

	preview := extractor.Preview()
	if preview == nil {
		t.Fatal("expected a preview")
	}
	if preview.SubjectLine != `Re: "launch"` {
		t.Errorf("expected quotes unescaped, got %q", preview.SubjectLine)
	}
	if preview.Body != "line one\nline two" {
		t.Errorf("expected newline unescaped, got %q", preview.Body)
	}
}

func TestFinalizeDegradesOnTruncatedJSON(t *testing.T) {
	extractor := &Extractor{}
	extractor.Feed(`{"subject_line": "A", "body": "unfinished`)

	email, degraded := extractor.Finalize()
	if !degraded {
		t.Fatal("expected degraded result for truncated JSON")
	}
	if email.SubjectLine != "A" {
		t.Errorf("expected subject from partial extraction, got %q", email.SubjectLine)
	}
	if email.Body != "unfinished" {
		t.Errorf("expected partial body, got %q", email.Body)
	}
}

func TestFinalizeFallsBackToRawAccumulator(t *testing.T) {
	raw := "I'm sorry, I can't produce an email for that request."
	extractor := &Extractor{}
	extractor.Feed(raw)

	email, degraded := extractor.Finalize()
	if !degraded {
		t.Fatal("expected degraded result for non-JSON output")
	}
	if email.SubjectLine != "" {
		t.Errorf("expected empty subject, got %q", email.SubjectLine)
	}
	if email.Body != raw {
		t.Errorf("expected body to default to the raw accumulator, got %q", email.Body)
	}
}

func TestParseEmailJSONFenceEquivalence(t *testing.T) {
	plain := `{"subject_line":"A","body":"B"}`
	cases := map[string]string{
		"unfenced":      plain,
		"json fence":    "```json\n" + plain + "\n```",
		"generic fence": "```" + plain + "```",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			email, err := ParseEmailJSON(input)
			if err != nil {
				t.Fatalf("ParseEmailJSON(%q): %v", input, err)
			}
			if email.SubjectLine != "A" || email.Body != "B" {
				t.Errorf("expected {A B}, got %+v", email)
			}
		})
	}
}

func TestParseEmailJSONRejectsMissingFields(t *testing.T) {
	cases := []string{
		`{"subject_line": "only subject"}`,
		`{"body": "only body"}`,
		`{"subject_line": 5, "body": "B"}`,
		`[]`,
		`not json at all`,
	}
	for _, input := range cases {
		if _, err := ParseEmailJSON(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestStripFencesLeavesInnerBackticksAlone(t *testing.T) {
	inner := `{"subject_line":"A","body":"use ` + "`go build`" + ` to compile"}`
	got := StripFences("```json\n" + inner + "\n```")
	if got != inner {
		t.Errorf("expected inner text unchanged, got %q", got)
	}
}

func TestExtractorAccumulated(t *testing.T) {
	extractor := &Extractor{}
	parts := []string{"abc", "def", "ghi"}
	for _, p := range parts {
		extractor.Feed(p)
	}
	if got := extractor.Accumulated(); got != strings.Join(parts, "") {
		t.Errorf("expected accumulator %q, got %q", strings.Join(parts, ""), got)
	}
}
