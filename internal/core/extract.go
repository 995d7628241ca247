package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The preview matching below is purely textual, not an incremental JSON
// parser. It may show a stale or truncated value for a moment; that is fine
// because Finalize always re-derives the authoritative result from the
// complete accumulated text.
var (
	// Leading fence only: the tail of a still-streaming response has no
	// closing fence yet.
	fencePrefixRe = regexp.MustCompile("^\\s*```(?:json)?\\s*")

	// For each field, prefer a syntactically complete value (closing quote,
	// for body also followed by a comma or closing brace), fall back to
	// opening quote through end-of-text for an in-progress value.
	subjectCompleteRe = regexp.MustCompile(`"subject_line"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	subjectPartialRe  = regexp.MustCompile(`"subject_line"\s*:\s*"((?:[^"\\]|\\.)*)`)
	bodyCompleteRe    = regexp.MustCompile(`"body"\s*:\s*"((?:[^"\\]|\\.)*)"\s*[,}]`)
	bodyPartialRe     = regexp.MustCompile(`"body"\s*:\s*"((?:[^"\\]|\\.)*)`)
)

// Extractor accumulates streamed fragments and derives a best-effort partial
// email for live preview. Feed never fails: extraction misses just leave the
// previous preview in place.
type Extractor struct {
	acc        strings.Builder
	subject    string
	subjectSet bool
	body       string
	bodySet    bool
}

// Feed appends a fragment and re-runs partial extraction over the
// accumulated text.
func (e *Extractor) Feed(fragment string) {
	e.acc.WriteString(fragment)
	text := fencePrefixRe.ReplaceAllString(e.acc.String(), "")

	if m := subjectCompleteRe.FindStringSubmatch(text); m != nil {
		e.subject = unescapePartial(m[1])
		e.subjectSet = true
	} else if m := subjectPartialRe.FindStringSubmatch(text); m != nil {
		e.subject = unescapePartial(m[1])
		e.subjectSet = true
	}
	if m := bodyCompleteRe.FindStringSubmatch(text); m != nil {
		e.body = unescapePartial(m[1])
		e.bodySet = true
	} else if m := bodyPartialRe.FindStringSubmatch(text); m != nil {
		e.body = unescapePartial(m[1])
		e.bodySet = true
	}
}

// Preview returns the current partial email, or nil before anything has been
// extracted. Unmatched fields stay empty strings.
func (e *Extractor) Preview() *GeneratedEmail {
	if !e.subjectSet && !e.bodySet {
		return nil
	}
	return &GeneratedEmail{SubjectLine: e.subject, Body: e.body}
}

// Accumulated returns the full text received so far.
func (e *Extractor) Accumulated() string {
	return e.acc.String()
}

// Finalize parses the complete accumulated text. On parse failure it degrades
// to the last partial extraction instead of failing the request: model output
// format conformance cannot be guaranteed, and the UI should always get
// something coherent. The second return reports whether the result is
// degraded.
func (e *Extractor) Finalize() (GeneratedEmail, bool) {
	email, err := ParseEmailJSON(e.acc.String())
	if err == nil {
		return email, false
	}

	degraded := GeneratedEmail{SubjectLine: e.subject, Body: e.body}
	if !e.bodySet {
		degraded.Body = e.acc.String()
	}
	return degraded, true
}

// StripFences removes a markdown code-fence wrapper from complete model
// output: a ```json\n ... \n``` pair first, then a generic ``` ... ``` pair.
func StripFences(s string) string {
	clean := s
	switch {
	case strings.HasPrefix(s, "```json\n") && strings.HasSuffix(s, "\n```"):
		clean = s[len("```json\n") : len(s)-len("\n```")]
	case strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6:
		clean = s[3 : len(s)-3]
	}
	return strings.TrimSpace(clean)
}

// ParseEmailJSON parses complete model output into a GeneratedEmail,
// tolerating a markdown fence wrapper. Both subject_line and body must be
// present as strings.
func ParseEmailJSON(s string) (GeneratedEmail, error) {
	clean := StripFences(strings.TrimSpace(s))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &fields); err != nil {
		return GeneratedEmail{}, fmt.Errorf("failed to parse email JSON: %w", err)
	}

	subjectRaw, hasSubject := fields["subject_line"]
	bodyRaw, hasBody := fields["body"]
	if !hasSubject || !hasBody {
		return GeneratedEmail{}, fmt.Errorf("email JSON is missing subject_line or body")
	}

	var email GeneratedEmail
	if err := json.Unmarshal(subjectRaw, &email.SubjectLine); err != nil {
		return GeneratedEmail{}, fmt.Errorf("subject_line is not a string: %w", err)
	}
	if err := json.Unmarshal(bodyRaw, &email.Body); err != nil {
		return GeneratedEmail{}, fmt.Errorf("body is not a string: %w", err)
	}
	return email, nil
}

// unescapePartial decodes the escape sequences a preview value is likely to
// contain. Order matters: backslash last, so already-decoded sequences are
// not unescaped twice.
func unescapePartial(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
