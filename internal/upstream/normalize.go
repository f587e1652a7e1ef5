package upstream

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The webhook's contract is ad-hoc: depending on how the flow is wired it
// answers with an array-wrapped object, a bare object, a single "output"
// text field, or discrete fields. normalize dispatches over the decoded
// shape and folds everything into a Result.
func normalize(raw []byte, adjust bool) (Result, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Result{}, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedResponse, err)
	}

	var obj map[string]any
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return Result{}, ErrEmptyResponse
		}
		first, ok := t[0].(map[string]any)
		if !ok {
			return Result{}, fmt.Errorf("%w: array element is not an object", ErrMalformedResponse)
		}
		obj = first
	case map[string]any:
		obj = t
	default:
		return Result{}, fmt.Errorf("%w: top-level %T", ErrMalformedResponse, v)
	}

	if out, ok := stringField(obj, "output"); ok {
		return fromOutput(out, adjust), nil
	}

	if rewritten, ok := stringField(obj, "rewritten_resume"); ok {
		analysis, _ := stringField(obj, "analysis")
		suggestions, _ := stringField(obj, "suggestions")
		return Result{
			Analysis:    analysis,
			Suggestions: suggestions,
			Score:       scoreFromAny(obj["score"]),
			Rewritten:   rewritten,
		}, nil
	}

	// Discrete-field shape without a rewrite.
	if analysis, ok := stringField(obj, "analysis"); ok {
		suggestions, _ := stringField(obj, "suggestions")
		return Result{
			Analysis:    analysis,
			Suggestions: suggestions,
			Score:       scoreFromAny(obj["score"]),
		}, nil
	}

	return Result{}, fmt.Errorf("%w: no output, rewritten_resume or analysis field", ErrMalformedResponse)
}

// fromOutput maps the single-field shape: the whole analysis comes as one
// free-form text, with suggestions and a 0-10 score embedded somewhere in
// it. In adjust mode that same text is the rewritten resume.
func fromOutput(out string, adjust bool) Result {
	analysis, suggestions := splitSuggestions(out)
	res := Result{
		Analysis:    analysis,
		Suggestions: suggestions,
		Score:       findScore(out),
	}
	if adjust {
		res.Rewritten = out
	}
	return res
}

// splitSuggestions carves the suggestions block out of a combined
// analysis text. The boundary is the first line containing "sugest"
// (case-insensitive, covers "Sugestões"/"Suggestions"); everything before
// that line is analysis, everything after it is suggestions with any
// trailing score line removed. Without a marker the whole text is analysis.
func splitSuggestions(text string) (analysis, suggestions string) {
	idx := strings.Index(strings.ToLower(text), "sugest")
	if idx < 0 {
		return strings.TrimSpace(text), ""
	}

	lineStart := strings.LastIndex(text[:idx], "\n") + 1
	analysis = strings.TrimSpace(text[:lineStart])

	rest := text[idx:]
	nl := strings.Index(rest, "\n")
	colon := strings.Index(rest, ":")
	switch {
	case colon >= 0 && (nl < 0 || colon < nl):
		rest = rest[colon+1:]
	case nl >= 0:
		rest = rest[nl+1:]
	default:
		rest = ""
	}
	suggestions = strings.TrimSpace(stripTrailingScoreLines(rest))

	if analysis == "" {
		// Marker on the first line; keep the full text as analysis so the
		// field is always derivable.
		analysis = strings.TrimSpace(text)
	}
	return analysis, suggestions
}

var (
	scoreSlashRe = regexp.MustCompile(`\b(10|[0-9])\s*/\s*10\b`)
	scoreLabelRe = regexp.MustCompile(`(?i)\b(?:nota|score|pontua\w*)\D{0,15}?\b(10|[0-9])\b`)
	scoreLineRe  = regexp.MustCompile(`(?i)^\s*(?:nota|score|pontua\w*|avalia\w*)[^0-9]{0,15}(?:10|[0-9])(?:\s*/\s*10)?\s*\.?\s*$`)
)

// findScore searches free text for a 0-10 score: an "N/10" pattern first,
// then a labeled "Nota: N". Returns nil when nothing matches.
func findScore(text string) *int {
	if m := scoreSlashRe.FindStringSubmatch(text); m != nil {
		return parseScore(m[1])
	}
	if m := scoreLabelRe.FindStringSubmatch(text); m != nil {
		return parseScore(m[1])
	}
	return nil
}

func parseScore(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 10 {
		return nil
	}
	return &n
}

// stripTrailingScoreLines removes lines like "Nota: 7/10" from the end of
// a suggestions block; the score is reported in its own field.
func stripTrailingScoreLines(s string) string {
	lines := strings.Split(s, "\n")
	end := len(lines)
	for end > 0 {
		line := strings.TrimSpace(lines[end-1])
		if line == "" || scoreLineRe.MatchString(line) {
			end--
			continue
		}
		break
	}
	return strings.Join(lines[:end], "\n")
}

func stringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func scoreFromAny(v any) *int {
	switch t := v.(type) {
	case float64:
		n := int(t)
		if n >= 0 && n <= 10 {
			return &n
		}
	case string:
		return parseScore(strings.TrimSpace(t))
	}
	return nil
}
