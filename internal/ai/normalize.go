package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxAITags is how many sanitized model tags are kept.
	MaxAITags = 5
	// MaxTags bounds the merged user + model tag list.
	MaxTags = 10
	// MaxTagLen is the longest accepted tag; longer ones are dropped, not truncated.
	MaxTagLen = 29
)

var disallowedTagChars = regexp.MustCompile(`[^\w\s-]`)

// Analysis is the summary and tag pair produced for a note's content.
type Analysis struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// ExtractJSONObject returns the text from the first '{' through the last '}'.
// When no such span exists the input is returned unchanged.
func ExtractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

// ParseAnalysis turns a tagging reply into an Analysis. It never fails: a reply that is not
// an object with a non-empty string summary and a list of string tags yields the trimmed raw
// text as summary and no tags. ok reports whether the structured path was taken.
func ParseAnalysis(raw string) (a Analysis, ok bool) {
	raw = strings.TrimSpace(raw)
	fallback := Analysis{Summary: raw, Tags: []string{}}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(ExtractJSONObject(raw)), &fields); err != nil {
		return fallback, false
	}

	var summary string
	if err := json.Unmarshal(fields["summary"], &summary); err != nil || strings.TrimSpace(summary) == "" {
		return fallback, false
	}
	var tags []string
	tagsField, present := fields["tags"]
	if !present || string(tagsField) == "null" {
		return fallback, false
	}
	if err := json.Unmarshal(tagsField, &tags); err != nil {
		return fallback, false
	}

	cleaned := SanitizeTags(tags)
	if len(cleaned) > MaxAITags {
		cleaned = cleaned[:MaxAITags]
	}
	return Analysis{Summary: strings.TrimSpace(summary), Tags: cleaned}, true
}

// SanitizeTag lowercases the tag, strips characters outside word characters, whitespace and
// hyphens, and trims it. The result is "" when nothing usable remains or it is too long.
func SanitizeTag(tag string) string {
	tag = cases.Lower(language.Und).String(tag)
	tag = disallowedTagChars.ReplaceAllString(tag, "")
	tag = strings.TrimSpace(tag)
	if len(tag) > MaxTagLen {
		return ""
	}
	return tag
}

// SanitizeTags sanitizes every tag, dropping empty results and keeping order.
func SanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if s := SanitizeTag(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MergeTags sanitizes user tags, appends the model tags, removes duplicates keeping the first
// occurrence (so user tags win) and caps the result at MaxTags.
func MergeTags(userTags, aiTags []string) []string {
	seen := make(map[string]bool)
	merged := make([]string, 0, MaxTags)
	for _, t := range append(SanitizeTags(userTags), SanitizeTags(aiTags)...) {
		if seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
		if len(merged) == MaxTags {
			break
		}
	}
	return merged
}
