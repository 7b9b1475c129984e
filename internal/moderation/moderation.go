// Package moderation implements the word-list content filter applied to
// every post before it is stored.
package moderation

import (
	"regexp"
	"strings"
)

// homoglyphs maps common character substitutions back to their letter so
// "b1got" is caught the same as "bigot".
var homoglyphs = strings.NewReplacer(
	"1", "i",
	"0", "o",
	"3", "e",
	"@", "a",
	"$", "s",
	"|", "i",
	"5", "s",
	"7", "t",
	"4", "a",
	"8", "b",
)

var punctuation = regexp.MustCompile(`[!"#$%&'()*+,\-./:;<=>?@\[\\\]^_` + "`" + `{|}~]`)

var (
	singleWordRegex *regexp.Regexp
	phrases         []string
)

func init() {
	var singles []string
	for _, w := range hatefulWords {
		if strings.Contains(w, " ") {
			phrases = append(phrases, strings.ToLower(w))
		} else {
			singles = append(singles, regexp.QuoteMeta(strings.ToLower(w)))
		}
	}
	singleWordRegex = regexp.MustCompile(`(?i)\b(` + strings.Join(singles, "|") + `)\b`)
}

// Normalize lowercases text, folds homoglyph substitutions back to letters
// and replaces punctuation with spaces so the word filter sees plain words.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = homoglyphs.Replace(text)
	return punctuation.ReplaceAllString(text, " ")
}

// Check reports whether the text contains a blocked word or phrase.
// When it does, reason is "word_list" and match is the entry that hit.
func Check(text string) (blocked bool, reason, match string) {
	normalized := Normalize(text)

	// Phrases first so "kill yourself" reports the phrase, not a fragment.
	for _, phrase := range phrases {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
		if pattern.MatchString(normalized) {
			return true, "word_list", phrase
		}
	}

	if m := singleWordRegex.FindString(normalized); m != "" {
		return true, "word_list", m
	}
	return false, "", ""
}
