package guardrail

import (
	"regexp"
	"strings"
)

// nonsensePatterns catch inputs that cannot carry a real question.
var nonsensePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[a-zA-Z]$`), // single letter
	regexp.MustCompile(`^\d+$`),      // digits only
	regexp.MustCompile(`^[^\w\s]+$`), // punctuation only
}

// hasRepeatedRun reports whether s contains n or more consecutive identical
// characters. Go's regexp (RE2) has no backreferences, so `(.)\1{4,}` cannot
// be expressed as a pattern.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

// commonShortWords are real messages that would otherwise fail the
// vowel-ratio heuristic below.
var commonShortWords = map[string]struct{}{
	"ok": {}, "okay": {}, "yes": {}, "no": {}, "yep": {}, "nope": {},
	"hi": {}, "hey": {}, "hello": {}, "bye": {}, "thanks": {}, "thank": {},
	"thx": {}, "ty": {}, "why": {}, "what": {}, "when": {}, "how": {},
	"gym": {}, "help": {}, "stop": {}, "start": {}, "test": {}, "hmm": {},
	"sure": {}, "cool": {}, "good": {}, "great": {}, "nice": {}, "please": {},
	"spin": {}, "spinning": {}, "crossfit": {},
}

const (
	minMessageLength = 3
	shortWordMaxLen  = 12
	minVowelRatio    = 0.3
	maxVowelRatio    = 0.7
)

// IsNonsenseOrUnknown reports whether a user message is too garbled to answer.
// It catches keyboard mashing ("asdf"), single characters, digit/punctuation
// runs, and repeated-character spam.
func IsNonsenseOrUnknown(message string) bool {
	msg := strings.TrimSpace(message)
	if len(msg) < minMessageLength {
		return true
	}

	for _, p := range nonsensePatterns {
		if p.MatchString(msg) {
			return true
		}
	}
	if hasRepeatedRun(msg, 5) { // 5+ repeated identical characters
		return true
	}

	// Vowel-ratio band for short single words: real words sit in the middle.
	if len(msg) <= shortWordMaxLen && !strings.ContainsAny(msg, " \t\n") {
		lowered := strings.ToLower(msg)
		if _, known := commonShortWords[lowered]; known {
			return false
		}
		letters := 0
		vowels := 0
		for _, r := range lowered {
			if r < 'a' || r > 'z' {
				continue
			}
			letters++
			switch r {
			case 'a', 'e', 'i', 'o', 'u':
				vowels++
			}
		}
		if letters > 0 {
			ratio := float64(vowels) / float64(letters)
			if ratio < minVowelRatio || ratio > maxVowelRatio {
				return true
			}
		}
	}

	return false
}
