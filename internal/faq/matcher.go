package faq

import (
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// normalizeQuestion lowercases, trims, and strips punctuation so "Monthly
// membership?" and "monthly membership" compare equal.
func normalizeQuestion(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = nonWordPattern.ReplaceAllString(q, "")
	return strings.TrimSpace(q)
}

// membershipQueryKeywords flag a user question as membership/plan related.
var membershipQueryKeywords = []string{"membership", "monthly", "yearly", "annual"}

// membershipEntryKeywords flag an FAQ entry as membership related.
var membershipEntryKeywords = []string{"membership", "monthly", "yearly", "annual", "plan"}

// isMembershipQuery reports whether a normalized question is about
// memberships or plans.
func isMembershipQuery(normalized string) bool {
	for _, kw := range membershipQueryKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return strings.Contains(normalized, "have") && strings.Contains(normalized, "plan")
}

func isMembershipEntry(normalized string) bool {
	for _, kw := range membershipEntryKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

const (
	generalMatchThreshold = 0.7
	// Membership questions are business-critical and phrased too variably for
	// the general threshold, so they get a lower bar. Kept as a self-contained
	// special case; do not generalize.
	membershipMatchThreshold = 0.5
)

// similarity scores two normalized questions in [0,1]: 1.0 if identical, 0.9
// if one contains the other, otherwise the count of significant words
// (length > 2) of the shorter question found in the longer one, divided by
// the larger significant-word count.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	aWords := significantWords(a)
	bWords := significantWords(b)
	if len(aWords) == 0 || len(bWords) == 0 {
		return 0
	}

	shorter, longer := aWords, bWords
	if len(bWords) < len(aWords) {
		shorter, longer = bWords, aWords
	}

	matched := 0
	for _, sw := range shorter {
		if wordInList(sw, longer) {
			matched++
		}
	}

	return float64(matched) / float64(len(longer))
}

func significantWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

// wordInList matches by substring in either direction, so "class" matches
// "classes" and vice versa.
func wordInList(word string, list []string) bool {
	for _, candidate := range list {
		if strings.Contains(candidate, word) || strings.Contains(word, candidate) {
			return true
		}
	}
	return false
}

// FindMatchingFAQ returns the FAQ entry best matching the user's question, or
// nil when nothing matches. Precedence: exact normalized match, membership
// override, general similarity, raw containment, membership word overlap.
func FindMatchingFAQ(question string, entries []Entry) *Entry {
	uq := normalizeQuestion(question)
	if uq == "" || len(entries) == 0 {
		return nil
	}

	normalized := make([]string, len(entries))
	for i := range entries {
		normalized[i] = normalizeQuestion(entries[i].Question)
	}

	// Exact normalized match wins outright.
	for i := range entries {
		if normalized[i] == uq {
			return &entries[i]
		}
	}

	membership := isMembershipQuery(uq)

	// Membership override: first membership-flagged entry above the lower bar.
	if membership {
		for i := range entries {
			if !isMembershipEntry(normalized[i]) {
				continue
			}
			if similarity(uq, normalized[i]) >= membershipMatchThreshold {
				return &entries[i]
			}
		}
	}

	// General similarity: single best candidate above the threshold.
	bestIdx := -1
	bestScore := 0.0
	for i := range entries {
		if score := similarity(uq, normalized[i]); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 && bestScore >= generalMatchThreshold {
		return &entries[bestIdx]
	}

	// Fallback: case-folded containment on the unnormalized questions.
	loweredQ := strings.ToLower(strings.TrimSpace(question))
	for i := range entries {
		loweredE := strings.ToLower(strings.TrimSpace(entries[i].Question))
		if loweredE == "" {
			continue
		}
		if strings.Contains(loweredQ, loweredE) || strings.Contains(loweredE, loweredQ) {
			return &entries[i]
		}
	}

	// Final membership fallback: two shared significant words is enough.
	if membership {
		uWords := significantWords(uq)
		for i := range entries {
			if !isMembershipEntry(normalized[i]) {
				continue
			}
			eWords := significantWords(normalized[i])
			shared := 0
			for _, w := range uWords {
				for _, e := range eWords {
					if w == e {
						shared++
						break
					}
				}
			}
			if shared >= 2 {
				return &entries[i]
			}
		}
	}

	return nil
}
