package guardrail

import "strings"

// lowConfidencePhrases mark an assistant reply as a non-answer. Matching is
// case-folded substring containment.
var lowConfidencePhrases = []string{
	"i'm not sure",
	"i am not sure",
	"i'm not certain",
	"i am not certain",
	"i don't know",
	"i do not know",
	"i don't have that information",
	"i don't have access",
	"i do not have access",
	"i'm unable to",
	"i am unable to",
	"i cannot help",
	"i can't help",
	"i can't answer",
	"i cannot answer",
	"i apologize, but",
	"i'm sorry, but i",
	"i'm sorry, i can't",
	"unfortunately, i cannot",
	"unfortunately, i can't",
	"i'm afraid i",
	"i might be wrong",
	"i may be wrong",
	"as an ai",
}

const minResponseLength = 10

// IsLowConfidence reports whether an assistant reply is an apology, a
// deflection, or too thin to send to a member. Replies with more than one
// question mark are counter-questions, not answers.
func IsLowConfidence(response string) bool {
	trimmed := strings.TrimSpace(response)
	if len(trimmed) < minResponseLength {
		return true
	}
	if strings.Count(trimmed, "?") > 1 {
		return true
	}

	lowered := strings.ToLower(trimmed)
	for _, phrase := range lowConfidencePhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
