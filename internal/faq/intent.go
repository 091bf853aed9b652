package faq

import "strings"

// IntentClassifier decides whether a message should skip FAQ handling in
// favor of the live schedule/booking integration. Implementations are plain
// predicates so the keyword lists can be swapped for a trained classifier
// without touching callers.
type IntentClassifier interface {
	IsBookingRequest(message string) bool
	IsScheduleRequest(message string) bool
}

// bookingKeywords fire on class-booking intent. Pure substring containment,
// no stemming or negation handling.
var bookingKeywords = []string{
	"book",
	"reserve",
	"sign me up",
	"sign up for",
	"join a class",
	"yoga",
	"pilates",
	"zumba",
	"spin",
	"spinning",
	"crossfit",
	"hiit",
	"boxing",
	"bodypump",
}

// scheduleKeywords fire on schedule-lookup intent. Bare "class"/"classes" is
// deliberately absent: it only counts alongside a scheduling word, otherwise
// FAQ questions like "what types of classes do you offer" would be swallowed
// by the live-schedule path.
var scheduleKeywords = []string{
	"schedule",
	"timetable",
	"today",
	"tomorrow",
	"week",
	"when",
	"next",
	"what time",
}

// KeywordClassifier is the default keyword-containment intent classifier.
type KeywordClassifier struct {
	booking  []string
	schedule []string
}

// NewKeywordClassifier returns the classifier with the default keyword sets.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{booking: bookingKeywords, schedule: scheduleKeywords}
}

// IsBookingRequest reports whether the message looks like a class booking.
func (c *KeywordClassifier) IsBookingRequest(message string) bool {
	return containsAny(message, c.booking)
}

// IsScheduleRequest reports whether the message asks about the class schedule.
func (c *KeywordClassifier) IsScheduleRequest(message string) bool {
	return containsAny(message, c.schedule)
}

func containsAny(message string, keywords []string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
