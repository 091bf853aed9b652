package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNonsenseOrUnknown(t *testing.T) {
	nonsense := []string{
		"a",
		"12345",
		"!!!!",
		"aaaaa",
		"asdf",
		"",
		"  ",
		"zzzzzzz",
	}
	for _, msg := range nonsense {
		assert.True(t, IsNonsenseOrUnknown(msg), "expected nonsense: %q", msg)
	}

	real := []string{
		"what classes do you have today",
		"hello",
		"ok",
		"yes",
		"crossfit",
		"do you have a monthly membership?",
	}
	for _, msg := range real {
		assert.False(t, IsNonsenseOrUnknown(msg), "expected real message: %q", msg)
	}
}

func TestIsLowConfidence(t *testing.T) {
	low := []string{
		"I'm not sure about that.",
		"I don't know, sorry about that!",
		"Unfortunately, I cannot answer questions about pricing right now.",
		"ok",
		"Did you mean yoga? Or spin? Or something else entirely, like boxing maybe?",
		"As an AI, I can't really say.",
	}
	for _, resp := range low {
		assert.True(t, IsLowConfidence(resp), "expected low confidence: %q", resp)
	}

	confident := []string{
		"Our monthly membership is $49 with no joining fee.",
		"Yes! We have a HIIT class tomorrow at 6pm with 4 seats left. Want me to book you in?",
	}
	for _, resp := range confident {
		assert.False(t, IsLowConfidence(resp), "expected confident: %q", resp)
	}
}

func TestIsRefundInquiry(t *testing.T) {
	assert.True(t, IsRefundInquiry("Can I get a refund for yesterday's class?"))
	assert.True(t, IsRefundInquiry("do you offer a FREE TRIAL"))
	assert.True(t, IsRefundInquiry("any discount for students?"))
	assert.True(t, IsRefundInquiry("I want my money back"))

	assert.False(t, IsRefundInquiry("what classes do you have today"))
	assert.False(t, IsRefundInquiry("do you have showers"))
}

func TestContainsRefundPromise(t *testing.T) {
	phrase, found := ContainsRefundPromise("Of course! We can refund your booking right away.")
	assert.True(t, found)
	assert.Equal(t, "we can refund", phrase)

	_, found = ContainsRefundPromise("You can join a free trial class this Saturday!")
	assert.True(t, found)

	_, found = ContainsRefundPromise("I can waive the joining fee for you.")
	assert.True(t, found)

	_, found = ContainsRefundPromise("Our monthly membership is $49 with no joining fee.")
	assert.False(t, found)
}
