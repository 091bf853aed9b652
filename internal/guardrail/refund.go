package guardrail

import "strings"

// refundInquiryKeywords pre-screen user messages. Anyone asking about money
// back goes to a human before the assistant's answer is even considered.
var refundInquiryKeywords = []string{
	"refund",
	"money back",
	"moneyback",
	"reimburse",
	"chargeback",
	"charge back",
	"credit",
	"discount",
	"free trial",
	"free month",
	"waive",
	"waiver",
}

// refundPromisePhrases catch assistant replies that commit the business to a
// refund, waiver, or free offer. Any hit discards the reply outright.
var refundPromisePhrases = []string{
	"i can offer you a refund",
	"i can offer a refund",
	"we can refund",
	"we will refund",
	"we'll refund",
	"i'll refund",
	"i will refund",
	"you will receive a refund",
	"you'll receive a refund",
	"your refund will",
	"refund has been",
	"refund will be processed",
	"i can waive",
	"we can waive",
	"we'll waive",
	"i'll waive",
	"fee is waived",
	"fee waived",
	"free trial",
	"free month",
	"free class",
	"free session",
	"no charge",
	"at no cost",
	"complimentary",
	"discount applied",
	"i can give you a discount",
	"i can offer you a discount",
	"credit has been applied",
	"i've applied a credit",
}

// IsRefundInquiry reports whether a user message asks about refunds, credits,
// discounts, or free trials.
func IsRefundInquiry(message string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range refundInquiryKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// ContainsRefundPromise scans an assistant reply for phrases implying a
// refund, waiver, or free offer was promised. It returns the first phrase
// that matched, whether or not the underlying intent was legitimate.
func ContainsRefundPromise(reply string) (string, bool) {
	lowered := strings.ToLower(reply)
	for _, phrase := range refundPromisePhrases {
		if strings.Contains(lowered, phrase) {
			return phrase, true
		}
	}
	return "", false
}
