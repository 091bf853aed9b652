// Package guardrail holds the phrase/keyword heuristics that decide when a
// message or an assistant reply must be intercepted and handed to a human.
// Raw guardrail failures are never shown to end users; every trip maps to a
// fixed, non-committal reply plus a ticket.
package guardrail

// ViolationType identifies which guardrail fired. It is surfaced in the
// webhook response so the automation platform can branch on it.
type ViolationType string

const (
	ViolationNonsense      ViolationType = "nonsense_query"
	ViolationLowConfidence ViolationType = "low_confidence"
	ViolationRefundInquiry ViolationType = "refund_inquiry"
	ViolationRefundPromise ViolationType = "refund_promise"
)

// Fixed user-facing replies per violation. These are the only texts a member
// ever sees when a guardrail trips.
const (
	NonsenseReply = "I want to make sure I understand you correctly - could you rephrase that? If you'd prefer, one of our team members can help you directly."

	LowConfidenceReply = "Let me connect you with one of our team members who can give you a definitive answer. Someone will be in touch shortly."

	RefundInquiryReply = "Questions about refunds, credits, or discounts are handled by our front desk team. I've passed your request along and someone will follow up with you shortly."

	RefundPromiseReply = "For billing matters like refunds or discounts, our front desk team will confirm the details with you directly. I've flagged your request and someone will follow up shortly."

	ToolErrorReply = "Sorry, something went wrong on our end while handling that. Our team has been notified and will follow up with you shortly."
)
