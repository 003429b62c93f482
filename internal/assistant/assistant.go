// Package assistant implements the portals' keyword-driven helpers: the
// procurement chat bot, the HR assistant's offline answers and the
// deterministic proposal scorer. Everything here is a pure function of its
// inputs.
package assistant

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/portal/internal/domain"
)

// Context identifies who is asking.
type Context struct {
	App      domain.App
	UserType domain.UserType
}

// Reply is an assistant answer. Type is one of the domain chat types.
type Reply struct {
	Text string `json:"text" yaml:"text"`
	Type string `json:"type" yaml:"type"`
}

// Welcome returns the greeting shown when a chat opens.
func Welcome(ctx Context) string {
	if ctx.App == domain.AppHR {
		return "👋 Hi! I'm your HR assistant. Ask me about leave balances, requests, salary or company policies."
	}
	if ctx.UserType.IsAdmin() {
		return "👋 Hi! I'm your 1957 Ventures admin assistant. I can help you with RFP management, proposal evaluation, vendor approval, and more!"
	}
	return "👋 Hi! I'm your vendor assistant. I can help you with proposal submissions, contract management, RFPs, and dashboard navigation!"
}

// Respond answers a procurement chat message from the rule tables: the
// caller's role table first, then the general table, then DefaultReply.
func Respond(ctx Context, input string) Reply {
	msg := strings.ToLower(input)

	role := VendorRules()
	if ctx.UserType.IsAdmin() {
		role = AdminRules()
	}
	if r, ok := role.Match(msg); ok {
		return Reply{Text: r.Reply, Type: domain.ChatQuery}
	}
	if r, ok := GeneralRules().Match(msg); ok {
		return Reply{Text: r.Reply, Type: domain.ChatQuery}
	}
	return Reply{Text: DefaultReply, Type: domain.ChatQuery}
}

// HRContext is the employee data the HR assistant may quote.
type HRContext struct {
	Employee *domain.Employee
	Balance  *domain.VacationBalance
	Policies []domain.Policy
}

// IsPolicyQuestion reports whether msg asks about company policy.
func IsPolicyQuestion(msg string) bool {
	return containsAny(strings.ToLower(msg), policyKeywords...)
}

// ResponseType classifies a message as an action, policy or plain query.
func ResponseType(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, "request", "submit", "apply"):
		return domain.ChatAction
	case containsAny(lower, "policy", "rule", "procedure"):
		return domain.ChatPolicy
	default:
		return domain.ChatQuery
	}
}

const policyExcerpt = 300

// RespondHR answers an HR chat message without a language model: policy
// questions quote the matching policies, a few common questions are
// answered from the employee's data, everything else gets a prompt to be
// more specific.
func RespondHR(hc HRContext, input string) Reply {
	msg := strings.ToLower(input)

	if hc.Employee == nil {
		return Reply{
			Text: "Sorry, I couldn't find your employee information. Please contact HR support.",
			Type: "error",
		}
	}

	if IsPolicyQuestion(msg) {
		return Reply{Text: searchPolicies(hc.Policies, msg), Type: domain.ChatPolicy}
	}

	if strings.Contains(msg, "vacation") && strings.Contains(msg, "days") && hc.Balance != nil {
		return Reply{
			Text: fmt.Sprintf("You currently have %d vacation days remaining out of your annual %d-day entitlement.",
				hc.Balance.RemainingDays, hc.Balance.TotalDays),
			Type: domain.ChatQuery,
		}
	}

	if strings.Contains(msg, "sick leave") && strings.Contains(msg, "request") {
		return Reply{
			Text: "I can help you request sick leave. You'll need to provide a medical certificate. Would you like me to guide you to the sick leave request form?",
			Type: domain.ChatAction,
		}
	}

	return Reply{
		Text: "I'm here to help with HR questions about policies, leave requests, salary information, and more. Could you please be more specific about what you'd like to know?",
		Type: domain.ChatQuery,
	}
}

func searchPolicies(policies []domain.Policy, msg string) string {
	var relevant []domain.Policy
	for _, p := range policies {
		for _, ck := range categoryKeywords {
			if p.Category == ck.Category && containsAny(msg, ck.Keywords...) {
				relevant = append(relevant, p)
				break
			}
		}
	}

	if len(relevant) == 0 {
		return "I couldn't find specific policy information for your question. Please check the Policy Center or contact HR for detailed policy information."
	}

	var b strings.Builder
	b.WriteString("Here's what I found in our company policies:\n\n")
	for i, p := range relevant {
		if i == 2 {
			break
		}
		fmt.Fprintf(&b, "**%s**:\n%s...\n\n", p.Title, truncate(p.Content, policyExcerpt))
	}
	b.WriteString("For complete policy details, please check the Policy Center.")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
