package assistant

import "strings"

// Rule answers any message containing one of its keywords.
type Rule struct {
	Keywords []string
	Reply    string
}

// Table is an ordered rule list; the first matching rule wins.
type Table []Rule

// Match returns the first rule whose keywords occur in msg. msg must already
// be lower-cased.
func (t Table) Match(msg string) (Rule, bool) {
	for _, r := range t {
		if containsAny(msg, r.Keywords...) {
			return r, true
		}
	}
	return Rule{}, false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// AdminRules answers procurement team members.
func AdminRules() Table {
	return Table{
		{
			Keywords: []string{"rfp", "request for proposal"},
			Reply:    "📋 RFP Management: You can create new RFPs, view proposals, make decisions, and cancel RFPs from the RFPs screen. Each RFP shows its budget, deadline and approval level.",
		},
		{
			Keywords: []string{"proposal", "evaluate"},
			Reply:    "🧠 Proposal Evaluation: Use the Evaluation screen to review proposals with AI scoring (70% commercial, 30% technical). You can accept, reject, or request revisions for each proposal.",
		},
		{
			Keywords: []string{"vendor", "approve"},
			Reply:    "👥 Vendor Management: Approve or reject vendors with 'portal procure vendors'. You can review each vendor's company, CR number and country first.",
		},
		{
			Keywords: []string{"dashboard", "stats"},
			Reply:    "📊 Dashboard Overview: Your dashboard shows Total RFPs, Total Proposals, and Pending Vendors.",
		},
		{
			Keywords: []string{"invoice", "contract"},
			Reply:    "💰 Invoice & Contract Tracking: Monitor vendor contracts, milestones and payment status from the contracts list, and download contract documents.",
		},
		{
			Keywords: []string{"help", "what can you do"},
			Reply:    "🔧 I can help with: RFP creation & management, Proposal evaluation & decisions, Vendor approval processes, Invoice tracking, Dashboard navigation, and AI evaluation features.",
		},
	}
}

// VendorRules answers vendors.
func VendorRules() Table {
	return Table{
		{
			Keywords: []string{"proposal", "submit"},
			Reply:    "📝 Proposal Submission: Pick an RFP from the RFPs screen, upload technical and commercial documents, and submit. You'll receive AI evaluation feedback.",
		},
		{
			Keywords: []string{"contract", "awarded"},
			Reply:    "📄 Contract Management: View your contracts in the Contracts screen. Track progress, payment status and milestones, and download documents.",
		},
		{
			Keywords: []string{"rfp", "opportunities"},
			Reply:    "🔍 Available RFPs: Browse active opportunities, view budgets, deadlines, and requirements. Submit proposals directly from the RFP details.",
		},
		{
			Keywords: []string{"dashboard", "stats"},
			Reply:    "📊 Dashboard Overview: Your dashboard shows Total Proposals, Awarded Contracts, and Active RFPs.",
		},
		{
			Keywords: []string{"notification", "updates"},
			Reply:    "🔔 Notifications: Stay updated on RFP deadlines, proposal evaluations, contract milestones, and payment confirmations.",
		},
		{
			Keywords: []string{"help", "what can you do"},
			Reply:    "🔧 I can help with: Proposal submissions, Contract management, RFP browsing, Dashboard navigation, Notification settings, and Document uploads.",
		},
	}
}

// GeneralRules apply to every procurement user after the role table.
func GeneralRules() Table {
	return Table{
		{
			Keywords: []string{"hello", "hi"},
			Reply:    "👋 Hello! How can I assist you with your procurement portal today?",
		},
		{
			Keywords: []string{"thank"},
			Reply:    "😊 You're welcome! Feel free to ask if you need any other help.",
		},
	}
}

// DefaultReply is given when no procurement rule matches.
const DefaultReply = "🤔 I'm not sure about that specific question. Try asking about: RFPs, proposals, contracts, dashboard features, or type 'help' to see what I can assist with."

// policyKeywords mark a message as a policy question.
var policyKeywords = []string{
	"policy", "policies", "rule", "rules", "procedure", "procedures",
	"leave policy", "vacation policy", "sick leave policy", "travel policy",
	"compensation policy", "salary policy", "work rules", "conduct",
	"what is the policy", "policy on", "company policy", "hr policy",
	"annual leave", "sick leave", "maternity leave", "business travel",
	"end of service", "performance management", "recruitment",
	"vacation days", "vacation entitlement", "how many vacation",
	"travel allowance", "travel allowances", "business trip allowance",
	"dress code", "working hours", "work hours", "overtime",
	"probation period", "end of service benefit", "service benefit",
	"maternity policy", "paternity leave", "bereavement leave",
}

// categoryKeywords route a policy question to policy categories.
var categoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{"Leaves", []string{"leave", "vacation", "sick"}},
	{"Travel", []string{"travel", "business trip"}},
	{"Compensation", []string{"salary", "compensation", "pay"}},
	{"Conduct", []string{"conduct", "rules", "dress", "hours"}},
}
