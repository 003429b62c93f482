package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/portal/internal/domain"
)

var (
	admin  = Context{App: domain.AppProcurement, UserType: domain.UserTypeAdmin}
	vendor = Context{App: domain.AppProcurement, UserType: domain.UserTypeVendor}
)

func TestRespond_RoleTables(t *testing.T) {
	tests := []struct {
		name   string
		ctx    Context
		input  string
		prefix string
	}{
		{"admin rfp", admin, "How do I create an RFP?", "📋 RFP Management"},
		{"admin evaluate", admin, "evaluate this", "🧠 Proposal Evaluation"},
		{"admin vendor", admin, "approve a vendor", "👥 Vendor Management"},
		{"admin stats", admin, "show stats", "📊 Dashboard Overview"},
		{"admin invoice", admin, "INVOICE status", "💰 Invoice & Contract Tracking"},
		{"admin help", admin, "what can you do", "🔧 I can help with: RFP creation"},
		{"vendor submit", vendor, "how to submit", "📝 Proposal Submission"},
		{"vendor awarded", vendor, "awarded work", "📄 Contract Management"},
		{"vendor opportunities", vendor, "any opportunities?", "🔍 Available RFPs"},
		{"vendor notifications", vendor, "notification settings", "🔔 Notifications"},
		{"vendor help", vendor, "help", "🔧 I can help with: Proposal submissions"},
		{"greeting", vendor, "Hello there", "👋 Hello!"},
		{"thanks", admin, "thanks a lot", "😊 You're welcome!"},
		{"unknown", admin, "weather tomorrow", "🤔 I'm not sure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Respond(tt.ctx, tt.input)
			assert.True(t, strings.HasPrefix(reply.Text, tt.prefix), "got %q", reply.Text)
			assert.Equal(t, domain.ChatQuery, reply.Type)
		})
	}
}

func TestRespond_FirstMatchWins(t *testing.T) {
	// "proposal" precedes "contract" in the vendor table
	reply := Respond(vendor, "proposal for the contract")
	assert.Contains(t, reply.Text, "Proposal Submission")

	// "rfp" precedes "proposal" in the admin table
	reply = Respond(admin, "proposal for the rfp")
	assert.Contains(t, reply.Text, "RFP Management")
}

func TestRespond_RoleTableBeforeGeneral(t *testing.T) {
	// "this" contains "hi", but the admin rule for "rfp" is consulted first
	reply := Respond(admin, "this rfp")
	assert.Contains(t, reply.Text, "RFP Management")
}

func TestWelcome(t *testing.T) {
	assert.Contains(t, Welcome(admin), "1957 Ventures admin assistant")
	assert.Contains(t, Welcome(vendor), "vendor assistant")
	assert.Contains(t, Welcome(Context{App: domain.AppHR}), "HR assistant")
}

func TestResponseType(t *testing.T) {
	assert.Equal(t, domain.ChatAction, ResponseType("I want to apply for leave"))
	assert.Equal(t, domain.ChatPolicy, ResponseType("what is the rule on overtime"))
	assert.Equal(t, domain.ChatQuery, ResponseType("when is payday"))
}

func hrContext() HRContext {
	return HRContext{
		Employee: &domain.Employee{ID: "EMP001", Name: "Ahmed Al-Rahman"},
		Balance:  &domain.VacationBalance{TotalDays: 30, UsedDays: 2, RemainingDays: 28},
		Policies: []domain.Policy{
			{ID: "POL001", Title: "Annual Leave Policy", Category: "Leaves", Content: strings.Repeat("a", 400)},
			{ID: "POL002", Title: "Sick Leave Policy", Category: "Leaves", Content: "short"},
			{ID: "POL003", Title: "Business Travel Policy", Category: "Travel", Content: "travel rules"},
			{ID: "POL004", Title: "Maternity Leave Policy", Category: "Leaves", Content: "maternity"},
		},
	}
}

func TestRespondHR_PolicySearch(t *testing.T) {
	reply := RespondHR(hrContext(), "What is the annual leave policy?")

	require.Equal(t, domain.ChatPolicy, reply.Type)
	assert.True(t, strings.HasPrefix(reply.Text, "Here's what I found in our company policies:"))
	assert.Contains(t, reply.Text, "**Annual Leave Policy**")
	assert.Contains(t, reply.Text, "**Sick Leave Policy**")
	assert.NotContains(t, reply.Text, "Maternity", "at most two policies are quoted")
	assert.Contains(t, reply.Text, strings.Repeat("a", 300)+"...")
	assert.NotContains(t, reply.Text, strings.Repeat("a", 301))
	assert.True(t, strings.HasSuffix(reply.Text, "please check the Policy Center."))
}

func TestRespondHR_PolicyWithoutMatch(t *testing.T) {
	reply := RespondHR(hrContext(), "what is the recruitment procedure")

	assert.Equal(t, domain.ChatPolicy, reply.Type)
	assert.Contains(t, reply.Text, "I couldn't find specific policy information")
}

func TestRespondHR_Fallbacks(t *testing.T) {
	hc := hrContext()

	reply := RespondHR(hc, "how many days of vacation do I have")
	assert.Equal(t, "You currently have 28 vacation days remaining out of your annual 30-day entitlement.", reply.Text)
	assert.Equal(t, domain.ChatQuery, reply.Type)

	reply = RespondHR(hc, "I need to request sick leave")
	// "sick leave" is itself a policy keyword
	assert.Equal(t, domain.ChatPolicy, reply.Type)

	reply = RespondHR(hc, "tell me something")
	assert.Contains(t, reply.Text, "Could you please be more specific")
}

func TestRespondHR_UnknownEmployee(t *testing.T) {
	reply := RespondHR(HRContext{}, "hello")
	assert.Equal(t, "error", reply.Type)
}

func TestIsPolicyQuestion(t *testing.T) {
	assert.True(t, IsPolicyQuestion("What is the DRESS CODE?"))
	assert.True(t, IsPolicyQuestion("probation period length"))
	assert.False(t, IsPolicyQuestion("what's my salary"))
}
