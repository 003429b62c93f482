package fixtures

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

var fixedNow = time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC)

func newTestState(t *testing.T) *State {
	t.Helper()

	seed, err := Load(fixedNow)
	require.NoError(t, err)

	n := 0
	st, err := NewState(seed,
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	require.NoError(t, err)
	return st
}

var (
	adminCaller  = Caller{UserID: "admin-001", UserType: domain.UserTypeAdmin}
	vendorCaller = Caller{UserID: DemoVendorID, UserType: domain.UserTypeVendor, Company: "TechCorp Solutions"}
)

func TestLoad_ResolvesRelativeDates(t *testing.T) {
	seed, err := Load(fixedNow)
	require.NoError(t, err)

	require.NotEmpty(t, seed.RFPs)
	first := seed.RFPs[0]
	assert.Equal(t, "demo-rfp-1", first.ID)
	assert.Equal(t, "2025-02-11T09:00:00", first.Deadline)
	assert.Equal(t, domain.ApprovalCFO, first.ApprovalLevel)

	assert.Equal(t, "2025-01-07T09:00:00", seed.Proposals[0].SubmittedAt)
	assert.Len(t, seed.Policies, 5)
	assert.Contains(t, seed.Policies[0].Content, "**Grade D and above:** 30 working days per year")
}

func TestParse_RejectsDanglingProposal(t *testing.T) {
	doc := []byte(`
rfps:
  - {id: r1, title: x, budget: 1, status: active}
proposals:
  - {id: p1, rfp_id: missing, vendor_id: v}
`)
	_, err := Parse(doc, fixedNow)
	assert.ErrorContains(t, err, "unknown rfp missing")
}

func TestCreateRequestThenList(t *testing.T) {
	st := newTestState(t)

	payload := domain.HRRequest{
		EmployeeID: DemoEmployeeID,
		Type:       domain.RequestWorkFromHome,
		Date:       "2025-01-20",
		Reason:     "Plumber visit",
	}
	created, err := st.CreateRequest(payload)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingApproval, created.Status)
	assert.Equal(t, "2025-01-12T09:00:00", created.SubmittedDate)

	var found *domain.HRRequest
	for _, r := range st.Requests(DemoEmployeeID) {
		if r.ID == created.ID {
			found = &r
			break
		}
	}
	require.NotNil(t, found, "created request missing from list")
	assert.Equal(t, payload.EmployeeID, found.EmployeeID)
	assert.Equal(t, payload.Type, found.Type)
	assert.Equal(t, payload.Date, found.Date)
	assert.Equal(t, payload.Reason, found.Reason)
}

func TestCreateRequest_VacationDeductsBalance(t *testing.T) {
	st := newTestState(t)

	r, err := st.CreateRequest(domain.HRRequest{
		EmployeeID: DemoEmployeeID,
		Type:       domain.RequestVacationLeave,
		StartDate:  "2025-02-02",
		EndDate:    "2025-02-06",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Days)

	b, err := st.VacationBalance(DemoEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, 7, b.UsedDays)
	assert.Equal(t, 23, b.RemainingDays)

	d, err := st.Dashboard(DemoEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, 23, d.VacationDaysLeft)
}

func TestCreateRequest_Errors(t *testing.T) {
	st := newTestState(t)

	_, err := st.CreateRequest(domain.HRRequest{EmployeeID: "EMP999", Type: domain.RequestSickLeave})
	assert.Equal(t, perrors.ErrCodeFixtureNotFound, perrors.CodeOf(err))

	_, err = st.CreateRequest(domain.HRRequest{EmployeeID: DemoEmployeeID, Type: domain.RequestSickLeave, StartDate: "2025-02-06", EndDate: "2025-02-02"})
	assert.Equal(t, perrors.ErrCodeFixtureInvalid, perrors.CodeOf(err))
}

func TestDashboard(t *testing.T) {
	st := newTestState(t)

	d, err := st.Dashboard(DemoEmployeeID)
	require.NoError(t, err)

	assert.Equal(t, 28, d.VacationDaysLeft)
	require.Len(t, d.PendingRequests, 2)
	assert.Equal(t, "REQ001", d.PendingRequests[0].ID, "newest first")
	assert.Equal(t, "2025-01-20", d.PendingRequests[0].StartDate)
	assert.Equal(t, "Dubai", d.BusinessTripStatus.Current)
	assert.Equal(t, 19500.0, d.LastSalaryPayment.Amount)
	assert.Len(t, d.UpcomingEvents, 2)

	_, err = st.Dashboard("EMP999")
	assert.Error(t, err)
}

func TestUpdateRequestStatus(t *testing.T) {
	st := newTestState(t)

	require.NoError(t, st.UpdateRequestStatus("REQ001", domain.StatusUpdate{Status: domain.StatusApproved, ApprovedBy: "Sarah Johnson"}))

	reqs := st.Requests(DemoEmployeeID)
	require.Equal(t, "REQ001", reqs[0].ID)
	assert.Equal(t, domain.StatusApproved, reqs[0].Status)
	assert.Equal(t, "Sarah Johnson", reqs[0].ApprovedBy)
	assert.NotEmpty(t, reqs[0].ApprovedDate)

	err := st.UpdateRequestStatus("nope", domain.StatusUpdate{Status: domain.StatusRejected})
	assert.Equal(t, perrors.ErrCodeFixtureNotFound, perrors.CodeOf(err))
}

func TestPolicies(t *testing.T) {
	st := newTestState(t)

	assert.Len(t, st.Policies(domain.PolicyQuery{}), 5)
	assert.Len(t, st.Policies(domain.PolicyQuery{Category: "all"}), 5)
	assert.Len(t, st.Policies(domain.PolicyQuery{Category: "Leaves"}), 2)

	hits := st.Policies(domain.PolicyQuery{Search: "HIJAB"})
	require.Len(t, hits, 1)
	assert.Equal(t, "POL005", hits[0].ID)

	assert.Len(t, st.Policies(domain.PolicyQuery{Search: "vacation"}), 1, "tags are searched")
	assert.Equal(t, []string{"Leaves", "Travel", "Compensation", "Conduct"}, st.PolicyCategories())

	_, err := st.Policy("POL999")
	assert.Error(t, err)
}

func TestChat(t *testing.T) {
	st := newTestState(t)

	msg, err := st.Chat(domain.ChatRequest{EmployeeID: DemoEmployeeID, SessionID: "s1", Message: "days of vacation left?"})
	require.NoError(t, err)
	assert.Contains(t, msg.Response, "28 vacation days")

	assert.Len(t, st.ChatHistory(DemoEmployeeID, "s1"), 1)
	history := st.ChatHistory(DemoEmployeeID, "")
	require.Len(t, history, 4)
	assert.Equal(t, "chat001", history[0].ID, "oldest first")
	assert.Equal(t, msg.ID, history[3].ID)
}

func TestProcurement_RoleViews(t *testing.T) {
	st := newTestState(t)

	assert.Len(t, st.RFPs(adminCaller), 4)
	for _, r := range st.RFPs(vendorCaller) {
		assert.Equal(t, domain.RFPActive, r.Status)
	}
	assert.Len(t, st.RFPs(vendorCaller), 3)

	assert.Len(t, st.Proposals(adminCaller), 5)
	assert.Len(t, st.Proposals(vendorCaller), 4)

	_, err := st.Proposal(vendorCaller, "demo-proposal-1")
	assert.Equal(t, perrors.ErrCodeFixtureForbidden, perrors.CodeOf(err))

	assert.Equal(t, domain.DashboardStats{TotalProposals: 4, AwardedContracts: 1, ActiveRFPs: 3}, st.Stats(vendorCaller))
	assert.Equal(t, domain.DashboardStats{TotalRFPs: 4, TotalProposals: 5, PendingVendors: 2}, st.Stats(adminCaller))

	other := Caller{UserID: "vendor-xyz", UserType: domain.UserTypeVendor}
	assert.Empty(t, st.Contracts(other))
	_, err = st.Contract(other, "CTR-2025-001")
	assert.Equal(t, perrors.ErrCodeFixtureForbidden, perrors.CodeOf(err))
}

func TestCreateRFP(t *testing.T) {
	st := newTestState(t)

	_, err := st.CreateRFP(vendorCaller, domain.RFPDraft{Title: "x"})
	assert.Equal(t, perrors.ErrCodeFixtureForbidden, perrors.CodeOf(err))

	r, err := st.CreateRFP(adminCaller, domain.RFPDraft{Title: "Fleet telematics", Budget: 1_200_000})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalCEO, r.ApprovalLevel)
	assert.Equal(t, domain.RFPActive, r.Status)
	assert.Equal(t, "admin-001", r.CreatedBy)

	got, err := st.RFP(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	require.NoError(t, st.UpdateRFPStatus(adminCaller, r.ID, "closed"))
	err = st.UpdateRFPStatus(adminCaller, r.ID, "archived")
	assert.Equal(t, perrors.ErrCodeFixtureInvalid, perrors.CodeOf(err))
}

func TestSubmitAndEvaluateProposal(t *testing.T) {
	st := newTestState(t)

	res, err := st.SubmitProposal(vendorCaller, domain.ProposalSubmission{
		RFPID:      "demo-rfp-2",
		Technical:  &domain.Attachment{Name: "tech.pdf", Content: []byte("tech")},
		Commercial: &domain.Attachment{Name: "price.xlsx", Content: []byte("price")},
	})
	require.NoError(t, err)

	p, err := st.Proposal(vendorCaller, res.ProposalID)
	require.NoError(t, err)
	assert.Equal(t, "dGVjaA==", p.TechnicalDocument)
	assert.Equal(t, "TechCorp Solutions", p.VendorCompany)
	assert.Equal(t, domain.ProposalSubmitted, p.Status)

	_, err = st.EvaluateProposal(vendorCaller, res.ProposalID)
	assert.Equal(t, perrors.ErrCodeFixtureForbidden, perrors.CodeOf(err))

	ev, err := st.EvaluateProposal(adminCaller, res.ProposalID)
	require.NoError(t, err)
	assert.InDelta(t, 73.5, ev.Evaluation.OverallScore, 0.001)

	p, err = st.Proposal(adminCaller, res.ProposalID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalEvaluated, p.Status)
	require.NotNil(t, p.AIScore)
	assert.InDelta(t, 73.5, *p.AIScore, 0.001)
}

func TestSubmitProposal_UnapprovedVendor(t *testing.T) {
	st := newTestState(t)

	pending := Caller{UserID: "vendor-002", UserType: domain.UserTypeVendor}
	_, err := st.SubmitProposal(pending, domain.ProposalSubmission{RFPID: "demo-rfp-1"})
	assert.ErrorContains(t, err, "Vendor not approved")

	require.NoError(t, st.SetVendorApproval(adminCaller, "vendor-002", true))
	_, err = st.SubmitProposal(pending, domain.ProposalSubmission{RFPID: "demo-rfp-1"})
	assert.NoError(t, err)
}

func TestContractDocuments(t *testing.T) {
	st := newTestState(t)

	contracts := st.Contracts(vendorCaller)
	require.Len(t, contracts, 3)
	for _, d := range contracts[0].Documents {
		assert.Empty(t, d.Content, "listings omit document content")
	}

	doc, err := st.ContractDocument(vendorCaller, "CTR-2025-001", "doc-2025-001-1")
	require.NoError(t, err)
	assert.Equal(t, "Signed Contract", doc.Name)
	assert.NotEmpty(t, doc.Content)

	_, err = st.ContractDocument(vendorCaller, "CTR-2025-001", "missing")
	assert.Equal(t, perrors.ErrCodeFixtureNotFound, perrors.CodeOf(err))
}

func TestUsers(t *testing.T) {
	st := newTestState(t)

	u, err := st.Authenticate("vendor001@techcorp.sa", "DemoVendor123!")
	require.NoError(t, err)
	assert.Equal(t, DemoVendorID, u.ID)

	_, err = st.Authenticate("vendor001@techcorp.sa", "wrong")
	assert.Equal(t, perrors.ErrCodeAuthRejected, perrors.CodeOf(err))

	created, err := st.Register(domain.Profile{Email: "new@acme.com", Password: "pw", UserType: domain.UserTypeVendor, CompanyName: "Acme"})
	require.NoError(t, err)
	assert.False(t, created.IsApproved)

	_, err = st.Register(domain.Profile{Email: "new@acme.com", Password: "pw", UserType: domain.UserTypeVendor})
	assert.Equal(t, perrors.ErrCodeFixtureConflict, perrors.CodeOf(err))

	vendors, err := st.Vendors(adminCaller)
	require.NoError(t, err)
	assert.Len(t, vendors, 5)

	_, err = st.Vendors(vendorCaller)
	assert.Equal(t, perrors.ErrCodeFixtureForbidden, perrors.CodeOf(err))
}
