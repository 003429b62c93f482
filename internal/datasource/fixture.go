package datasource

import (
	"context"

	"github.com/felixgeelhaar/portal/internal/domain"
	"github.com/felixgeelhaar/portal/internal/fixtures"
)

var _ Source = (*Fixture)(nil)

// Fixture serves demo sessions from an in-memory fixture store. Writes
// are kept in the store for the life of the process.
type Fixture struct {
	state  *fixtures.State
	caller fixtures.Caller
}

// NewFixture binds a fixture store to the session user. Demo vendors act
// as the seeded demo vendor account so they see its proposals and
// contracts.
func NewFixture(state *fixtures.State, user domain.User) *Fixture {
	caller := fixtures.Caller{
		UserID:   user.ID,
		UserType: user.UserType,
		Company:  user.CompanyName,
	}
	if !user.UserType.IsAdmin() {
		caller.UserID = fixtures.DemoVendorID
	}
	return &Fixture{state: state, caller: caller}
}

func (f *Fixture) Name() string {
	return NameFixture
}

// Close is a no-op; demo data outlives the session.
func (f *Fixture) Close() {}

// HR

func (f *Fixture) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emp, err := f.state.Employee(id)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (f *Fixture) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.Employees(), nil
}

func (f *Fixture) GetDashboard(ctx context.Context, employeeID string) (*domain.Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := f.state.Dashboard(employeeID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (f *Fixture) ListRequests(ctx context.Context, employeeID string) ([]domain.HRRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.Requests(employeeID), nil
}

func (f *Fixture) CreateRequest(ctx context.Context, req domain.HRRequest) (*domain.HRRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created, err := f.state.CreateRequest(req)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (f *Fixture) UpdateRequestStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.state.UpdateRequestStatus(id, update)
}

func (f *Fixture) ListPolicies(ctx context.Context, query domain.PolicyQuery) ([]domain.Policy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.Policies(query), nil
}

func (f *Fixture) GetPolicy(ctx context.Context, id string) (*domain.Policy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := f.state.Policy(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (f *Fixture) ListPolicyCategories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.PolicyCategories(), nil
}

func (f *Fixture) SendChatMessage(ctx context.Context, msg domain.ChatRequest) (*domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reply, err := f.state.Chat(msg)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (f *Fixture) ChatHistory(ctx context.Context, employeeID, sessionID string) ([]domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.ChatHistory(employeeID, sessionID), nil
}

func (f *Fixture) GetVacationBalance(ctx context.Context, employeeID string) (*domain.VacationBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := f.state.VacationBalance(employeeID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (f *Fixture) ListSalaryPayments(ctx context.Context, employeeID string) ([]domain.SalaryPayment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.SalaryPayments(employeeID), nil
}

// Procurement

func (f *Fixture) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats := f.state.Stats(f.caller)
	return &stats, nil
}

func (f *Fixture) ListRFPs(ctx context.Context) ([]domain.RFP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.RFPs(f.caller), nil
}

func (f *Fixture) GetRFP(ctx context.Context, id string) (*domain.RFP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rfp, err := f.state.RFP(id)
	if err != nil {
		return nil, err
	}
	return &rfp, nil
}

func (f *Fixture) CreateRFP(ctx context.Context, draft domain.RFPDraft) (*domain.RFP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rfp, err := f.state.CreateRFP(f.caller, draft)
	if err != nil {
		return nil, err
	}
	return &rfp, nil
}

func (f *Fixture) UpdateRFPStatus(ctx context.Context, id string, status domain.RFPStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.state.UpdateRFPStatus(f.caller, id, string(status))
}

func (f *Fixture) ListProposals(ctx context.Context) ([]domain.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.Proposals(f.caller), nil
}

func (f *Fixture) GetProposal(ctx context.Context, id string) (*domain.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := f.state.Proposal(f.caller, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (f *Fixture) SubmitProposal(ctx context.Context, sub domain.ProposalSubmission) (*domain.SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := f.state.SubmitProposal(f.caller, sub)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (f *Fixture) EvaluateProposal(ctx context.Context, id string) (*domain.EvaluationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := f.state.EvaluateProposal(f.caller, id)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (f *Fixture) ListContracts(ctx context.Context) ([]domain.Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.Contracts(f.caller), nil
}

func (f *Fixture) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ct, err := f.state.Contract(f.caller, id)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (f *Fixture) GetContractDocument(ctx context.Context, contractID, docID string) (*domain.ContractDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := f.state.ContractDocument(f.caller, contractID, docID)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (f *Fixture) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.state.Vendors(f.caller)
}

func (f *Fixture) SetVendorApproval(ctx context.Context, id string, approved bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.state.SetVendorApproval(f.caller, id, approved)
}
