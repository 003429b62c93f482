// Package datasource hides whether screen data comes from the backend or
// from in-memory fixtures. A session picks one Source when it is created
// and every screen reads and writes through it.
package datasource

import (
	"context"

	"github.com/felixgeelhaar/portal/internal/domain"
)

// Source names
const (
	NameRemote  = "remote"
	NameFixture = "fixture"
)

// HR covers the HR self-service operations.
type HR interface {
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	GetDashboard(ctx context.Context, employeeID string) (*domain.Dashboard, error)
	ListRequests(ctx context.Context, employeeID string) ([]domain.HRRequest, error)
	CreateRequest(ctx context.Context, req domain.HRRequest) (*domain.HRRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, update domain.StatusUpdate) error
	ListPolicies(ctx context.Context, query domain.PolicyQuery) ([]domain.Policy, error)
	GetPolicy(ctx context.Context, id string) (*domain.Policy, error)
	ListPolicyCategories(ctx context.Context) ([]string, error)
	SendChatMessage(ctx context.Context, msg domain.ChatRequest) (*domain.ChatMessage, error)
	ChatHistory(ctx context.Context, employeeID, sessionID string) ([]domain.ChatMessage, error)
	GetVacationBalance(ctx context.Context, employeeID string) (*domain.VacationBalance, error)
	ListSalaryPayments(ctx context.Context, employeeID string) ([]domain.SalaryPayment, error)
}

// Procurement covers the vendor and procurement-team operations.
type Procurement interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	ListRFPs(ctx context.Context) ([]domain.RFP, error)
	GetRFP(ctx context.Context, id string) (*domain.RFP, error)
	CreateRFP(ctx context.Context, draft domain.RFPDraft) (*domain.RFP, error)
	UpdateRFPStatus(ctx context.Context, id string, status domain.RFPStatus) error
	ListProposals(ctx context.Context) ([]domain.Proposal, error)
	GetProposal(ctx context.Context, id string) (*domain.Proposal, error)
	SubmitProposal(ctx context.Context, sub domain.ProposalSubmission) (*domain.SubmitResult, error)
	EvaluateProposal(ctx context.Context, id string) (*domain.EvaluationResult, error)
	ListContracts(ctx context.Context) ([]domain.Contract, error)
	GetContract(ctx context.Context, id string) (*domain.Contract, error)
	GetContractDocument(ctx context.Context, contractID, docID string) (*domain.ContractDocument, error)
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	SetVendorApproval(ctx context.Context, id string, approved bool) error
}

// Source is everything a screen can ask for.
type Source interface {
	HR
	Procurement

	// Name is NameRemote or NameFixture, used as a metrics label.
	Name() string

	// Close is called when the session that chose the source ends.
	Close()
}
