package domain

import "fmt"

// RFPStatus is the publication state of an RFP
type RFPStatus string

const (
	RFPActive      RFPStatus = "active"
	RFPClosed      RFPStatus = "closed"
	RFPAwarded     RFPStatus = "awarded"
	RFPStatusDraft RFPStatus = "draft"
)

// NewRFPStatus validates an RFP status
func NewRFPStatus(value string) (RFPStatus, error) {
	switch s := RFPStatus(value); s {
	case RFPActive, RFPClosed, RFPAwarded, RFPStatusDraft:
		return s, nil
	default:
		return "", fmt.Errorf("invalid RFP status %q: must be one of active, closed, awarded, draft", value)
	}
}

// Proposal statuses
const (
	ProposalSubmitted   = "submitted"
	ProposalUnderReview = "under_review"
	ProposalEvaluated   = "evaluated"
	ProposalAwarded     = "awarded"
	ProposalRejected    = "rejected"
)

// RFP is a request for proposal.
type RFP struct {
	ID            string        `json:"id" yaml:"id"`
	Title         string        `json:"title" yaml:"title"`
	Description   string        `json:"description" yaml:"description"`
	Budget        float64       `json:"budget" yaml:"budget"`
	Deadline      string        `json:"deadline" yaml:"deadline"`
	Categories    []string      `json:"categories" yaml:"categories"`
	ScopeOfWork   string        `json:"scope_of_work" yaml:"scope_of_work"`
	CreatedBy     string        `json:"created_by,omitempty" yaml:"created_by"`
	CreatedAt     string        `json:"created_at,omitempty" yaml:"created_at"`
	Status        RFPStatus     `json:"status" yaml:"status"`
	ApprovalLevel ApprovalLevel `json:"approval_level" yaml:"approval_level"`
}

// RFPDraft is the payload for creating an RFP.
type RFPDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      float64  `json:"budget"`
	Deadline    string   `json:"deadline"`
	Categories  []string `json:"categories"`
	ScopeOfWork string   `json:"scope_of_work"`
}

// Evaluation is the scored assessment of a proposal.
type Evaluation struct {
	CommercialScore  float64  `json:"commercial_score" yaml:"commercial_score"`
	TechnicalScore   float64  `json:"technical_score" yaml:"technical_score"`
	OverallScore     float64  `json:"overall_score" yaml:"overall_score"`
	Strengths        []string `json:"strengths" yaml:"strengths"`
	Weaknesses       []string `json:"weaknesses" yaml:"weaknesses"`
	Recommendation   string   `json:"recommendation" yaml:"recommendation"`
	DetailedAnalysis string   `json:"detailed_analysis" yaml:"detailed_analysis"`
}

// Proposal is a vendor's response to an RFP.
type Proposal struct {
	ID                 string      `json:"id" yaml:"id"`
	RFPID              string      `json:"rfp_id" yaml:"rfp_id"`
	VendorID           string      `json:"vendor_id" yaml:"vendor_id"`
	VendorCompany      string      `json:"vendor_company" yaml:"vendor_company"`
	TechnicalDocument  string      `json:"technical_document,omitempty" yaml:"technical_document"`
	CommercialDocument string      `json:"commercial_document,omitempty" yaml:"commercial_document"`
	SubmittedAt        string      `json:"submitted_at" yaml:"submitted_at"`
	Status             string      `json:"status" yaml:"status"`
	AIScore            *float64    `json:"ai_score,omitempty" yaml:"ai_score"`
	AIEvaluation       *Evaluation `json:"ai_evaluation,omitempty" yaml:"ai_evaluation"`
}

// Attachment is a file submitted with a proposal.
type Attachment struct {
	Name    string
	Content []byte
}

// ProposalSubmission is the multipart proposal payload.
type ProposalSubmission struct {
	RFPID      string
	Technical  *Attachment
	Commercial *Attachment
}

// SubmitResult is returned by proposal submission.
type SubmitResult struct {
	Message    string `json:"message"`
	ProposalID string `json:"proposal_id"`
}

// EvaluationResult is returned by proposal evaluation.
type EvaluationResult struct {
	Message    string     `json:"message"`
	Evaluation Evaluation `json:"evaluation"`
}

// Milestone is one step of contract delivery.
type Milestone struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Date   string `json:"date" yaml:"date"`
}

// ContractDocument is a file attached to a contract. Content is only
// populated when a single document is fetched.
type ContractDocument struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Size       string `json:"size" yaml:"size"`
	Content    string `json:"content,omitempty" yaml:"content"`
	UploadedAt string `json:"uploaded_at,omitempty" yaml:"uploaded_at"`
	UploadedBy string `json:"uploaded_by,omitempty" yaml:"uploaded_by"`
}

// Contract is an awarded engagement.
type Contract struct {
	ID            string             `json:"id" yaml:"id"`
	RFPID         string             `json:"rfp_id" yaml:"rfp_id"`
	RFPTitle      string             `json:"rfp_title" yaml:"rfp_title"`
	VendorID      string             `json:"vendor_id" yaml:"vendor_id"`
	VendorCompany string             `json:"vendor_company" yaml:"vendor_company"`
	ContractValue float64            `json:"contract_value" yaml:"contract_value"`
	StartDate     string             `json:"start_date" yaml:"start_date"`
	EndDate       string             `json:"end_date" yaml:"end_date"`
	Status        string             `json:"status" yaml:"status"`
	Progress      float64            `json:"progress" yaml:"progress"`
	Milestones    []Milestone        `json:"milestones" yaml:"milestones"`
	NextMilestone string             `json:"next_milestone,omitempty" yaml:"next_milestone"`
	PaymentStatus string             `json:"payment_status" yaml:"payment_status"`
	PaidAmount    float64            `json:"paid_amount" yaml:"paid_amount"`
	PendingAmount float64            `json:"pending_amount" yaml:"pending_amount"`
	Documents     []ContractDocument `json:"documents" yaml:"documents"`
}

// DashboardStats is the procurement dashboard summary. Vendors receive the
// proposal and contract counters, admins the RFP and vendor counters.
type DashboardStats struct {
	TotalProposals   int `json:"total_proposals" yaml:"total_proposals"`
	AwardedContracts int `json:"awarded_contracts,omitempty" yaml:"awarded_contracts"`
	ActiveRFPs       int `json:"active_rfps,omitempty" yaml:"active_rfps"`
	TotalRFPs        int `json:"total_rfps,omitempty" yaml:"total_rfps"`
	PendingVendors   int `json:"pending_vendors,omitempty" yaml:"pending_vendors"`
}

// Vendor is a registered vendor as seen by the procurement team.
type Vendor struct {
	ID          string `json:"id" yaml:"id"`
	Email       string `json:"email" yaml:"email"`
	CompanyName string `json:"company_name" yaml:"company_name"`
	Username    string `json:"username" yaml:"username"`
	IsApproved  bool   `json:"is_approved" yaml:"is_approved"`
	CreatedAt   string `json:"created_at,omitempty" yaml:"created_at"`
	CRNumber    string `json:"cr_number" yaml:"cr_number"`
	Country     string `json:"country" yaml:"country"`
}
