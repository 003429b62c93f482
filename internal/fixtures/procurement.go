package fixtures

import (
	"encoding/base64"
	"strings"

	"github.com/felixgeelhaar/portal/internal/assistant"
	"github.com/felixgeelhaar/portal/internal/domain"
)

// Stats returns the dashboard counters for the caller's role.
func (s *State) Stats(c Caller) domain.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := 0
	for _, r := range s.rfps {
		if r.Status == domain.RFPActive {
			active++
		}
	}

	if !c.IsAdmin() {
		var stats domain.DashboardStats
		for _, p := range s.proposals {
			if p.VendorID != c.UserID {
				continue
			}
			stats.TotalProposals++
			if p.Status == domain.ProposalAwarded {
				stats.AwardedContracts++
			}
		}
		stats.ActiveRFPs = active
		return stats
	}

	pending := 0
	for _, u := range s.users {
		if u.UserType == domain.UserTypeVendor && !u.IsApproved {
			pending++
		}
	}
	return domain.DashboardStats{
		TotalRFPs:      len(s.rfps),
		TotalProposals: len(s.proposals),
		PendingVendors: pending,
	}
}

// RFPs lists RFPs. Vendors only see active ones.
func (s *State) RFPs(c Caller) []domain.RFP {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.RFP{}
	for _, r := range s.rfps {
		if c.IsAdmin() || r.Status == domain.RFPActive {
			out = append(out, r)
		}
	}
	return out
}

// RFP returns a single RFP.
func (s *State) RFP(id string) (domain.RFP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.rfpIndex(id); i >= 0 {
		return s.rfps[i], nil
	}
	return domain.RFP{}, notFound("RFP not found")
}

// CreateRFP publishes a new active RFP. Admin only.
func (s *State) CreateRFP(c Caller, d domain.RFPDraft) (domain.RFP, error) {
	if !c.IsAdmin() {
		return domain.RFP{}, forbidden("Only admin users can create RFPs")
	}
	if strings.TrimSpace(d.Title) == "" {
		return domain.RFP{}, invalid("title is required")
	}
	if d.Budget < 0 {
		return domain.RFP{}, invalid("budget must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := domain.RFP{
		ID:            s.ids(),
		Title:         d.Title,
		Description:   d.Description,
		Budget:        d.Budget,
		Deadline:      d.Deadline,
		Categories:    append([]string(nil), d.Categories...),
		ScopeOfWork:   d.ScopeOfWork,
		CreatedBy:     c.UserID,
		CreatedAt:     s.timestamp(),
		Status:        domain.RFPActive,
		ApprovalLevel: domain.ApprovalLevelFor(d.Budget),
	}
	if r.Categories == nil {
		r.Categories = []string{}
	}
	s.rfps = append(s.rfps, r)
	return r, nil
}

// UpdateRFPStatus publishes, closes or awards an RFP. Admin only.
func (s *State) UpdateRFPStatus(c Caller, id, status string) error {
	if !c.IsAdmin() {
		return forbidden("Only admin users can update RFP status")
	}
	st, err := domain.NewRFPStatus(status)
	if err != nil {
		return invalid("Invalid status. Must be one of: active, closed, awarded, draft")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.rfpIndex(id)
	if i < 0 {
		return notFound("RFP not found")
	}
	s.rfps[i].Status = st
	return nil
}

// Proposals lists proposals. Vendors only see their own.
func (s *State) Proposals(c Caller) []domain.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Proposal{}
	for _, p := range s.proposals {
		if c.IsAdmin() || p.VendorID == c.UserID {
			out = append(out, p)
		}
	}
	return out
}

// Proposal returns a single proposal the caller may see.
func (s *State) Proposal(c Caller, id string) (domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.proposalIndex(id)
	if i < 0 {
		return domain.Proposal{}, notFound("Proposal not found")
	}
	p := s.proposals[i]
	if !c.IsAdmin() && p.VendorID != c.UserID {
		return domain.Proposal{}, forbidden("Access denied")
	}
	return p, nil
}

// SubmitProposal records a vendor's proposal. Documents are stored base64
// encoded. Only approved vendors may submit.
func (s *State) SubmitProposal(c Caller, sub domain.ProposalSubmission) (domain.SubmitResult, error) {
	if c.IsAdmin() {
		return domain.SubmitResult{}, forbidden("Only vendors can submit proposals")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	company := c.Company
	if u, ok := s.userByID(c.UserID); ok {
		if !u.IsApproved {
			return domain.SubmitResult{}, forbidden("Vendor not approved")
		}
		if u.CompanyName != "" {
			company = u.CompanyName
		}
	}
	if company == "" {
		company = "Unknown Company"
	}
	if s.rfpIndex(sub.RFPID) < 0 {
		return domain.SubmitResult{}, notFound("RFP not found")
	}

	p := domain.Proposal{
		ID:                 s.ids(),
		RFPID:              sub.RFPID,
		VendorID:           c.UserID,
		VendorCompany:      company,
		TechnicalDocument:  encodeAttachment(sub.Technical),
		CommercialDocument: encodeAttachment(sub.Commercial),
		SubmittedAt:        s.timestamp(),
		Status:             domain.ProposalSubmitted,
	}
	s.proposals = append(s.proposals, p)
	return domain.SubmitResult{Message: "Proposal submitted successfully", ProposalID: p.ID}, nil
}

// EvaluateProposal scores a proposal and stores the result. Admin only.
func (s *State) EvaluateProposal(c Caller, id string) (domain.EvaluationResult, error) {
	if !c.IsAdmin() {
		return domain.EvaluationResult{}, forbidden("Only admin users can evaluate proposals")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.proposalIndex(id)
	if i < 0 {
		return domain.EvaluationResult{}, notFound("Proposal not found")
	}
	ri := s.rfpIndex(s.proposals[i].RFPID)
	if ri < 0 {
		return domain.EvaluationResult{}, notFound("Associated RFP not found")
	}

	ev := assistant.EvaluateProposal(s.proposals[i], s.rfps[ri])
	score := ev.OverallScore
	s.proposals[i].Status = domain.ProposalEvaluated
	s.proposals[i].AIScore = &score
	s.proposals[i].AIEvaluation = &ev

	return domain.EvaluationResult{Message: "Proposal evaluated successfully", Evaluation: ev}, nil
}

// Contracts lists contracts. Vendors only see their own. Document content
// is omitted from listings.
func (s *State) Contracts(c Caller) []domain.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Contract{}
	for _, ct := range s.contracts {
		if c.IsAdmin() || ct.VendorID == c.UserID {
			out = append(out, withoutContent(ct))
		}
	}
	return out
}

// Contract returns a single contract the caller may see.
func (s *State) Contract(c Caller, id string) (domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ct, err := s.contractFor(c, id)
	if err != nil {
		return domain.Contract{}, err
	}
	return withoutContent(ct), nil
}

// ContractDocument returns one document of a contract, content included.
func (s *State) ContractDocument(c Caller, contractID, docID string) (domain.ContractDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ct, err := s.contractFor(c, contractID)
	if err != nil {
		return domain.ContractDocument{}, err
	}
	for _, d := range ct.Documents {
		if d.ID == docID {
			return d, nil
		}
	}
	return domain.ContractDocument{}, notFound("Document not found")
}

func (s *State) contractFor(c Caller, id string) (domain.Contract, error) {
	for _, ct := range s.contracts {
		if ct.ID != id {
			continue
		}
		if !c.IsAdmin() && ct.VendorID != c.UserID {
			return domain.Contract{}, forbidden("Access denied")
		}
		return ct, nil
	}
	return domain.Contract{}, notFound("Contract not found")
}

func withoutContent(ct domain.Contract) domain.Contract {
	docs := make([]domain.ContractDocument, len(ct.Documents))
	for i, d := range ct.Documents {
		d.Content = ""
		docs[i] = d
	}
	ct.Documents = docs
	return ct
}

func encodeAttachment(a *domain.Attachment) string {
	if a == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(a.Content)
}

func (s *State) rfpIndex(id string) int {
	for i, r := range s.rfps {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) proposalIndex(id string) int {
	for i, p := range s.proposals {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) userByID(id string) (userRecord, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return userRecord{}, false
}
