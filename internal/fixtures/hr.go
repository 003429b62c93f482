package fixtures

import (
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/portal/internal/assistant"
	"github.com/felixgeelhaar/portal/internal/domain"
)

const (
	requestListLimit = 50
	chatHistoryLimit = 50
	paymentLimit     = 12
	dashboardPending = 10
)

// Employee returns an employee record.
func (s *State) Employee(id string) (domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.employee(id); ok {
		return e, nil
	}
	return domain.Employee{}, notFound("Employee not found")
}

// Employees lists every employee.
func (s *State) Employees() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Employee{}, s.employees...)
}

// Dashboard summarises an employee's leave balance, open requests, last
// salary payment, current business trip and upcoming events.
func (s *State) Dashboard(employeeID string) (domain.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.employee(employeeID); !ok {
		return domain.Dashboard{}, notFound("Employee not found")
	}

	d := domain.Dashboard{
		VacationDaysLeft: s.balances[employeeID].RemainingDays,
		PendingRequests:  []domain.PendingRequest{},
		UpcomingEvents:   append([]domain.Event{}, s.events...),
		BusinessTripStatus: domain.TripStatus{
			Current: "No active trip",
			Status:  "None",
		},
	}

	reqs := s.requestsFor(employeeID)
	for _, r := range reqs {
		if r.Status != domain.StatusPendingApproval && r.Status != domain.StatusUnderReview {
			continue
		}
		if len(d.PendingRequests) == dashboardPending {
			break
		}
		start := r.StartDate
		if start == "" {
			start = r.DepartureDate
		}
		d.PendingRequests = append(d.PendingRequests, domain.PendingRequest{
			ID:            r.ID,
			Type:          r.Type,
			Status:        r.Status,
			SubmittedDate: r.SubmittedDate,
			StartDate:     start,
			Destination:   r.Destination,
			Amount:        r.Amount,
		})
	}

	for _, r := range reqs {
		if r.Type == domain.RequestBusinessTrip &&
			(r.Status == domain.StatusApproved || r.Status == domain.StatusPendingApproval) {
			current := r.Destination
			if current == "" {
				current = "No active trip"
			}
			d.BusinessTripStatus = domain.TripStatus{
				Current:   current,
				Status:    r.Status,
				StartDate: r.DepartureDate,
				EndDate:   r.ReturnDate,
			}
			break
		}
	}

	if pays := s.paymentsFor(employeeID); len(pays) > 0 {
		d.LastSalaryPayment = domain.PaymentSummary{Amount: pays[0].Amount, Date: pays[0].Date, Status: pays[0].Status}
	}

	return d, nil
}

// Requests lists an employee's HR requests, newest first.
func (s *State) Requests(employeeID string) []domain.HRRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reqs := s.requestsFor(employeeID)
	if len(reqs) > requestListLimit {
		reqs = reqs[:requestListLimit]
	}
	return reqs
}

// CreateRequest stores a new request in Pending Approval. When both start
// and end dates are given the day count is computed inclusively, and a
// vacation request is deducted from the employee's balance.
func (s *State) CreateRequest(r domain.HRRequest) (domain.HRRequest, error) {
	if r.Type == "" {
		return domain.HRRequest{}, invalid("request type is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employee(r.EmployeeID); !ok {
		return domain.HRRequest{}, notFound("Employee not found")
	}

	if r.StartDate != "" && r.EndDate != "" {
		days, err := inclusiveDays(r.StartDate, r.EndDate)
		if err != nil {
			return domain.HRRequest{}, invalid(err.Error())
		}
		r.Days = days
	}

	r.ID = s.ids()
	r.Status = domain.StatusPendingApproval
	r.SubmittedDate = s.timestamp()
	r.ApprovedDate = ""
	r.ApprovedBy = ""
	s.requests = append(s.requests, r)

	if r.Type == domain.RequestVacationLeave && r.Days > 0 {
		if b, ok := s.balances[r.EmployeeID]; ok {
			b.UsedDays += r.Days
			b.RemainingDays -= r.Days
			s.balances[r.EmployeeID] = b
		}
	}
	return r, nil
}

// UpdateRequestStatus changes a request's status. Approval stamps the
// approval date and, when given, the approver.
func (s *State) UpdateRequestStatus(id string, u domain.StatusUpdate) error {
	if u.Status == "" {
		return invalid("status is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.requests {
		r := &s.requests[i]
		if r.ID != id {
			continue
		}
		r.Status = u.Status
		if u.Status == domain.StatusApproved {
			r.ApprovedDate = s.timestamp()
			if u.ApprovedBy != "" {
				r.ApprovedBy = u.ApprovedBy
			}
		}
		return nil
	}
	return notFound("Request not found")
}

// Policies filters policies by category and a case-insensitive search over
// title, content and tags.
func (s *State) Policies(q domain.PolicyQuery) []domain.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(q.Search)
	out := []domain.Policy{}
	for _, p := range s.policies {
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if search != "" && !policyMatches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func policyMatches(p domain.Policy, search string) bool {
	if strings.Contains(strings.ToLower(p.Title), search) || strings.Contains(strings.ToLower(p.Content), search) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), search) {
			return true
		}
	}
	return false
}

// Policy returns a single policy.
func (s *State) Policy(id string) (domain.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.policies {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Policy{}, notFound("Policy not found")
}

// PolicyCategories lists the distinct policy categories in first-seen order.
func (s *State) PolicyCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	out := []string{}
	for _, p := range s.policies {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Chat answers a message with the HR assistant and records the exchange.
func (s *State) Chat(req domain.ChatRequest) (domain.ChatMessage, error) {
	if strings.TrimSpace(req.Message) == "" {
		return domain.ChatMessage{}, invalid("message is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hc := assistant.HRContext{Policies: s.policies}
	if e, ok := s.employee(req.EmployeeID); ok {
		hc.Employee = &e
	}
	if b, ok := s.balances[req.EmployeeID]; ok {
		hc.Balance = &b
	}
	reply := assistant.RespondHR(hc, req.Message)

	msg := domain.ChatMessage{
		ID:        s.ids(),
		Message:   req.Message,
		Response:  reply.Text,
		Type:      reply.Type,
		Timestamp: s.timestamp(),
	}
	s.chat = append(s.chat, chatRecord{ChatMessage: msg, EmployeeID: req.EmployeeID, SessionID: req.SessionID})
	return msg, nil
}

// ChatHistory returns up to the 50 most recent exchanges, oldest first. An
// empty session id matches every session.
func (s *State) ChatHistory(employeeID, sessionID string) []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ChatMessage{}
	for _, c := range s.chat {
		if c.EmployeeID == employeeID && (sessionID == "" || c.SessionID == sessionID) {
			out = append(out, c.ChatMessage)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	if len(out) > chatHistoryLimit {
		out = out[len(out)-chatHistoryLimit:]
	}
	return out
}

// VacationBalance returns an employee's leave balance.
func (s *State) VacationBalance(employeeID string) (domain.VacationBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.balances[employeeID]; ok {
		return b, nil
	}
	return domain.VacationBalance{}, notFound("Vacation balance not found")
}

// SalaryPayments returns the last twelve payments, newest first.
func (s *State) SalaryPayments(employeeID string) []domain.SalaryPayment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pays := s.paymentsFor(employeeID)
	if len(pays) > paymentLimit {
		pays = pays[:paymentLimit]
	}
	return pays
}

func (s *State) employee(id string) (domain.Employee, bool) {
	for _, e := range s.employees {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Employee{}, false
}

// requestsFor returns copies sorted by submission date, newest first.
func (s *State) requestsFor(employeeID string) []domain.HRRequest {
	out := []domain.HRRequest{}
	for _, r := range s.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedDate > out[j].SubmittedDate })
	return out
}

func (s *State) paymentsFor(employeeID string) []domain.SalaryPayment {
	out := []domain.SalaryPayment{}
	for _, p := range s.payments {
		if p.EmployeeID == employeeID {
			out = append(out, p.SalaryPayment)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func inclusiveDays(start, end string) (int, error) {
	from, err := parseDate(start)
	if err != nil {
		return 0, err
	}
	to, err := parseDate(end)
	if err != nil {
		return 0, err
	}
	if to.Before(from) {
		return 0, errEndBeforeStart
	}
	return int(to.Sub(from).Hours()/24) + 1, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(TimeLayout, v)
}
