package domain

// HR request statuses
const (
	StatusPendingApproval = "Pending Approval"
	StatusUnderReview     = "Under Review"
	StatusApproved        = "Approved"
	StatusRejected        = "Rejected"
)

// HR request types offered by the services screen
const (
	RequestVacationLeave = "Vacation Leave"
	RequestSickLeave     = "Sick Leave"
	RequestWorkFromHome  = "Work from Home"
	RequestBusinessTrip  = "Business Trip"
	RequestExpense       = "Expense Reimbursement"
	RequestCertificate   = "Salary Certificate"
)

// RequestTypes lists the request types in menu order.
var RequestTypes = []string{
	RequestVacationLeave,
	RequestSickLeave,
	RequestWorkFromHome,
	RequestCertificate,
	RequestExpense,
	RequestBusinessTrip,
}

// Employee is an HR employee record.
type Employee struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Email       string  `json:"email" yaml:"email"`
	Title       string  `json:"title" yaml:"title"`
	Department  string  `json:"department" yaml:"department"`
	Grade       string  `json:"grade" yaml:"grade"`
	BasicSalary float64 `json:"basic_salary,omitempty" yaml:"basic_salary"`
	TotalSalary float64 `json:"total_salary,omitempty" yaml:"total_salary"`
	BankAccount string  `json:"bank_account,omitempty" yaml:"bank_account"`
	StartDate   string  `json:"start_date,omitempty" yaml:"start_date"`
	Manager     string  `json:"manager,omitempty" yaml:"manager"`
	CreatedAt   string  `json:"created_at,omitempty" yaml:"created_at"`
}

// HRRequest is a leave, travel, expense or certificate request. Timestamps
// are kept as the strings the backend sends.
type HRRequest struct {
	ID              string   `json:"id,omitempty" yaml:"id"`
	EmployeeID      string   `json:"employee_id" yaml:"employee_id"`
	Type            string   `json:"type" yaml:"type"`
	Status          string   `json:"status,omitempty" yaml:"status"`
	StartDate       string   `json:"start_date,omitempty" yaml:"start_date"`
	EndDate         string   `json:"end_date,omitempty" yaml:"end_date"`
	Date            string   `json:"date,omitempty" yaml:"date"`
	Days            int      `json:"days,omitempty" yaml:"days"`
	Reason          string   `json:"reason,omitempty" yaml:"reason"`
	Purpose         string   `json:"purpose,omitempty" yaml:"purpose"`
	Amount          *float64 `json:"amount,omitempty" yaml:"amount"`
	Category        string   `json:"category,omitempty" yaml:"category"`
	Description     string   `json:"description,omitempty" yaml:"description"`
	Destination     string   `json:"destination,omitempty" yaml:"destination"`
	Duration        int      `json:"duration,omitempty" yaml:"duration"`
	DepartureDate   string   `json:"departure_date,omitempty" yaml:"departure_date"`
	ReturnDate      string   `json:"return_date,omitempty" yaml:"return_date"`
	BusinessPurpose string   `json:"business_purpose,omitempty" yaml:"business_purpose"`
	Details         string   `json:"details,omitempty" yaml:"details"`
	SubmittedDate   string   `json:"submitted_date,omitempty" yaml:"submitted_date"`
	ApprovedDate    string   `json:"approved_date,omitempty" yaml:"approved_date"`
	ApprovedBy      string   `json:"approved_by,omitempty" yaml:"approved_by"`
}

// StatusUpdate is the payload of a request status change.
type StatusUpdate struct {
	Status     string `json:"status"`
	ApprovedBy string `json:"approved_by,omitempty"`
}

// PendingRequest is the condensed request shown on the HR dashboard.
type PendingRequest struct {
	ID            string   `json:"id" yaml:"id"`
	Type          string   `json:"type" yaml:"type"`
	Status        string   `json:"status" yaml:"status"`
	SubmittedDate string   `json:"submittedDate" yaml:"submittedDate"`
	StartDate     string   `json:"startDate,omitempty" yaml:"startDate"`
	Destination   string   `json:"destination,omitempty" yaml:"destination"`
	Amount        *float64 `json:"amount,omitempty" yaml:"amount"`
}

// PaymentSummary is the last salary payment on the HR dashboard.
type PaymentSummary struct {
	Amount float64 `json:"amount" yaml:"amount"`
	Date   string  `json:"date" yaml:"date"`
	Status string  `json:"status" yaml:"status"`
}

// TripStatus is the current business trip on the HR dashboard.
type TripStatus struct {
	Current   string `json:"current" yaml:"current"`
	Status    string `json:"status" yaml:"status"`
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`
}

// Event is an upcoming calendar entry.
type Event struct {
	Type string `json:"type" yaml:"type"`
	Date string `json:"date" yaml:"date"`
}

// Dashboard is the HR dashboard summary. The backend emits it in camelCase.
type Dashboard struct {
	VacationDaysLeft   int              `json:"vacationDaysLeft" yaml:"vacationDaysLeft"`
	PendingRequests    []PendingRequest `json:"pendingRequests" yaml:"pendingRequests"`
	LastSalaryPayment  PaymentSummary   `json:"lastSalaryPayment" yaml:"lastSalaryPayment"`
	BusinessTripStatus TripStatus       `json:"businessTripStatus" yaml:"businessTripStatus"`
	UpcomingEvents     []Event          `json:"upcomingEvents" yaml:"upcomingEvents"`
}

// Policy is an HR policy document.
type Policy struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    string   `json:"category" yaml:"category"`
	Content     string   `json:"content" yaml:"content"`
	Tags        []string `json:"tags" yaml:"tags"`
	LastUpdated string   `json:"last_updated,omitempty" yaml:"last_updated"`
}

// PolicyQuery filters the policy list. An empty or "all" category matches everything.
type PolicyQuery struct {
	Category string
	Search   string
}

// Chat reply types
const (
	ChatQuery  = "query"
	ChatPolicy = "policy"
	ChatAction = "action"
)

// ChatMessage is one exchange with the HR assistant.
type ChatMessage struct {
	ID        string `json:"id" yaml:"id"`
	Message   string `json:"message" yaml:"message"`
	Response  string `json:"response" yaml:"response"`
	Type      string `json:"type" yaml:"type"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// ChatRequest is the body of a chat message submission.
type ChatRequest struct {
	EmployeeID string `json:"employee_id"`
	SessionID  string `json:"session_id"`
	Message    string `json:"message"`
}

// VacationBalance is an employee's leave allowance for a year.
type VacationBalance struct {
	EmployeeID    string `json:"employee_id" yaml:"employee_id"`
	TotalDays     int    `json:"total_days" yaml:"total_days"`
	UsedDays      int    `json:"used_days" yaml:"used_days"`
	RemainingDays int    `json:"remaining_days" yaml:"remaining_days"`
	Year          int    `json:"year" yaml:"year"`
}

// SalaryPayment is one payroll entry.
type SalaryPayment struct {
	ID          string  `json:"id" yaml:"id"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Date        string  `json:"date" yaml:"date"`
	Status      string  `json:"status" yaml:"status"`
	Description string  `json:"description" yaml:"description"`
}
