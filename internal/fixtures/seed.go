// Package fixtures holds the demo data set and the in-memory store built
// from it. The fixture data source reads and writes it in demo sessions and
// the stub backend serves it over HTTP.
package fixtures

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/portal/internal/domain"
)

//go:embed fixtures.yaml
var seedYAML []byte

// TimeLayout is the naive ISO-8601 form the backend uses for timestamps.
const TimeLayout = "2006-01-02T15:04:05"

// DateLayout is used for calendar dates such as leave start and end.
const DateLayout = "2006-01-02"

// DemoVendorID is the seeded vendor whose proposals and contracts a demo
// vendor session sees.
const DemoVendorID = "vendor-001"

// DemoEmployeeID is the seeded HR employee.
const DemoEmployeeID = "EMP001"

// SeedUser is an account known to the stub backend.
type SeedUser struct {
	domain.User `yaml:",inline"`
	Password    string `yaml:"password"`
	Username    string `yaml:"username"`
	CRNumber    string `yaml:"cr_number"`
	Country     string `yaml:"country"`
	CreatedAt   string `yaml:"created_at"`
}

// SeedRFP carries its deadline relative to load time.
type SeedRFP struct {
	domain.RFP     `yaml:",inline"`
	DeadlineInDays int `yaml:"deadline_in_days"`
}

// SeedProposal carries its submission time relative to load time.
type SeedProposal struct {
	domain.Proposal  `yaml:",inline"`
	SubmittedDaysAgo int `yaml:"submitted_days_ago"`
}

// SeedPayment is a salary payment owned by an employee.
type SeedPayment struct {
	domain.SalaryPayment `yaml:",inline"`
	EmployeeID           string `yaml:"employee_id"`
}

// SeedChat is a chat exchange owned by an employee and chat session.
type SeedChat struct {
	domain.ChatMessage `yaml:",inline"`
	EmployeeID         string `yaml:"employee_id"`
	SessionID          string `yaml:"session_id"`
}

// Seed is the parsed fixture document.
type Seed struct {
	Users     []SeedUser        `yaml:"users"`
	RFPs      []SeedRFP         `yaml:"rfps"`
	Proposals []SeedProposal    `yaml:"proposals"`
	Contracts []domain.Contract `yaml:"contracts"`

	Employees []domain.Employee        `yaml:"employees"`
	Balances  []domain.VacationBalance `yaml:"vacation_balances"`
	Payments  []SeedPayment            `yaml:"salary_payments"`
	Requests  []domain.HRRequest       `yaml:"hr_requests"`
	Events    []domain.Event           `yaml:"events"`
	Chat      []SeedChat               `yaml:"chat_history"`
	Policies  []domain.Policy          `yaml:"policies"`
}

// Load parses the embedded fixtures and resolves relative dates against now.
func Load(now time.Time) (*Seed, error) {
	return Parse(seedYAML, now)
}

// Parse decodes a fixture document.
func Parse(data []byte, now time.Time) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	now = now.UTC()
	for i := range seed.RFPs {
		r := &seed.RFPs[i]
		if r.Deadline == "" {
			r.Deadline = now.AddDate(0, 0, r.DeadlineInDays).Format(TimeLayout)
		}
		if r.CreatedAt == "" {
			r.CreatedAt = now.AddDate(0, 0, -14).Format(TimeLayout)
		}
		if r.Status == "" {
			r.Status = domain.RFPActive
		}
		r.ApprovalLevel = domain.ApprovalLevelFor(r.Budget)
	}
	for i := range seed.Proposals {
		p := &seed.Proposals[i]
		if p.SubmittedAt == "" {
			p.SubmittedAt = now.AddDate(0, 0, -p.SubmittedDaysAgo).Format(TimeLayout)
		}
	}

	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) validate() error {
	emails := make(map[string]bool, len(s.Users))
	for _, u := range s.Users {
		if u.ID == "" || u.Email == "" {
			return fmt.Errorf("fixture user without id or email")
		}
		if err := u.UserType.Validate(); err != nil {
			return fmt.Errorf("fixture user %s: %w", u.ID, err)
		}
		if emails[u.Email] {
			return fmt.Errorf("duplicate fixture user email %s", u.Email)
		}
		emails[u.Email] = true
	}

	rfps := make(map[string]bool, len(s.RFPs))
	for _, r := range s.RFPs {
		if _, err := domain.NewRFPStatus(string(r.Status)); err != nil {
			return fmt.Errorf("fixture rfp %s: %w", r.ID, err)
		}
		rfps[r.ID] = true
	}
	for _, p := range s.Proposals {
		if !rfps[p.RFPID] {
			return fmt.Errorf("fixture proposal %s references unknown rfp %s", p.ID, p.RFPID)
		}
	}
	return nil
}
