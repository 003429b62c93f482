package gateway

import (
	"context"
	"net/url"

	"github.com/felixgeelhaar/portal/internal/domain"
)

// GetEmployee fetches one employee record
func (c *Client) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	if err := requireID("employee", id); err != nil {
		return nil, err
	}
	var emp domain.Employee
	if err := c.getJSON(ctx, RouteEmployee, RouteEmployee.Expand(id), nil, "", &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees fetches every employee
func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var emps []domain.Employee
	if err := c.getJSON(ctx, RouteEmployees, RouteEmployees.Path, nil, "", &emps); err != nil {
		return nil, err
	}
	return emps, nil
}

// GetDashboard fetches the HR dashboard summary for an employee
func (c *Client) GetDashboard(ctx context.Context, employeeID string) (*domain.Dashboard, error) {
	if err := requireID("employee", employeeID); err != nil {
		return nil, err
	}
	var d domain.Dashboard
	if err := c.getJSON(ctx, RouteDashboard, RouteDashboard.Expand(employeeID), nil, "", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListRequests fetches an employee's HR requests, newest first
func (c *Client) ListRequests(ctx context.Context, employeeID string) ([]domain.HRRequest, error) {
	if err := requireID("employee", employeeID); err != nil {
		return nil, err
	}
	var reqs []domain.HRRequest
	if err := c.getJSON(ctx, RouteHRRequests, RouteHRRequests.Expand(employeeID), nil, "", &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// CreateRequest submits an HR request verbatim and returns the stored record
func (c *Client) CreateRequest(ctx context.Context, req domain.HRRequest) (*domain.HRRequest, error) {
	var created domain.HRRequest
	if err := c.sendJSON(ctx, RouteCreateHRRequest, RouteCreateHRRequest.Path, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRequestStatus changes the status of an HR request. The backend reads
// status and approver from the query string.
func (c *Client) UpdateRequestStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	if err := requireID("request", id); err != nil {
		return err
	}
	q := url.Values{"status": {update.Status}}
	if update.ApprovedBy != "" {
		q.Set("approved_by", update.ApprovedBy)
	}
	_, err := c.do(ctx, request{route: RouteHRRequestStatus, path: RouteHRRequestStatus.Expand(id), query: q})
	return err
}

// ListPolicies fetches policies matching the query
func (c *Client) ListPolicies(ctx context.Context, query domain.PolicyQuery) ([]domain.Policy, error) {
	q := url.Values{}
	if query.Category != "" && query.Category != "all" {
		q.Set("category", query.Category)
	}
	if query.Search != "" {
		q.Set("search", query.Search)
	}
	var policies []domain.Policy
	if err := c.getJSON(ctx, RoutePolicies, RoutePolicies.Path, q, "", &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

// GetPolicy fetches one policy
func (c *Client) GetPolicy(ctx context.Context, id string) (*domain.Policy, error) {
	if err := requireID("policy", id); err != nil {
		return nil, err
	}
	var p domain.Policy
	if err := c.getJSON(ctx, RoutePolicy, RoutePolicy.Expand(id), nil, "", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPolicyCategories fetches the distinct policy categories
func (c *Client) ListPolicyCategories(ctx context.Context) ([]string, error) {
	var cats []string
	if err := c.getJSON(ctx, RoutePolicyCategories, RoutePolicyCategories.Path, nil, "categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// SendChatMessage posts a message to the HR assistant and returns the exchange
func (c *Client) SendChatMessage(ctx context.Context, msg domain.ChatRequest) (*domain.ChatMessage, error) {
	var reply domain.ChatMessage
	if err := c.sendJSON(ctx, RouteChatMessage, RouteChatMessage.Path, msg, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ChatHistory fetches an employee's chat history, oldest first. An empty
// sessionID returns messages from every session.
func (c *Client) ChatHistory(ctx context.Context, employeeID, sessionID string) ([]domain.ChatMessage, error) {
	if err := requireID("employee", employeeID); err != nil {
		return nil, err
	}
	var q url.Values
	if sessionID != "" {
		q = url.Values{"session_id": {sessionID}}
	}
	var msgs []domain.ChatMessage
	if err := c.getJSON(ctx, RouteChatHistory, RouteChatHistory.Expand(employeeID), q, "messages", &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetVacationBalance fetches an employee's leave balance
func (c *Client) GetVacationBalance(ctx context.Context, employeeID string) (*domain.VacationBalance, error) {
	if err := requireID("employee", employeeID); err != nil {
		return nil, err
	}
	var b domain.VacationBalance
	if err := c.getJSON(ctx, RouteVacationBalance, RouteVacationBalance.Expand(employeeID), nil, "", &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListSalaryPayments fetches the most recent salary payments
func (c *Client) ListSalaryPayments(ctx context.Context, employeeID string) ([]domain.SalaryPayment, error) {
	if err := requireID("employee", employeeID); err != nil {
		return nil, err
	}
	var payments []domain.SalaryPayment
	if err := c.getJSON(ctx, RouteSalaryPayments, RouteSalaryPayments.Expand(employeeID), nil, "payments", &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
