package gateway

import (
	"net/url"
	"strings"
)

// Route is one backend operation: an HTTP method and a path template
// relative to the /api base, with {name} placeholders.
type Route struct {
	Method string
	Path   string
}

func (r Route) String() string {
	return r.Method + " " + r.Path
}

// Expand fills the placeholders of the path template in order.
func (r Route) Expand(args ...string) string {
	path := r.Path
	for _, arg := range args {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			break
		}
		path = path[:start] + url.PathEscape(arg) + path[start+end+1:]
	}
	return path
}

// Authentication
var (
	RouteAuthMe     = Route{"GET", "/auth/me"}
	RouteAuthLogin  = Route{"POST", "/auth/login"}
	RouteAuthSignup = Route{"POST", "/auth/signup"}
)

// HR portal
var (
	RouteEmployee         = Route{"GET", "/employees/{id}"}
	RouteEmployees        = Route{"GET", "/employees"}
	RouteDashboard        = Route{"GET", "/dashboard/{employee_id}"}
	RouteHRRequests       = Route{"GET", "/hr-requests/{employee_id}"}
	RouteCreateHRRequest  = Route{"POST", "/hr-requests"}
	RouteHRRequestStatus  = Route{"PUT", "/hr-requests/{id}/status"}
	RoutePolicies         = Route{"GET", "/policies"}
	RoutePolicy           = Route{"GET", "/policies/{id}"}
	RoutePolicyCategories = Route{"GET", "/policies/categories"}
	RouteChatMessage      = Route{"POST", "/chat/message"}
	RouteChatHistory      = Route{"GET", "/chat/history/{employee_id}"}
	RouteVacationBalance  = Route{"GET", "/vacation-balance/{employee_id}"}
	RouteSalaryPayments   = Route{"GET", "/salary-payments/{employee_id}"}
)

// Procurement portal
var (
	RouteDashboardStats   = Route{"GET", "/dashboard/stats"}
	RouteRFPs             = Route{"GET", "/rfps"}
	RouteRFP              = Route{"GET", "/rfps/{id}"}
	RouteCreateRFP        = Route{"POST", "/rfps"}
	RouteRFPStatus        = Route{"PUT", "/rfps/{id}/status"}
	RouteProposals        = Route{"GET", "/proposals"}
	RouteProposal         = Route{"GET", "/proposals/{id}"}
	RouteSubmitProposal   = Route{"POST", "/proposals"}
	RouteEvaluateProposal = Route{"POST", "/proposals/{id}/evaluate"}
	RouteContracts        = Route{"GET", "/contracts"}
	RouteContract         = Route{"GET", "/contracts/{id}"}
	RouteContractDocument = Route{"GET", "/contracts/{id}/documents/{doc_id}"}
	RouteVendors          = Route{"GET", "/admin/vendors"}
	RouteApproveVendor    = Route{"PUT", "/admin/vendors/{id}/approve"}
	RouteRejectVendor     = Route{"PUT", "/admin/vendors/{id}/reject"}
)

// Routes returns every route the gateway can call.
func Routes() []Route {
	return []Route{
		RouteAuthMe, RouteAuthLogin, RouteAuthSignup,

		RouteEmployee, RouteEmployees, RouteDashboard,
		RouteHRRequests, RouteCreateHRRequest, RouteHRRequestStatus,
		RoutePolicies, RoutePolicy, RoutePolicyCategories,
		RouteChatMessage, RouteChatHistory,
		RouteVacationBalance, RouteSalaryPayments,

		RouteDashboardStats,
		RouteRFPs, RouteRFP, RouteCreateRFP, RouteRFPStatus,
		RouteProposals, RouteProposal, RouteSubmitProposal, RouteEvaluateProposal,
		RouteContracts, RouteContract, RouteContractDocument,
		RouteVendors, RouteApproveVendor, RouteRejectVendor,
	}
}
