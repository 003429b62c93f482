package stubserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/portal/internal/domain"
)

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Employees())
}

func (s *Server) handleEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := s.state.Employee(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.state.Dashboard(mux.Vars(r)["employee_id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Requests(mux.Vars(r)["employee_id"]))
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.HRRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	created, err := s.state.CreateRequest(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleRequestStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	update := domain.StatusUpdate{Status: q.Get("status"), ApprovedBy: q.Get("approved_by")}
	if err := s.state.UpdateRequestStatus(mux.Vars(r)["id"], update); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Request status updated successfully"})
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.state.Policies(domain.PolicyQuery{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}))
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	p, err := s.state.Policy(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePolicyCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": s.state.PolicyCategories()})
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	msg, err := s.state.Chat(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	msgs := s.state.ChatHistory(mux.Vars(r)["employee_id"], r.URL.Query().Get("session_id"))
	writeJSON(w, http.StatusOK, map[string][]domain.ChatMessage{"messages": msgs})
}

func (s *Server) handleVacationBalance(w http.ResponseWriter, r *http.Request) {
	b, err := s.state.VacationBalance(mux.Vars(r)["employee_id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleSalaryPayments(w http.ResponseWriter, r *http.Request) {
	payments := s.state.SalaryPayments(mux.Vars(r)["employee_id"])
	writeJSON(w, http.StatusOK, map[string][]domain.SalaryPayment{"payments": payments})
}
