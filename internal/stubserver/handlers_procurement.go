package stubserver

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/portal/internal/domain"
)

// maxUploadSize bounds the in-memory part of a proposal upload.
const maxUploadSize = 32 << 20

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Stats(callerFrom(r.Context())))
}

func (s *Server) handleRFPs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.RFPs(callerFrom(r.Context())))
}

func (s *Server) handleRFP(w http.ResponseWriter, r *http.Request) {
	rfp, err := s.state.RFP(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rfp)
}

func (s *Server) handleCreateRFP(w http.ResponseWriter, r *http.Request) {
	var draft domain.RFPDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	rfp, err := s.state.CreateRFP(callerFrom(r.Context()), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rfp)
}

func (s *Server) handleRFPStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if err := s.state.UpdateRFPStatus(callerFrom(r.Context()), mux.Vars(r)["id"], status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "RFP status updated to " + status})
}

func (s *Server) handleProposals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Proposals(callerFrom(r.Context())))
}

func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.state.Proposal(callerFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	sub := domain.ProposalSubmission{RFPID: r.FormValue("rfp_id")}
	if sub.RFPID == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "rfp_id is required")
		return
	}

	var err error
	if sub.Technical, err = formFile(r.MultipartForm, "technical_file"); err != nil {
		writeDetail(w, http.StatusBadRequest, "Failed to read technical_file")
		return
	}
	if sub.Commercial, err = formFile(r.MultipartForm, "commercial_file"); err != nil {
		writeDetail(w, http.StatusBadRequest, "Failed to read commercial_file")
		return
	}

	res, err := s.state.SubmitProposal(callerFrom(r.Context()), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// formFile reads an optional upload. A missing field yields nil.
func formFile(form *multipart.Form, field string) (*domain.Attachment, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload")
	}
	return &domain.Attachment{Name: headers[0].Filename, Content: data}, nil
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	res, err := s.state.EvaluateProposal(callerFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleContracts(w http.ResponseWriter, r *http.Request) {
	contracts := s.state.Contracts(callerFrom(r.Context()))
	writeJSON(w, http.StatusOK, map[string][]domain.Contract{"contracts": contracts})
}

func (s *Server) handleContract(w http.ResponseWriter, r *http.Request) {
	ct, err := s.state.Contract(callerFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

func (s *Server) handleContractDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doc, err := s.state.ContractDocument(callerFrom(r.Context()), vars["id"], vars["doc_id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.state.Vendors(callerFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (s *Server) handleVendorApproval(approved bool) http.HandlerFunc {
	verb := "rejected"
	if approved {
		verb = "approved"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.state.SetVendorApproval(callerFrom(r.Context()), mux.Vars(r)["id"], approved); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, message{Message: "Vendor " + verb + " successfully"})
	}
}
