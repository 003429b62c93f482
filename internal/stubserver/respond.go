package stubserver

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// detail is the error body shape of the backend.
type detail struct {
	Detail string `json:"detail"`
}

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}

// writeError maps store errors onto backend status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch perrors.CodeOf(err) {
	case perrors.ErrCodeFixtureNotFound:
		status = http.StatusNotFound
	case perrors.ErrCodeFixtureInvalid, perrors.ErrCodeFixtureConflict:
		status = http.StatusBadRequest
	case perrors.ErrCodeFixtureForbidden:
		status = http.StatusForbidden
	case perrors.ErrCodeAuthRejected:
		status = http.StatusUnauthorized
	}

	msg := err.Error()
	var pe *perrors.PortalError
	if stderrors.As(err, &pe) {
		msg = pe.Message
	}
	writeDetail(w, status, msg)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
