package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qnetlab/topoforge/pkg/canvas"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/logging"
	"github.com/qnetlab/topoforge/pkg/model"
	"github.com/qnetlab/topoforge/pkg/topology"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// statusFor maps editor errors to HTTP status codes. Conflicts with existing
// state map to 409, unknown names to 404, and malformed input to 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, canvas.ErrUnknownNode),
		errors.Is(err, topology.ErrUnknownNode),
		errors.Is(err, topology.ErrUnknownNetwork),
		errors.Is(err, linker.ErrUnknownConnection):
		return http.StatusNotFound
	case errors.Is(err, canvas.ErrDuplicateNode),
		errors.Is(err, linker.ErrConnectionAlreadyExists),
		errors.Is(err, linker.ErrIncompatibleFamilies),
		errors.Is(err, topology.ErrIncompatibleMembership):
		return http.StatusConflict
	case errors.Is(err, model.ErrSelfConnection),
		errors.Is(err, linker.ErrMissingEndpoint):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondEditorError(w http.ResponseWriter, err error) {
	s.respondError(w, statusFor(err), err.Error())
}
