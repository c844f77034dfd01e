package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/qnetlab/topoforge/pkg/export"
	"github.com/qnetlab/topoforge/pkg/model"
	"github.com/qnetlab/topoforge/pkg/validation"
)

func (s *Server) listConnections(w http.ResponseWriter, r *http.Request) {
	conns := s.links.Connections()
	docs := make([]export.ConnectionDoc, 0, len(conns))
	for _, c := range conns {
		docs = append(docs, connectionDoc(c))
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) createConnection(w http.ResponseWriter, r *http.Request) {
	var req validation.ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateConnectionRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := validation.ApplyLinkParams(model.DefaultLinkParams(), req.Params)

	conn, err := s.links.Connect(req.From, req.To, params)
	if err != nil {
		s.respondEditorError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, connectionDoc(conn))
}

func (s *Server) deleteConnection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	from, to := vars["from"], vars["to"]

	if _, ok := s.links.Connection(from, to); !ok {
		s.respondError(w, http.StatusNotFound, "connection not found")
		return
	}
	if err := s.links.RemoveConnection(from, to); err != nil {
		s.respondEditorError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func connectionDoc(c *model.Connection) export.ConnectionDoc {
	return export.ConnectionDoc{
		From:   c.From,
		To:     c.To,
		Params: c.Params,
	}
}
