package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/qnetlab/topoforge/pkg/export"
	"github.com/qnetlab/topoforge/pkg/geometry"
	"github.com/qnetlab/topoforge/pkg/model"
	"github.com/qnetlab/topoforge/pkg/validation"
)

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	nodes := s.canvas.Nodes()
	docs := make([]export.NodeDoc, 0, len(nodes))
	for _, n := range nodes {
		docs = append(docs, nodeDoc(n))
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req validation.NodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateNodeRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := s.canvas.AddNode(req.Name, kind, geometry.Point{X: req.X, Y: req.Y})
	if err != nil {
		s.respondEditorError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, nodeDoc(node))
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	node, ok := s.canvas.Node(name)
	if !ok {
		s.respondError(w, http.StatusNotFound, "node not found")
		return
	}
	s.respondJSON(w, http.StatusOK, nodeDoc(node))
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.links.DeleteNode(name); err != nil {
		s.respondEditorError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.links.MoveNode(name, geometry.Point{X: req.X, Y: req.Y}); err != nil {
		s.respondEditorError(w, err)
		return
	}

	node, _ := s.canvas.Node(name)
	s.respondJSON(w, http.StatusOK, nodeDoc(node))
}

func nodeDoc(n *model.Node) export.NodeDoc {
	return export.NodeDoc{
		Name:     n.Name,
		Kind:     n.Kind.String(),
		Position: n.Position,
		Address:  n.Address,
	}
}
