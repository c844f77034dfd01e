package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/qnetlab/topoforge/pkg/export"
	"github.com/qnetlab/topoforge/pkg/topology"
)

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	doc := export.Build(s.canvas, s.links, s.topo)
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) listNetworks(w http.ResponseWriter, r *http.Request) {
	nets := s.topo.Networks()
	docs := make([]export.NetworkDoc, 0, len(nets))
	for _, net := range nets {
		docs = append(docs, s.networkDoc(net))
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) getNetwork(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	net, ok := s.topo.Network(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "network not found")
		return
	}
	s.respondJSON(w, http.StatusOK, s.networkDoc(net))
}

func (s *Server) deleteNetwork(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.topo.DeleteNetwork(id); err != nil {
		s.respondEditorError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func (s *Server) networkDoc(net *topology.Network) export.NetworkDoc {
	doc := export.NetworkDoc{
		ID:        net.ID(),
		Members:   net.Members(),
		Classical: net.Classical(),
		Bounds:    net.Bounds(),
	}
	if net.Classical() {
		doc.Addresses = make(map[string]int, net.Size())
		for _, member := range net.Members() {
			if n, ok := s.canvas.Node(member); ok && n.Address != nil {
				doc.Addresses[member] = *n.Address
			}
		}
	}
	return doc
}
