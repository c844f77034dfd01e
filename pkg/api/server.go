// Package api exposes the topology editor over HTTP. All mutations route
// through the linker and topology manager so connectivity invariants hold
// regardless of which surface drives the editor.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/qnetlab/topoforge/pkg/api/middleware"
	"github.com/qnetlab/topoforge/pkg/canvas"
	"github.com/qnetlab/topoforge/pkg/graphql"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/logging"
	"github.com/qnetlab/topoforge/pkg/metrics"
	"github.com/qnetlab/topoforge/pkg/topology"
)

// Server serves the editor state over REST and GraphQL
type Server struct {
	canvas  *canvas.Canvas
	links   *linker.Linker
	topo    *topology.Manager
	metrics *metrics.Registry
	log     logging.Logger
	router  *mux.Router
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the structured logger
func WithLogger(log logging.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMetrics attaches a metrics registry; its handler is mounted at /metrics
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Server) { s.metrics = reg }
}

// NewServer wires the REST and GraphQL surfaces over the given editor state
func NewServer(c *canvas.Canvas, links *linker.Linker, topo *topology.Manager, opts ...Option) (*Server, error) {
	s := &Server{
		canvas: c,
		links:  links,
		topo:   topo,
		log:    logging.NewNopLogger(),
		router: mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	schema, err := graphql.NewSchema(graphql.Editor{Nodes: c, Links: links, Topo: topo})
	if err != nil {
		return nil, err
	}

	s.setupRoutes(graphql.NewHandler(schema))
	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = middleware.Metrics(s.metrics)(h)
	h = middleware.Logging(s.log)(h)
	h = middleware.RequestID()(h)
	h = middleware.PanicRecovery(s.log)(h)
	return h
}

func (s *Server) setupRoutes(gql http.Handler) {
	r := s.router

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/topology", s.handleTopology).Methods(http.MethodGet)

	r.HandleFunc("/nodes", s.listNodes).Methods(http.MethodGet)
	r.HandleFunc("/nodes", s.createNode).Methods(http.MethodPost)
	r.HandleFunc("/nodes/{name}", s.getNode).Methods(http.MethodGet)
	r.HandleFunc("/nodes/{name}", s.deleteNode).Methods(http.MethodDelete)
	r.HandleFunc("/nodes/{name}/position", s.moveNode).Methods(http.MethodPost)

	r.HandleFunc("/connections", s.listConnections).Methods(http.MethodGet)
	r.HandleFunc("/connections", s.createConnection).Methods(http.MethodPost)
	r.HandleFunc("/connections/{from}/{to}", s.deleteConnection).Methods(http.MethodDelete)

	r.HandleFunc("/networks", s.listNetworks).Methods(http.MethodGet)
	r.HandleFunc("/networks/{id}", s.getNetwork).Methods(http.MethodGet)
	r.HandleFunc("/networks/{id}", s.deleteNetwork).Methods(http.MethodDelete)

	r.Handle("/graphql", gql)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
