package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"famledger/handlers"
	"famledger/middleware"
	"famledger/session"
	"famledger/store"
)

// Server binds the router to its dependencies.
type Server struct {
	router  *mux.Router
	handler *handlers.Handler
	store   store.DocumentStore
}

// NewServer builds the API server and registers all routes.
func NewServer(st store.DocumentStore, sessions *session.Manager) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		handler: handlers.New(st, sessions),
		store:   st,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.EnableCORS)

	s.router.HandleFunc("/health", s.handler.HealthCheck).Methods("GET", "OPTIONS")

	protected := s.router.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Account and family lifecycle
	protected.HandleFunc("/profile", s.handler.GetProfile).Methods("GET")
	protected.HandleFunc("/family", s.handler.CreateFamily).Methods("POST")
	protected.HandleFunc("/family/join", s.handler.JoinFamily).Methods("POST")
	protected.HandleFunc("/signout", s.handler.SignOut).Methods("POST")

	// Catalog
	protected.HandleFunc("/categories", s.handler.GetCategories).Methods("GET")

	// Aggregation and period navigation
	protected.HandleFunc("/summary", s.handler.GetSummary).Methods("GET")
	protected.HandleFunc("/period", s.handler.SetPeriod).Methods("POST")
	protected.HandleFunc("/period/previous", s.handler.PrevPeriod).Methods("POST")
	protected.HandleFunc("/period/next", s.handler.NextPeriod).Methods("POST")

	// Transactions
	protected.HandleFunc("/transactions", s.handler.ListTransactions).Methods("GET")
	protected.HandleFunc("/transactions", s.handler.CreateTransaction).Methods("POST")
	protected.HandleFunc("/transactions/{id}", s.handler.UpdateTransaction).Methods("PUT")
	protected.HandleFunc("/transactions/{id}", s.handler.DeleteTransaction).Methods("DELETE")

	// Budget allocations, provider only
	allocations := protected.PathPrefix("/allocations").Subrouter()
	allocations.Use(middleware.RequireProvider(s.store))
	allocations.HandleFunc("", s.handler.CreateAllocation).Methods("POST")
	allocations.HandleFunc("/{id}", s.handler.UpdateAllocation).Methods("PUT")
	allocations.HandleFunc("/{id}", s.handler.DeleteAllocation).Methods("DELETE")
}

// Handler returns the HTTP handler for the API server.
func (s *Server) Handler() http.Handler {
	return s.router
}
