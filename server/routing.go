package server

import (
	"net/http"
)

// setupHTTPRoutes configures all HTTP handlers.
// /api/* routes (except login) require a valid admin token.
func (s *Server) setupHTTPRoutes() {
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return s.corsMiddleware(s.authmw.RequireAuth(h))
	}

	s.mux.HandleFunc("/health", s.corsMiddleware(s.handleHealth))
	s.mux.HandleFunc("/api/auth/login", s.corsMiddleware(s.handleLogin))

	s.mux.HandleFunc("/api/agents", protected(s.handleAgents))       // List/create agents (GET/POST)
	s.mux.HandleFunc("/api/agents/", protected(s.handleAgentByID))   // Agent CRUD and records (GET/PUT/DELETE, GET /records)
	s.mux.HandleFunc("/api/stats", protected(s.handleStats))         // Dashboard counters (GET)
	s.mux.HandleFunc("/api/upload", protected(s.handleUpload))       // File ingestion (POST)
	s.mux.HandleFunc("/ws", s.corsMiddleware(s.handleWebSocket))     // Dashboard event feed
}

// corsMiddleware adds CORS headers using configured allowed origins
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// originAllowed matches the request origin against the configured
// allow-list by prefix, so entries without a port cover any port.
func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if origin == allowed || len(origin) > len(allowed) && origin[:len(allowed)+1] == allowed+":" {
			return true
		}
	}
	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// Non-browser clients send no Origin header
	if origin == "" {
		return true
	}
	return s.originAllowed(origin)
}
