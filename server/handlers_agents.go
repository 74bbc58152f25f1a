package server

import (
	"net/http"
	"strings"
)

// handleAgents serves GET (list) and POST (create) on /api/agents
func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	if !requireMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		agents, err := s.agents.List()
		if err != nil {
			s.logger.Errorw("Failed to list agents", "error", err)
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, agents)

	case http.MethodPost:
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Mobile   string `json:"mobile"`
			Password string `json:"password"`
		}
		if err := readJSON(w, r, &req); err != nil {
			return
		}

		agent, err := s.agents.Create(req.Name, req.Email, req.Mobile, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, agent)
	}
}

// handleAgentByID serves /api/agents/{id} (GET/PUT/DELETE) and
// /api/agents/{id}/records (GET)
func (s *Server) handleAgentByID(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/agents/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "agent id required")
		return
	}
	id := parts[0]

	if len(parts) == 2 && parts[1] == "records" {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		s.handleAgentRecords(w, id)
		return
	}
	if len(parts) > 1 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		agent, err := s.agents.GetByID(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, agent)

	case http.MethodPut:
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Mobile   string `json:"mobile"`
			Password string `json:"password"`
		}
		if err := readJSON(w, r, &req); err != nil {
			return
		}
		agent, err := s.agents.Update(id, req.Name, req.Email, req.Mobile, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, agent)

	case http.MethodDelete:
		if err := s.agents.Delete(id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Agent removed"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleAgentRecords(w http.ResponseWriter, agentID string) {
	// Verify the agent exists so a bad id reads as 404, not an empty list
	if _, err := s.agents.GetByID(agentID); err != nil {
		writeDomainError(w, err)
		return
	}

	records, err := s.records.ListByAgent(agentID)
	if err != nil {
		s.logger.Errorw("Failed to list agent records", "agent_id", agentID, "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleStats serves dashboard counters on /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	totalAgents, err := s.agents.Count()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	totalRecords, err := s.records.Count()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"totalAgents":  totalAgents,
		"totalRecords": totalRecords,
	})
}

// handleHealth is the unauthenticated liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
