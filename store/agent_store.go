package store

import (
	"database/sql"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldhq/fieldhq/errors"
	"github.com/fieldhq/fieldhq/logger"
)

// Query constants
const (
	agentInsertQuery = `
		INSERT INTO agents (id, name, email, mobile, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	agentSelectQuery = `
		SELECT id, name, email, mobile, password_hash, created_at FROM agents`

	agentExistsByEmailQuery = `
		SELECT EXISTS(SELECT 1 FROM agents WHERE email = ? AND id != ?)`

	agentExistsByMobileQuery = `
		SELECT EXISTS(SELECT 1 FROM agents WHERE mobile = ? AND id != ?)`
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// AgentStore persists agents in SQLite
type AgentStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewAgentStore creates a new SQL-backed agent store
func NewAgentStore(db *sql.DB, logger *zap.SugaredLogger) *AgentStore {
	return &AgentStore{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new agent. Email and mobile must be unique; mobile must
// be exactly 10 digits. The password is stored as a bcrypt hash.
func (s *AgentStore) Create(name, email, mobile, password string) (*Agent, error) {
	if name == "" || email == "" || mobile == "" || password == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "name, email, mobile and password are required")
	}
	if !mobilePattern.MatchString(mobile) {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "mobile number must be exactly 10 digits")
	}

	if err := s.checkUnique(email, mobile, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	agent := &Agent{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.db.Exec(agentInsertQuery,
		agent.ID, agent.Name, agent.Email, agent.Mobile, agent.PasswordHash, agent.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to insert agent")
	}

	if s.logger != nil {
		s.logger.Infow("Agent created", logger.FieldAgentID, agent.ID, "email", agent.Email)
	}
	return agent, nil
}

// GetByID returns a single agent by id
func (s *AgentStore) GetByID(id string) (*Agent, error) {
	row := s.db.QueryRow(agentSelectQuery+" WHERE id = ?", id)

	var agent Agent
	err := row.Scan(&agent.ID, &agent.Name, &agent.Email, &agent.Mobile, &agent.PasswordHash, &agent.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query agent")
	}
	return &agent, nil
}

// Update modifies an existing agent. Empty fields keep their current value;
// a non-empty password is rehashed.
func (s *AgentStore) Update(id, name, email, mobile, password string) (*Agent, error) {
	agent, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		agent.Name = name
	}
	if email != "" {
		agent.Email = email
	}
	if mobile != "" {
		if !mobilePattern.MatchString(mobile) {
			return nil, errors.Wrap(errors.ErrInvalidRequest, "mobile number must be exactly 10 digits")
		}
		agent.Mobile = mobile
	}

	if err := s.checkUnique(agent.Email, agent.Mobile, agent.ID); err != nil {
		return nil, err
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password")
		}
		agent.PasswordHash = string(hash)
	}

	if _, err := s.db.Exec(
		"UPDATE agents SET name = ?, email = ?, mobile = ?, password_hash = ? WHERE id = ?",
		agent.Name, agent.Email, agent.Mobile, agent.PasswordHash, agent.ID); err != nil {
		return nil, errors.Wrap(err, "failed to update agent")
	}

	return agent, nil
}

// Delete removes an agent and, via foreign key cascade, its assigned records
func (s *AgentStore) Delete(id string) error {
	result, err := s.db.Exec("DELETE FROM agents WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "failed to delete agent")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read delete result")
	}
	if affected == 0 {
		return errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}

	if s.logger != nil {
		s.logger.Infow("Agent deleted", logger.FieldAgentID, id)
	}
	return nil
}

// List returns all agents ordered by creation time ascending.
// This ordering is the distribution roster order and must stay stable.
func (s *AgentStore) List() ([]Agent, error) {
	rows, err := s.db.Query(agentSelectQuery + " ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list agents")
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		var agent Agent
		if err := rows.Scan(&agent.ID, &agent.Name, &agent.Email, &agent.Mobile, &agent.PasswordHash, &agent.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan agent row")
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

// Count returns the total number of agents
func (s *AgentStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM agents").Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count agents")
	}
	return count, nil
}

// checkUnique rejects email/mobile values already used by another agent.
// excludeID skips the agent being updated.
func (s *AgentStore) checkUnique(email, mobile, excludeID string) error {
	var exists bool
	if err := s.db.QueryRow(agentExistsByEmailQuery, email, excludeID).Scan(&exists); err != nil {
		return errors.Wrap(err, "failed to check email uniqueness")
	}
	if exists {
		return errors.Wrap(errors.ErrConflict, "agent with this email already exists")
	}

	if err := s.db.QueryRow(agentExistsByMobileQuery, mobile, excludeID).Scan(&exists); err != nil {
		return errors.Wrap(err, "failed to check mobile uniqueness")
	}
	if exists {
		return errors.Wrap(errors.ErrConflict, "agent with this mobile number already exists")
	}
	return nil
}
