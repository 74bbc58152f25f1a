package auth

import (
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldhq/fieldhq/errors"
)

// AdminStore persists administrator accounts in SQLite
type AdminStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewAdminStore creates a new SQL-backed admin store
func NewAdminStore(db *sql.DB, logger *zap.SugaredLogger) *AdminStore {
	return &AdminStore{
		db:     db,
		logger: logger,
	}
}

// Seed creates the admin account, or resets its password when the email
// already exists. Used by `fieldhq seed`.
func (s *AdminStore) Seed(email, password string) (*Admin, error) {
	if email == "" || password == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	existing, err := s.GetByEmail(email)
	if err == nil {
		if _, err := s.db.Exec("UPDATE admins SET password_hash = ? WHERE id = ?", string(hash), existing.ID); err != nil {
			return nil, errors.Wrap(err, "failed to update admin password")
		}
		existing.PasswordHash = string(hash)
		return existing, nil
	}
	if !errors.IsNotFoundError(err) {
		return nil, err
	}

	admin := &Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if _, err := s.db.Exec(
		"INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)",
		admin.ID, admin.Email, admin.PasswordHash); err != nil {
		return nil, errors.Wrap(err, "failed to insert admin")
	}

	if s.logger != nil {
		s.logger.Infow("Admin account seeded", "email", email)
	}
	return admin, nil
}

// GetByEmail returns the admin account for the given email
func (s *AdminStore) GetByEmail(email string) (*Admin, error) {
	row := s.db.QueryRow(
		"SELECT id, email, password_hash, created_at FROM admins WHERE email = ?", email)

	var admin Admin
	err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "admin %s", email)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query admin")
	}
	return &admin, nil
}

// Authenticate verifies the email/password pair.
// Returns ErrUnauthorized for unknown emails and wrong passwords alike, so
// callers cannot distinguish the two.
func (s *AdminStore) Authenticate(email, password string) (*Admin, error) {
	admin, err := s.GetByEmail(email)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid email or password")
	}
	return admin, nil
}
