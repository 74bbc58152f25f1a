package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldhq/fieldhq/errors"
	"github.com/fieldhq/fieldhq/logger"
)

const recordInsertQuery = `
	INSERT INTO records (id, first_name, phone, notes, assigned_to, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

// RecordStore persists distributed contact records in SQLite
type RecordStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewRecordStore creates a new SQL-backed record store
func NewRecordStore(db *sql.DB, logger *zap.SugaredLogger) *RecordStore {
	return &RecordStore{
		db:     db,
		logger: logger,
	}
}

// InsertMany writes a batch of records in a single transaction.
// Either every record commits or none do.
func (s *RecordStore) InsertMany(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmt, err := tx.Prepare(recordInsertQuery)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range records {
		r := &records[i]
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if _, err := stmt.Exec(r.ID, r.FirstName, r.Phone, r.Notes, r.AssignedTo, r.CreatedAt); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "failed to insert record for %s", r.FirstName)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit record batch")
	}

	if s.logger != nil {
		s.logger.Infow("Record batch persisted", logger.FieldBatchSize, len(records))
	}
	return nil
}

// ListByAgent returns all records assigned to the given agent,
// newest first.
func (s *RecordStore) ListByAgent(agentID string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, first_name, phone, notes, assigned_to, created_at
		FROM records WHERE assigned_to = ?
		ORDER BY created_at DESC, id ASC`, agentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.FirstName, &r.Phone, &r.Notes, &r.AssignedTo, &r.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan record row")
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the total number of records
func (s *RecordStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count records")
	}
	return count, nil
}
