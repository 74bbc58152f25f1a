package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fieldhq/fieldhq/errors"
	"github.com/fieldhq/fieldhq/logger"
	"github.com/fieldhq/fieldhq/store"
)

// RosterProvider supplies the current agent roster sorted by creation time
// ascending. The roster is read once per ingestion run and used as a frozen
// snapshot; concurrent agent edits do not affect an in-flight run.
type RosterProvider interface {
	List() ([]store.Agent, error)
}

// RecordPersister bulk-writes distributed records. The write is atomic:
// either the whole batch commits or the batch is reported failed.
type RecordPersister interface {
	InsertMany(records []store.Record) error
}

// Upload describes a file handed over by the upload transport.
// The temporary file at Path is consumed exactly once and deleted on every
// terminal outcome, success or failure.
type Upload struct {
	Path         string
	OriginalName string
}

// Result summarizes a successful ingestion run.
type Result struct {
	Message      string `json:"message"`
	TotalRecords int    `json:"total_records"`
	AgentCount   int    `json:"agent_count"`
	SkippedRows  int    `json:"skipped_rows"`
	Distribution string `json:"distribution"`
}

// Ingestor coordinates the pipeline: validate file type, snapshot the
// roster, decode, normalize, distribute, persist, clean up.
type Ingestor struct {
	roster  RosterProvider
	records RecordPersister
	logger  *zap.SugaredLogger

	// cleanupRetryDelay is the wait before the single best-effort retry when
	// deleting a transiently locked temporary file. Shortened in tests.
	cleanupRetryDelay time.Duration
}

// NewIngestor creates an ingestion pipeline over the given collaborators
func NewIngestor(roster RosterProvider, records RecordPersister, logger *zap.SugaredLogger) *Ingestor {
	return &Ingestor{
		roster:            roster,
		records:           records,
		logger:            logger,
		cleanupRetryDelay: time.Second,
	}
}

// Ingest runs the full pipeline for one uploaded file.
//
// Stage errors short-circuit straight to cleanup; the temporary file is
// deleted on every exit path. User-correctable failures satisfy
// IsUserError; anything else is a server fault.
func (ing *Ingestor) Ingest(ctx context.Context, up Upload) (result *Result, err error) {
	defer ing.cleanup(up.Path)

	ext := strings.ToLower(filepath.Ext(up.OriginalName))
	if !AllowedExtension(ext) {
		return nil, errors.Wrapf(ErrInvalidFileType, "extension %q", ext)
	}

	// Roster snapshot, sorted by creation time ascending. Taken once;
	// never re-queried mid-run.
	agents, err := ing.roster.List()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load agent roster")
	}
	if len(agents) == 0 {
		return nil, errors.WithStack(ErrNoAgents)
	}

	normalized, skipped, err := ing.decodeAndNormalize(up.Path, ext)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, errors.WithStack(ErrNoValidRecords)
	}

	distributed, err := Distribute(normalized, agents)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "ingestion aborted before persistence")
	}

	if err := ing.records.InsertMany(distributed); err != nil {
		return nil, errors.Wrap(err, "failed to persist distributed records")
	}

	ing.logger.Infow("File processed",
		logger.FieldFile, up.OriginalName,
		logger.FieldExtension, ext,
		logger.FieldTotalCount, len(distributed),
		"skipped", skipped,
		"agents", len(agents),
	)

	return &Result{
		Message:      "File processed successfully",
		TotalRecords: len(distributed),
		AgentCount:   len(agents),
		SkippedRows:  skipped,
		Distribution: fmt.Sprintf("Distributed equally among %d agents", len(agents)),
	}, nil
}

// decodeAndNormalize streams decoder rows through the normalizer.
// Rows failing normalization are excluded silently and counted.
func (ing *Ingestor) decodeAndNormalize(path, ext string) ([]NormalizedRecord, int, error) {
	reader, err := OpenReader(path, ext)
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	var normalized []NormalizedRecord
	skipped := 0
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		rec, ok := Normalize(row)
		if !ok {
			skipped++
			continue
		}
		normalized = append(normalized, rec)
	}
	return normalized, skipped, nil
}

// cleanup deletes the temporary uploaded file. Deleting an already-missing
// file is a no-op. Failures are logged, never surfaced; a transient-looking
// failure (file busy / permission denied) gets one retry after a short
// delay. No backoff beyond that single retry.
func (ing *Ingestor) cleanup(path string) {
	if path == "" {
		return
	}

	err := os.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return
	}

	ing.logger.Warnw("Failed to delete temporary upload", logger.FieldFile, path, logger.FieldError, err)
	if !isTransientFSError(err) {
		return
	}

	time.Sleep(ing.cleanupRetryDelay)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		ing.logger.Warnw("Retry deleting temporary upload failed", logger.FieldFile, path, logger.FieldError, err)
	}
}

// isTransientFSError reports whether a deletion failure looks like a
// transient lock (resource-busy / permission-denied class).
func isTransientFSError(err error) bool {
	if os.IsPermission(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "resource busy") ||
		strings.Contains(msg, "being used by another process")
}
