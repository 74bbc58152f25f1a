package ingest

import "github.com/fieldhq/fieldhq/errors"

// Sentinel errors for the ingestion pipeline.
// Use these with errors.Is() for type-safe error checking.
// All of them short-circuit the pipeline; the uploaded file is cleaned up
// on every failure path.
var (
	// ErrInvalidFileType indicates the uploaded file extension is outside
	// the allow-list (.csv, .xlsx, .xls)
	ErrInvalidFileType = errors.New("invalid file type, only CSV, XLSX, XLS allowed")

	// ErrNoAgents indicates the agent roster was empty at ingestion time
	ErrNoAgents = errors.New("no agents found in the system, please create agents first")

	// ErrNoValidRecords indicates zero rows survived normalization
	ErrNoValidRecords = errors.New("no valid records found to import, check your column headers (Name, Number)")

	// ErrEmptyRoster is returned by the distribution engine itself.
	// Unreachable when the orchestrator's ErrNoAgents check runs first.
	ErrEmptyRoster = errors.New("cannot distribute records across an empty roster")

	// ErrDecode indicates the byte stream is not a well-formed instance of
	// the declared format
	ErrDecode = errors.New("failed to decode file")
)

// IsUserError reports whether err should be surfaced to the caller as a
// user-correctable problem rather than a server fault.
func IsUserError(err error) bool {
	return errors.IsAny(err, ErrInvalidFileType, ErrNoAgents, ErrNoValidRecords, ErrDecode)
}
