package logger

// Standard field names for consistent structured logging across FieldHQ.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldAgentID  = "agent_id"
	FieldRecordID = "record_id"
	FieldAdminID  = "admin_id"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount      = "count"
	FieldSize       = "size"
	FieldBatchSize  = "batch_size"
	FieldTotalCount = "total_count"

	// Files
	FieldFile      = "file"
	FieldExtension = "extension"

	// Network
	FieldAddress = "address"
	FieldPort    = "port"
)
