package models

/*
Batch status constants for use throughout the codebase.
Centralizing these avoids magic strings and improves maintainability.
*/

const (
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
	BatchStatusCancelled  = "cancelled"
)

// TerminalBatchStatus reports whether a status is final. Terminal
// records are immutable.
func TerminalBatchStatus(status string) bool {
	switch status {
	case BatchStatusCompleted, BatchStatusFailed, BatchStatusCancelled:
		return true
	}
	return false
}
