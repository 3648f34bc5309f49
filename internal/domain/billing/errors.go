package billing

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	// ErrNotFound is returned when a referenced entity does not exist or is soft-deleted
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
	// ErrInvalidInput is returned when entity-level validation fails
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	// ErrTransactionActive is returned on Begin while a transaction is already open.
	// This is a programming error, never expected in normal operation.
	ErrTransactionActive = NewDomainError("TRANSACTION_ACTIVE", "A transaction is already active on this unit of work")
	// ErrNoTransaction is returned on Commit/Rollback with no open transaction
	ErrNoTransaction = NewDomainError("NO_TRANSACTION", "No active transaction on this unit of work")
)
