package errs

import "errors"

// Engine-wide sentinel errors. Callers match them with errors.Is; infra
// layers attach them to wrapped low-level errors via Mark.
var (
	// Head or revision lookups.
	ErrHeadNotFound      = errors.New("catalog entity not found")
	ErrRevisionNotFound  = errors.New("catalog revision not found")
	ErrNoCurrentRevision = errors.New("catalog entity has no approved revision")
	ErrHeadDeleted       = errors.New("catalog entity is deleted")

	// Promotion failures.
	ErrInvalidReference  = errors.New("revision references a nonexistent child revision")
	ErrNoPendingEdit     = errors.New("no pending edit to approve")
	ErrPromotionConflict = errors.New("concurrent promotion conflict")

	// Defensive: propagation matched an ancestor revision that is not the
	// ancestor's current one. Indicates a traversal bug, never user input.
	ErrConsistencyViolation = errors.New("propagation would rewrite a non-current revision")

	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
