package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrUnknownSequence ErrCode = "UNKNOWN_SEQUENCE"
	ErrUnknownAction   ErrCode = "UNKNOWN_ACTION"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrCourseNotFound  ErrCode = "COURSE_NOT_FOUND"
	ErrProgramNotFound ErrCode = "PROGRAM_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal    ErrCode = "INTERNAL_ERROR"
	ErrUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrUnknownSequence:
		return "Unknown co-op sequence."
	case ErrUnknownAction:
		return "Unknown action."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrCourseNotFound:
		return "Course not found in the catalog."
	case ErrProgramNotFound:
		return "Program not found."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	case ErrUnavailable:
		return "A backing service is unavailable."
	default:
		return "An unexpected error occurred."
	}
}
