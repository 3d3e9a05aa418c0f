package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Session admission ─────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAlreadyLoggedIn    ErrCode = "ALREADY_LOGGED_IN"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrAdminTokenRequired ErrCode = "ADMIN_TOKEN_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation   ErrCode = "VALIDATION_ERROR"
	ErrMissingField ErrCode = "MISSING_FIELD"
	ErrFileRequired ErrCode = "FILE_REQUIRED"

	// ─── Exam configuration ────────────────────────────────────────────
	ErrExamNotFound  ErrCode = "EXAM_NOT_FOUND"
	ErrMultipleExams ErrCode = "MULTIPLE_EXAMS_FOR_PREFIX"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrDuplicateUsers ErrCode = "USERS_ALREADY_EXIST"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrUpstream ErrCode = "UPSTREAM_SERVICE_ERROR"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid credentials."
	case ErrAlreadyLoggedIn:
		return "Already logged in."
	case ErrTokenInvalid:
		return "User not logged in or invalid token."
	case ErrAdminTokenRequired:
		return "A valid admin token is required."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrMissingField:
		return "A required field is missing or malformed."
	case ErrFileRequired:
		return "A file upload is required."
	case ErrExamNotFound:
		return "No exam found for the given prefix."
	case ErrMultipleExams:
		return "Multiple exam entries found with the given prefix."
	case ErrDuplicateUsers:
		return "Users already exist."
	case ErrUpstream:
		return "The question bank reported an error."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
