package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
)

// User error codes (USER_*)
const (
	UserNotFound            ErrorCode = "USER_001"
	UserAlreadyExists       ErrorCode = "USER_002"
	UserRegistrationInvalid ErrorCode = "USER_003"
)

// Budget error codes (BUDGET_*)
const (
	BudgetNotFound     ErrorCode = "BUDGET_001"
	BudgetInvalidID    ErrorCode = "BUDGET_002"
	BudgetInvalidLimit ErrorCode = "BUDGET_003"
	BudgetNoChanges    ErrorCode = "BUDGET_004"
)

// Expense error codes (EXPENSE_*)
const (
	ExpenseNotFound      ErrorCode = "EXPENSE_001"
	ExpenseInvalidID     ErrorCode = "EXPENSE_002"
	ExpenseInvalidAmount ErrorCode = "EXPENSE_003"
	ExpenseNoChanges     ErrorCode = "EXPENSE_004"
)

// Report error codes (REPORT_*)
const (
	ReportInvalidType     ErrorCode = "REPORT_001"
	ReportInvalidUserName ErrorCode = "REPORT_002"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemNotFound           ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials:     "Invalid email or password",
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",

	// User errors
	UserNotFound:            "User not found",
	UserAlreadyExists:       "Email address already taken!",
	UserRegistrationInvalid: "All fields are required!",

	// Budget errors
	BudgetNotFound:     "Budget not found",
	BudgetInvalidID:    "Invalid budget ID format",
	BudgetInvalidLimit: "Budget limit must be greater than zero",
	BudgetNoChanges:    "Nothing to update",

	// Expense errors
	ExpenseNotFound:      "Expense not found",
	ExpenseInvalidID:     "Invalid expense ID format",
	ExpenseInvalidAmount: "Expense amount must be greater than zero",
	ExpenseNoChanges:     "Nothing to update",

	// Report errors
	ReportInvalidType:     "Invalid report type",
	ReportInvalidUserName: "Invalid username",

	// System errors
	SystemInternalError:      "Server error, Please try again later!",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemNotFound:           "Resource not found",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
