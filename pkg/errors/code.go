package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Entry & Access errors
// 12000-12999: Problem errors
// 13000-13999: Solution & Dispatch errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Database errors (10100-10199)
	DatabaseError  ErrorCode = 10100
	RecordNotFound ErrorCode = 10101

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200
	LockFailed ErrorCode = 10203

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// Queue errors (10400-10499)
	QueueError         ErrorCode = 10400
	QueuePublishFailed ErrorCode = 10401

	// Storage errors (10500-10599)
	StorageError         ErrorCode = 10500
	StorageObjectMissing ErrorCode = 10501

	// ========== Entry & Access Errors (11000-11999) ==========

	TokenInvalid   ErrorCode = 11000
	TokenExpired   ErrorCode = 11001
	EntryRequired  ErrorCode = 11100
	EntryForbidden ErrorCode = 11101
	AccessDenied   ErrorCode = 11200
	AdminRequired  ErrorCode = 11201

	// ========== Problem Errors (12000-12999) ==========

	ProblemNotFound    ErrorCode = 12000
	ProblemNoChannel   ErrorCode = 12001
	ProblemDataMissing ErrorCode = 12002

	// ========== Solution & Dispatch Errors (13000-13999) ==========

	SolutionNotFound     ErrorCode = 13000
	SolutionDeleteFailed ErrorCode = 13001
	InvalidSortField     ErrorCode = 13002
	InvalidStatusFilter  ErrorCode = 13003

	TaskCreateFailed ErrorCode = 13100
	DispatchConflict ErrorCode = 13101
	SnapshotFailed   ErrorCode = 13102
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized access",
	Forbidden:           "Access forbidden",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	DatabaseError:  "Database operation failed",
	RecordNotFound: "Record not found in database",

	CacheError: "Cache operation failed",
	LockFailed: "Failed to acquire lock",

	ValidationFailed:   "Validation failed",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	QueueError:         "Message queue operation failed",
	QueuePublishFailed: "Failed to publish message",

	StorageError:         "Object storage operation failed",
	StorageObjectMissing: "Stored object not found",

	TokenInvalid:   "Invalid token",
	TokenExpired:   "Token has expired",
	EntryRequired:  "Entry is required",
	EntryForbidden: "Access to this entry is denied",
	AccessDenied:   "Access denied",
	AdminRequired:  "Admin privilege required",

	ProblemNotFound:    "Problem not found",
	ProblemNoChannel:   "Problem has no judging channel",
	ProblemDataMissing: "Problem data payload is missing",

	SolutionNotFound:     "Solution not found",
	SolutionDeleteFailed: "Failed to delete solution",
	InvalidSortField:     "Invalid sort field",
	InvalidStatusFilter:  "Invalid status filter",

	TaskCreateFailed: "Failed to create judging task",
	DispatchConflict: "Another rejudge is in flight for this solution",
	SnapshotFailed:   "Failed to snapshot task payloads",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == Unauthorized, c == TokenInvalid, c == TokenExpired:
		return 401
	case c == Forbidden, c == EntryForbidden, c == AccessDenied, c == AdminRequired:
		return 403
	case c == NotFound, c == SolutionNotFound, c == ProblemNotFound, c == RecordNotFound:
		return 404
	case c == DispatchConflict:
		return 409
	case c == TooManyRequests:
		return 429
	case c == ServiceUnavailable:
		return 503
	case c >= 10300 && c < 10400:
		return 400
	case c == InvalidParams, c == EntryRequired, c == ProblemNoChannel,
		c == InvalidSortField, c == InvalidStatusFilter:
		return 400
	default:
		return 500
	}
}
