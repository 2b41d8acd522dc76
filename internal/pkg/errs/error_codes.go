/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room and Message Business Logic Errors
const (
	// ErrRoomNotFound indicates that the requested room does not exist.
	ErrRoomNotFound = 2101

	// ErrMessageNotFound indicates that the requested message does not exist.
	ErrMessageNotFound = 2201

	// ErrMessageContentEmpty indicates that a message was submitted without content.
	ErrMessageContentEmpty = 2202
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrInvalidUsername indicates that the supplied username fails validation.
	ErrInvalidUsername = 3001

	// ErrInvalidPassword indicates that the supplied password fails validation.
	ErrInvalidPassword = 3002

	// ErrUserAlreadyExists indicates a signup conflict on username or email.
	ErrUserAlreadyExists = 3003

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = 3004

	// ErrUnauthorized indicates the request lacks a valid identity.
	ErrUnauthorized = 3005
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
