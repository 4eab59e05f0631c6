/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both inside the
avatar service and in the JSON envelopes returned to HTTP clients.
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

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Avatar Rendering Errors
const (
	// ErrInvalidDimensions indicates a non-positive avatar width or height.
	ErrInvalidDimensions = 2101

	// ErrDimensionsTooLarge indicates a requested avatar size above the configured maximum.
	ErrDimensionsTooLarge = 2102

	// ErrMutatorCycle indicates that registering a mutator would create a dependency cycle.
	ErrMutatorCycle = 2201

	// ErrMutatorInvalid indicates a nil mutator or a mutator without a name.
	ErrMutatorInvalid = 2202

	// ErrMutatorFailed indicates that a mutator returned an error or panicked.
	ErrMutatorFailed = 2203
)

// 3xxx: Identity and Media Errors
const (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = 3001

	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = 3002

	// ErrCommentNotFound indicates that the requested comment does not exist.
	ErrCommentNotFound = 3003

	// ErrAttachmentNotFound indicates that the requested attachment does not exist.
	ErrAttachmentNotFound = 3101

	// ErrFileSizeTooLarge indicates that an uploaded image exceeds the size limit.
	ErrFileSizeTooLarge = 3102

	// ErrFileTypeInvalid indicates an upload whose MIME type or extension is not accepted.
	ErrFileTypeInvalid = 3103

	// ErrUnauthorized indicates that the request carries no valid identity token.
	ErrUnauthorized = 3201
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates that the object storage backend rejected an operation.
	ErrFileStorageFailed = 5001
)
