/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Avatar Rendering Errors
	ErrInvalidDimensions:  {Code: ErrInvalidDimensions, Message: "Avatar width and height must be positive integers (got %dx%d).", Status: http.StatusBadRequest},
	ErrDimensionsTooLarge: {Code: ErrDimensionsTooLarge, Message: "Avatar size may not exceed %d pixels.", Status: http.StatusBadRequest},
	ErrMutatorCycle:       {Code: ErrMutatorCycle, Message: "Mutator %q would create a dependency cycle.", Status: http.StatusInternalServerError},
	ErrMutatorInvalid:     {Code: ErrMutatorInvalid, Message: "Mutator must be non-nil and named.", Status: http.StatusInternalServerError},
	ErrMutatorFailed:      {Code: ErrMutatorFailed, Message: "Mutator %q failed.", Status: http.StatusInternalServerError},

	// 3xxx: Identity and Media Errors
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},
	ErrPostNotFound:       {Code: ErrPostNotFound, Message: "Post not found.", Status: http.StatusNotFound},
	ErrCommentNotFound:    {Code: ErrCommentNotFound, Message: "Comment not found.", Status: http.StatusNotFound},
	ErrAttachmentNotFound: {Code: ErrAttachmentNotFound, Message: "Attachment not found.", Status: http.StatusNotFound},
	ErrFileSizeTooLarge:   {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:    {Code: ErrFileTypeInvalid, Message: "Only JPEG, PNG, WebP and GIF images are accepted.", Status: http.StatusBadRequest},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File storage failed. Please try again.", Status: http.StatusBadGateway},
}
