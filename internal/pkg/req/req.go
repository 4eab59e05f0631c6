/*
Package req provides helper functions for HTTP request parsing.

It covers multipart uploads with enforced size limits and the integer query
parameters used for avatar dimensions.
*/
package req

import (
	"net/http"
	"strconv"
	"strings"

	"calmavatar/internal/pkg/errs"
)

const (
	// MaxFormMemory defines the maximum amount of memory (8 MB) ParseMultipartForm
	// will use to store non-file fields. File fields exceeding this limit are stored in temporary files.
	MaxFormMemory int64 = 8 << 20

	// MaxRequestFileSize defines the maximum allowed size (6 MB) for the entire request body, including files.
	// This limit is enforced via http.MaxBytesReader.
	MaxRequestFileSize int64 = 6 << 20
)

// SetupMultipart sets up and parses Multipart Form or URL-encoded form data from the HTTP request.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestFileSize)

	err := r.ParseMultipartForm(MaxFormMemory)

	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}

// QueryInt reads an integer query parameter. A missing or empty parameter
// yields def; a malformed one yields ErrInvalidParams.
func QueryInt(r *http.Request, key string, def int) (int, *errs.CustomError) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}
	return n, nil
}
