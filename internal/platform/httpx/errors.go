package httpx

import (
	"errors"
	"net/http"
)

// Sentinel error kinds. Domain packages wrap these into their own sentinels
// (for example "decree not found") so RespondError can pick the status code
// while handlers keep matching on the domain error.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	ErrInvalid   = errors.New("invalid")
)

// RespondError maps a domain error onto an RFC7807 response. Errors that wrap
// none of the sentinels become an opaque 500; callers log those before
// responding.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrInvalid):
		Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// IsClientError reports whether RespondError would translate err into a 4xx
// response; handlers use it to decide whether the error is worth logging.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalid)
}
