package httperror

import "net/http"

// Error is an HTTP-mappable error with a caller-settable status and
// user-facing message.
type Error struct {
	Status  int
	Message string
}

// New builds an Error with an explicit status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Internal builds the default internal error with a generic user-facing
// message; the source condition stays server-side.
func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Something went wrong"}
}

func (e *Error) Error() string {
	return e.Message
}
