package cache

// ErrorHandler carries the HTTP status a cache miss or corruption should map
// to, so handlers don't have to guess.
type ErrorHandler struct {
	Err        error
	StatusCode int
}

func NewErrorHandler(err error, status int) ErrorHandler {
	return ErrorHandler{Err: err, StatusCode: status}
}

func (e ErrorHandler) Error() string {
	return e.Err.Error()
}

func (e ErrorHandler) Unwrap() error {
	return e.Err
}
