package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSchedules is returned when the chosen sections admit no schedule
var ErrNoSchedules = errors.New("no schedules for the selected sections")

// StatusError is a non-2xx response from the course API
type StatusError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	URL     string `json:"-"`
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %d: %s", e.URL, e.Status, msg)
}

// Temporary reports whether retrying the request may succeed
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
