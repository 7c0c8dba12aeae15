package vault

import (
	"fmt"
	"net/http"
)

// APIError is returned when the configuration API answers with a non-success status.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request to %s failed: %d %s",
		e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}
