package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var statusErrors = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusBadGateway:          ErrBadGateway,
	http.StatusInternalServerError: ErrInternalServerError,
}

// mapHTTPError turns a non-2xx response into one of the package sentinels,
// keeping the server's message as context.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if sentinel, ok := statusErrors[code]; ok {
		return fmt.Errorf("%w: %s", sentinel, body)
	}
	if body == "" {
		body = http.StatusText(code)
	}
	return fmt.Errorf("http %d: %s", code, body)
}
