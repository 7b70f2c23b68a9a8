package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is a failure response from the external API. It carries the server's
// message, the HTTP status code, and the raw response payload for callers
// that need more detail. A request that never completed is not an *Error;
// network failures surface as plain wrapped errors.
type Error struct {
	Status  int
	Message string
	Data    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// errorBody matches the error envelope returned by the API. The server uses
// either a bare message or an errors array depending on the endpoint.
type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
	StatusCode int `json:"statusCode"`
}

// newError builds an *Error from a non-2xx response body. When the payload
// is not parseable the generic status text is used as the message.
func newError(status int, body []byte) *Error {
	msg := http.StatusText(status)

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case len(eb.Errors) > 0 && eb.Errors[0].Message != "":
			msg = eb.Errors[0].Message
		case eb.Message != "":
			msg = eb.Message
		}
	}

	return &Error{Status: status, Message: msg, Data: body}
}
