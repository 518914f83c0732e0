package servicefn

import (
	"net/http"
	"net/url"
)

// Request is a single inbound request handed to a Service.
type Request[B Body] struct {
	Method string
	// Path is the request path relative to the service. It always
	// begins with a slash.
	Path   string
	Query  url.Values
	Header http.Header
	Body   B
}

// NewRequest builds a Request with initialized Query and Header maps.
func NewRequest[B Body](method string, path string, body B) *Request[B] {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return &Request[B]{
		Method: method,
		Path:   path,
		Query:  make(url.Values),
		Header: make(http.Header),
		Body:   body,
	}
}

// Response is the outcome of a successful Service call. A zero StatusCode
// is treated as http.StatusOK by the runtimes.
type Response[B Body] struct {
	StatusCode int
	Header     http.Header
	Body       B
}

// NewResponse builds a 200 Response around the given body.
func NewResponse[B Body](body B) *Response[B] {
	return &Response[B]{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       body,
	}
}
