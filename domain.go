package servicefn

import (
	"context"
	"fmt"
	"io"

	"github.com/asecurityteam/runhttp"
)

// Logger is an alias for the chosen project logging library
// which is, currently, logevent. All references in the project
// should be to this name rather than logevent directly.
type Logger = runhttp.Logger

// LogFn extracts a logger from the context.
type LogFn = runhttp.LogFn

// Stat is an alias for the chosen project metrics library
// which is, currently, xstats. All references in the project
// should be to this name rather than xstats directly.
type Stat = runhttp.Stat

// StatFn extracts a metrics client from the context.
type StatFn = runhttp.StatFn

// Body is the payload carried by a Request or Response. Framing, streaming,
// and length are left to the implementation. Whoever receives a Body is
// responsible for closing it.
type Body interface {
	io.Reader
	io.Closer
}

// Service is anything that can handle one request and eventually produce
// one response or an error. The returned Future may resolve at any point
// after Call returns. Driving it to completion is the caller's job.
type Service[ReqBody Body, ResBody Body] interface {
	Call(ctx context.Context, req *Request[ReqBody]) *Future[*Response[ResBody]]
}

// BodyService is the Service shape served by the runtimes in this package.
// Request bodies are always buffered Full values exposed as a Body.
type BodyService = Service[Body, Body]

// URLParamFn should be accepted by HTTP handlers that need
// to interface with the mux in use in order to extract request
// parameters from the URL. This defines the contract between
// any given mux and a handler so that the two do not need to
// be coupled.
type URLParamFn func(ctx context.Context, name string) string

// Fetcher is a pluggable component that enables different
// loading strategies for services.
type Fetcher interface {
	// Fetch uses some implementation of a loading strategy
	// to fetch the Service with the given name. If a matching Service
	// cannot be found then this component must emit a NotFoundError.
	Fetch(ctx context.Context, name string) (BodyService, error)
}

// NotFoundError represents a failed lookup for a resource.
type NotFoundError struct {
	// ID is the key used when looking for the resource.
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("resource (%s) not found", e.ID)
}

// PanicError is the error a Future resolves to when the work behind it
// panics.
type PanicError struct {
	// Value is whatever was passed to panic.
	Value interface{}
}

func (e PanicError) Error() string {
	return fmt.Sprintf("service panicked: %v", e.Value)
}

// NilResponseError is emitted by the runtimes when a service resolves
// without an error but also without a Response, or returns no Future at all.
type NilResponseError struct {
	// Service is the name used to fetch the offending service.
	Service string
}

func (e NilResponseError) Error() string {
	return fmt.Sprintf("service (%s) produced no response", e.Service)
}
