package servicefn

import (
	"context"
)

// CallFn is the shape of any function that can be turned into a Service.
type CallFn[ReqBody Body, ResBody Body] func(ctx context.Context, req *Request[ReqBody]) *Future[*Response[ResBody]]

// ServiceFn is a small wrapper that lets a plain function act as a Service.
// It holds nothing but the function and forwards every call to it
// unchanged. Errors, suspension, and cancellation all belong to the wrapped
// function and the Future it returns.
//
// ServiceFn is a value type. Copying it duplicates the adapter, and both
// copies share whatever state the wrapped function closes over.
type ServiceFn[ReqBody Body, ResBody Body] struct {
	f CallFn[ReqBody, ResBody]
}

// NewServiceFn is a replacement for hand-writing a Service implementation.
//
//	echo := servicefn.NewServiceFn(func(ctx context.Context, r *servicefn.Request[servicefn.Body]) *servicefn.Future[*servicefn.Response[servicefn.Body]] {
//		return servicefn.Ready(servicefn.NewResponse[servicefn.Body](servicefn.NewFullString(r.Path)))
//	})
func NewServiceFn[ReqBody Body, ResBody Body](f CallFn[ReqBody, ResBody]) ServiceFn[ReqBody, ResBody] {
	return ServiceFn[ReqBody, ResBody]{f: f}
}

// Call invokes the wrapped function.
func (s ServiceFn[ReqBody, ResBody]) Call(ctx context.Context, req *Request[ReqBody]) *Future[*Response[ResBody]] {
	return s.f(ctx, req)
}

// Clone returns a copy of the adapter.
func (s ServiceFn[ReqBody, ResBody]) Clone() ServiceFn[ReqBody, ResBody] {
	return s
}

const serviceFnDisplay = "ServiceFn{...}"

func (s ServiceFn[ReqBody, ResBody]) String() string {
	return serviceFnDisplay
}

// GoString keeps %#v from printing the function pointer.
func (s ServiceFn[ReqBody, ResBody]) GoString() string {
	return serviceFnDisplay
}

// HandlerFn is the synchronous form of CallFn.
type HandlerFn[ReqBody Body, ResBody Body] func(ctx context.Context, req *Request[ReqBody]) (*Response[ResBody], error)

// NewHandlerFn wraps a synchronous function so that each call runs on its
// own goroutine via Go.
func NewHandlerFn[ReqBody Body, ResBody Body](f HandlerFn[ReqBody, ResBody]) ServiceFn[ReqBody, ResBody] {
	return NewServiceFn(func(ctx context.Context, req *Request[ReqBody]) *Future[*Response[ResBody]] {
		return Go(ctx, func(ctx context.Context) (*Response[ResBody], error) {
			return f(ctx, req)
		})
	})
}
