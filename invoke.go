package servicefn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/google/uuid"
)

const (
	invocationTypeHeader          = "X-Invocation-Type"
	invocationTypeRequestResponse = "RequestResponse"
	invocationTypeEvent           = "Event"
	invocationTypeDryRun          = "DryRun"
	invocationErrorHeader         = "X-Service-Error"
	invocationErrorTypeHandled    = "Handled"
	invocationErrorTypeUnhandled  = "Unhandled"
	requestIDHeader               = "X-Request-Id"

	serviceNameParam = "serviceName"
	servicePathParam = "*"

	statInvoke         = "servicefn.invoke"
	statInvokeDuration = "servicefn.invoke.duration"
)

// bgContext is used to detach the *http.Request context from the http.Handler
// lifecycle. Typically, the request context is canceled when the hander returns.
// This is problematic when using the request context to share request scoped
// elements, such as the logger or stat client, with background tasks that will
// execute after the handler returns. This resolves that issue by keeping a
// reference to the request context and using it to lookup values but replacing
// all other context.Context methods with the context.Background() implementation.
// The result is a valid context.Context that will not expire when the source
// http.Handler returns but will maintain all context values.
type bgContext struct {
	context.Context
	Values context.Context
}

func (c *bgContext) Value(key interface{}) interface{} {
	return c.Values.Value(key)
}

// serviceError is the JSON body written for every failed invocation.
type serviceError struct {
	Message string `json:"errorMessage"`
	Type    string `json:"errorType"`
}

type fetchFailure struct {
	Message string `logevent:"message,default=service-fetch-failure"`
	Service string `logevent:"service"`
	Reason  string `logevent:"reason"`
}

type callFailure struct {
	Message string `logevent:"message,default=service-call-failure"`
	Service string `logevent:"service"`
	Event   bool   `logevent:"event"`
	Reason  string `logevent:"reason"`
}

type writeFailure struct {
	Message string `logevent:"message,default=service-response-write-failure"`
	Service string `logevent:"service"`
	Reason  string `logevent:"reason"`
}

// Invoke exposes every Service known to the Fetcher over HTTP. The service
// is selected by the serviceName URL parameter and receives the remainder
// of the URL path as its Request.Path.
//
// The X-Invocation-Type header selects how the call is made:
//
//   - RequestResponse (the default) calls the service and waits for it. The
//     Response status, headers, and body are copied to the client.
//
//   - Event calls the service in the background and responds with a 202
//     right away. The service keeps the request's context values but is not
//     canceled when the client goes away.
//
//   - DryRun only verifies that the service exists and responds with a 204.
type Invoke struct {
	LogFn      LogFn
	StatFn     StatFn
	URLParamFn URLParamFn
	Fetcher    Fetcher
}

func (h *Invoke) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)
	logger := h.LogFn(ctx)
	logger.SetField("request_id", requestID)

	name := h.URLParamFn(ctx, serviceNameParam)
	svc, errFetch := h.Fetcher.Fetch(ctx, name)
	switch errFetch.(type) {
	case nil:
		break
	case NotFoundError:
		writeError(w, http.StatusNotFound, errFetch)
		return
	default:
		logger.Error(fetchFailure{Service: name, Reason: errFetch.Error()})
		writeError(w, http.StatusInternalServerError, errFetch)
		return
	}

	invocationType := r.Header.Get(invocationTypeHeader)
	if invocationType == "" {
		invocationType = invocationTypeRequestResponse
	}
	b, errRead := io.ReadAll(r.Body)
	if errRead != nil {
		writeError(w, http.StatusBadRequest, errRead)
		return
	}
	req := NewRequest[Body](r.Method, h.URLParamFn(ctx, servicePathParam), NewFull(b))
	req.Query = r.URL.Query()
	req.Header = r.Header.Clone()

	stat := h.StatFn(ctx)
	tag := "service:" + name
	switch invocationType {
	case invocationTypeDryRun:
		w.WriteHeader(http.StatusNoContent)
	case invocationTypeEvent:
		stat.Count(statInvoke, 1, tag, "type:event")
		bg := &bgContext{Context: context.Background(), Values: ctx}
		go func() {
			resp, err := await(bg, name, call(bg, svc, req))
			if err != nil {
				logger.Error(callFailure{Service: name, Event: true, Reason: err.Error()})
				return
			}
			if resp.Body != nil {
				_ = resp.Body.Close()
			}
		}()
		w.WriteHeader(http.StatusAccepted)
	case invocationTypeRequestResponse:
		stat.Count(statInvoke, 1, tag, "type:requestresponse")
		start := time.Now()
		resp, err := await(ctx, name, call(ctx, svc, req))
		stat.Timing(statInvokeDuration, time.Since(start), tag)
		if err != nil {
			logger.Error(callFailure{Service: name, Reason: err.Error()})
			writeError(w, statusFromError(err), err)
			return
		}
		if errWrite := writeResponse(w, resp); errWrite != nil {
			logger.Error(writeFailure{Service: name, Reason: errWrite.Error()})
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(serviceError{
			Message: fmt.Sprintf("InvocationType %s not valid", invocationType),
			Type:    "InvalidParameterValueException",
		})
	}
}

// call invokes the service and turns a panic raised before the Future is
// returned into a PanicError.
func call(ctx context.Context, svc BodyService, req *Request[Body]) (f *Future[*Response[Body]]) {
	defer func() {
		if p := recover(); p != nil {
			f = Failed[*Response[Body]](PanicError{Value: p})
		}
	}()
	return svc.Call(ctx, req)
}

// await drives the Future and folds the missing-response cases into a
// NilResponseError. When ctx ends first, any Response that arrives later
// has its Body closed.
func await(ctx context.Context, name string, f *Future[*Response[Body]]) (*Response[Body], error) {
	if f == nil {
		return nil, NilResponseError{Service: name}
	}
	resp, err := f.Await(ctx)
	if err != nil {
		go discard(f)
		return nil, err
	}
	if resp == nil {
		return nil, NilResponseError{Service: name}
	}
	return resp, nil
}

// discard waits for an abandoned Future and closes its Response body.
func discard(f *Future[*Response[Body]]) {
	resp, err := f.Result()
	if err == nil && resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}

func writeResponse(w http.ResponseWriter, resp *Response[Body]) error {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if resp.Body == nil {
		return nil
	}
	defer resp.Body.Close()
	_, err := io.Copy(w, resp.Body)
	return err
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	if statusCode > 399 {
		w.Header().Set(invocationErrorHeader, invocationErrorTypeHandled)
	}
	if statusCode > 499 {
		w.Header().Set(invocationErrorHeader, invocationErrorTypeUnhandled)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(responseFromError(err))
}

func responseFromError(err error) serviceError {
	errType := reflect.TypeOf(err)
	errTypeName := errType.Name()
	if errType.Kind() == reflect.Ptr {
		errTypeName = errType.Elem().Name()
	}
	return serviceError{
		Message: err.Error(),
		Type:    errTypeName,
	}
}

func statusFromError(err error) int {
	var (
		errUnmarshal *json.InvalidUnmarshalError
		errType      *json.UnmarshalTypeError
		errSyntax    *json.SyntaxError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &errUnmarshal):
		return http.StatusBadRequest
	case errors.As(err, &errType):
		return http.StatusBadRequest
	case errors.As(err, &errSyntax):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
