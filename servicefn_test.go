package servicefn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ BodyService = ServiceFn[Body, Body]{}
var _ Service[*Full, *Full] = ServiceFn[*Full, *Full]{}

type handlerError struct {
	Code int
}

func (e *handlerError) Error() string {
	return fmt.Sprintf("handler failed with %d", e.Code)
}

func pathEcho(_ context.Context, r *Request[Body]) *Future[*Response[Body]] {
	return Ready(NewResponse[Body](NewFullString(r.Path)))
}

func TestServiceFnDelegates(t *testing.T) {
	var seen *Request[Body]
	want := Ready(NewResponse[Body](NewFullString("out")))
	svc := NewServiceFn(func(_ context.Context, r *Request[Body]) *Future[*Response[Body]] {
		seen = r
		return want
	})

	req := NewRequest[Body](http.MethodGet, "/in", Empty())
	got := svc.Call(context.Background(), req)

	require.Same(t, want, got)
	require.Same(t, req, seen)
}

func TestServiceFnMatchesDirectCall(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFn(pathEcho)

	direct, errDirect := pathEcho(ctx, NewRequest[Body](http.MethodGet, "/foo", Empty())).Result()
	wrapped, errWrapped := svc.Call(ctx, NewRequest[Body](http.MethodGet, "/foo", Empty())).Result()
	require.NoError(t, errDirect)
	require.NoError(t, errWrapped)

	assert.Equal(t, direct.StatusCode, wrapped.StatusCode)
	assert.Equal(t, direct.Header, wrapped.Header)
	directBody, _ := readBody(direct.Body)
	wrappedBody, _ := readBody(wrapped.Body)
	assert.Equal(t, directBody, wrappedBody)
}

func TestServiceFnPropagatesErrors(t *testing.T) {
	sentinel := errors.New("fail")
	typed := &handlerError{Code: 42}
	tests := []struct {
		name string
		err  error
	}{
		{name: "sentinel", err: sentinel},
		{name: "typed", err: typed},
		{name: "wrapped", err: fmt.Errorf("outer: %w", sentinel)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewServiceFn(func(context.Context, *Request[Body]) *Future[*Response[Body]] {
				return Failed[*Response[Body]](tt.err)
			})
			resp, err := svc.Call(context.Background(), NewRequest[Body](http.MethodGet, "/", Empty())).Result()
			require.Nil(t, resp)
			require.Equal(t, tt.err, err)
		})
	}

	svc := NewServiceFn(func(context.Context, *Request[Body]) *Future[*Response[Body]] {
		return Failed[*Response[Body]](typed)
	})
	_, err := svc.Call(context.Background(), NewRequest[Body](http.MethodGet, "/", Empty())).Result()
	var target *handlerError
	require.True(t, errors.As(err, &target))
	require.Equal(t, 42, target.Code)
}

func TestServiceFnClone(t *testing.T) {
	var calls int64
	svc := NewServiceFn(func(ctx context.Context, r *Request[Body]) *Future[*Response[Body]] {
		atomic.AddInt64(&calls, 1)
		return pathEcho(ctx, r)
	})
	clone := svc.Clone()
	copied := svc

	for _, s := range []ServiceFn[Body, Body]{svc, clone, copied} {
		resp, err := s.Call(context.Background(), NewRequest[Body](http.MethodGet, "/dup", Empty())).Result()
		require.NoError(t, err)
		b, _ := readBody(resp.Body)
		assert.Equal(t, "/dup", string(b))
	}
	// Copies share the state captured by the wrapped function.
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestServiceFnDisplay(t *testing.T) {
	svc := NewServiceFn(pathEcho)
	for _, format := range []string{"%v", "%+v", "%#v", "%s"} {
		assert.Equal(t, "ServiceFn{...}", fmt.Sprintf(format, svc), format)
	}
}

func TestNewHandlerFn(t *testing.T) {
	fail := errors.New("fail")
	svc := NewHandlerFn(func(_ context.Context, r *Request[Body]) (*Response[Body], error) {
		if r.Path == "/fail" {
			return nil, fail
		}
		resp := NewResponse[Body](NewFullString(r.Method))
		resp.StatusCode = http.StatusCreated
		return resp, nil
	})

	resp, err := svc.Call(context.Background(), NewRequest[Body](http.MethodPut, "/ok", Empty())).Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b, _ := readBody(resp.Body)
	require.Equal(t, http.MethodPut, string(b))

	_, err = svc.Call(context.Background(), NewRequest[Body](http.MethodPut, "/fail", Empty())).Await(context.Background())
	require.Equal(t, fail, err)
}

func TestNewHandlerFnPanic(t *testing.T) {
	svc := NewHandlerFn(func(context.Context, *Request[Body]) (*Response[Body], error) {
		panic(&handlerError{Code: 7})
	})

	resp, err := svc.Call(context.Background(), NewRequest[Body](http.MethodGet, "/", Empty())).Await(context.Background())
	require.Nil(t, resp)
	var perr PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, &handlerError{Code: 7}, perr.Value)
}
