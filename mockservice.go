package servicefn

import (
	"context"
)

// MockingFetcher sources services from another Fetcher and replaces them
// with stand-ins that never run the original code. This is useful for
// standing up a runtime that only needs to honor the routing contract.
type MockingFetcher struct {
	Fetcher Fetcher
}

// Fetch calls the underlying Fetcher and mocks the results. Lookup failures
// from the underlying Fetcher are returned as-is.
func (f *MockingFetcher) Fetch(ctx context.Context, name string) (BodyService, error) {
	if _, err := f.Fetcher.Fetch(ctx, name); err != nil {
		return nil, err
	}
	return mockService(), nil
}

// mockService answers every call with an empty 200.
func mockService() BodyService {
	return NewServiceFn(func(_ context.Context, req *Request[Body]) *Future[*Response[Body]] {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return Ready(NewResponse[Body](Empty()))
	})
}
