package servicefn

import (
	"context"

	"github.com/asecurityteam/logevent/v2"
)

type loggingService struct {
	BodyService
	Logger Logger
}

func (s *loggingService) Call(ctx context.Context, req *Request[Body]) *Future[*Response[Body]] {
	ctx = logevent.NewContext(ctx, s.Logger.Copy())
	return s.BodyService.Call(ctx, req)
}

// loggingFetcher wraps the service in a decorator that injects a logger.
type loggingFetcher struct {
	Logger  Logger
	Fetcher Fetcher
}

// Fetch calls the underlying Fetcher and adds log injection.
func (f *loggingFetcher) Fetch(ctx context.Context, name string) (BodyService, error) {
	r, err := f.Fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return &loggingService{Logger: f.Logger, BodyService: r}, nil
}
