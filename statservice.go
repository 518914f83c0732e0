package servicefn

import (
	"context"

	"github.com/rs/xstats"
)

type statService struct {
	BodyService
	Stat Stat
}

func (s *statService) Call(ctx context.Context, req *Request[Body]) *Future[*Response[Body]] {
	ctx = xstats.NewContext(ctx, s.Stat)
	return s.BodyService.Call(ctx, req)
}

// statFetcher wraps the service in a decorator that injects a stat client.
type statFetcher struct {
	Stat    Stat
	Fetcher Fetcher
}

// Fetch calls the underlying Fetcher and adds stat client injection.
func (f *statFetcher) Fetch(ctx context.Context, name string) (BodyService, error) {
	r, err := f.Fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return &statService{Stat: f.Stat, BodyService: r}, nil
}
