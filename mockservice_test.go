package servicefn

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestMockingFetcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The real service must never be called.
	svc := NewMockService(ctrl)
	fetcher := NewMockFetcher(ctrl)
	mFetcher := &MockingFetcher{
		Fetcher: fetcher,
	}

	fetcher.EXPECT().Fetch(gomock.Any(), "test").Return(svc, nil)

	msvc, err := mFetcher.Fetch(context.Background(), "test")
	require.NoError(t, err)

	resp, err := msvc.Call(context.Background(), NewRequest[Body](http.MethodPost, "/", NewFullString("{}"))).Result()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := readBody(resp.Body)
	require.Empty(t, b)
}

func TestMockingFetcherError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := NewMockFetcher(ctrl)
	mFetcher := &MockingFetcher{
		Fetcher: fetcher,
	}

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("fail"))

	_, err := mFetcher.Fetch(context.Background(), "test")
	require.Error(t, err)
}

func TestMockingFetcherNotFound(t *testing.T) {
	mFetcher := &MockingFetcher{Fetcher: NewRegistry[Body, Body]()}
	_, err := mFetcher.Fetch(context.Background(), "missing")
	require.Equal(t, NotFoundError{ID: "missing"}, err)
}
