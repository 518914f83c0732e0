package servicefn

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/asecurityteam/logevent/v2"
	"github.com/asecurityteam/runhttp"
	"github.com/asecurityteam/settings/v2"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/xstats"
	"github.com/spf13/cast"
)

const (
	// BuildModeHTTP is the standard mode of running an HTTP server
	// that exposes every registered service.
	BuildModeHTTP = "http"
	// BuildModeHTTPMock runs the HTTP server but with mocked versions
	// of the services loaded.
	BuildModeHTTPMock = "http_mock"
	// BuildModeLambda runs the official lambda server using the lambda
	// SDK. Using this mode requires the TargetService value to be set.
	BuildModeLambda = "lambda"
	// BuildModeLambdaMock runs the official lambda server using the lambda
	// SDK but with a mocked version of the loaded service. Using this mode
	// requires the TargetService value to be set.
	BuildModeLambdaMock = "lambda_mock"

	settingsPrefix = "servicefn"
)

var (
	// BuildMode determines the behavior of the Start method. There
	// are several ways to use this value. The suggested way is through
	// build variables by adding `-ldflags "-X github.com/asecurityteam/servicefn.BuildMode=<value>"`
	// to `go build` or `go run` commands. The settings source given to Start
	// may also override it with a SERVICEFN_MODE value.
	//
	// Alternatively, the StartMode() method may be used if you prefer to pass in
	// parameters via code rather than toggling the global setting.
	BuildMode = BuildModeHTTP
	// TargetService is used when building in a native lambda mode to select a
	// single service to run. This value can be set in all the same ways as the
	// BuildMode value, including SERVICEFN_TARGET.
	TargetService = ""
)

// Start is the main entrypoint for a binary built around a Fetcher. By
// default, this method will start the HTTP runtime and will invoke services
// loaded using the given Fetcher.
func Start(ctx context.Context, s settings.Source, f Fetcher) error {
	mode, target, err := modeFromSource(ctx, s, BuildMode, TargetService)
	if err != nil {
		return err
	}
	return StartMode(ctx, s, f, mode, target)
}

// modeFromSource applies any mode or target found in the settings source
// over the given defaults.
func modeFromSource(ctx context.Context, s settings.Source, mode string, target string) (string, string, error) {
	if v, ok := s.Get(ctx, settingsPrefix, "mode"); ok {
		m, err := cast.ToStringE(v)
		if err != nil {
			return "", "", fmt.Errorf("invalid %s mode: %w", settingsPrefix, err)
		}
		mode = m
	}
	if v, ok := s.Get(ctx, settingsPrefix, "target"); ok {
		t, err := cast.ToStringE(v)
		if err != nil {
			return "", "", fmt.Errorf("invalid %s target: %w", settingsPrefix, err)
		}
		target = t
	}
	return mode, target, nil
}

// StartMode works just like Start but allows for explicit passing of the build
// mode and target service.
func StartMode(ctx context.Context, s settings.Source, f Fetcher, mode string, target string) error {
	switch {
	case strings.EqualFold(mode, BuildModeHTTP):
		return StartHTTP(ctx, s, f)
	case strings.EqualFold(mode, BuildModeHTTPMock):
		return StartHTTPMock(ctx, s, f)
	case strings.EqualFold(mode, BuildModeLambda):
		return StartLambda(ctx, f, target)
	case strings.EqualFold(mode, BuildModeLambdaMock):
		return StartLambdaMock(ctx, f, target)
	default:
		return fmt.Errorf("unknown build mode %s", mode)
	}
}

// NewHTTP generates an HTTP runtime bound to the given Fetcher. Server,
// logger, and stats settings are read from the source under the SERVICEFN
// prefix.
func NewHTTP(ctx context.Context, s settings.Source, f Fetcher) (*runhttp.Runtime, error) {
	conf := &RouterConfig{
		Fetcher: f,
	}
	router := NewRouter(conf)
	rtC := &runhttp.Component{Handler: router}
	rt := new(runhttp.Runtime)
	err := settings.NewComponent(
		ctx,
		&settings.PrefixSource{Source: s, Prefix: []string{settingsPrefix}},
		rtC,
		rt,
	)
	return rt, err
}

// StartHTTP runs the HTTP API.
func StartHTTP(ctx context.Context, s settings.Source, f Fetcher) error {
	rt, err := NewHTTP(ctx, s, f)
	if err != nil {
		return err
	}
	return rt.Run()
}

// StartHTTPMock runs the HTTP API with mocked out services.
func StartHTTPMock(ctx context.Context, s settings.Source, f Fetcher) error {
	return StartHTTP(ctx, s, &MockingFetcher{Fetcher: f})
}

// newLambdaHandler resolves the target service and decorates it with the
// logger and stat client that the HTTP runtime would otherwise provide.
func newLambdaHandler(ctx context.Context, f Fetcher, target string) (lambda.Handler, error) {
	if target == "" {
		return nil, fmt.Errorf("a target service is required in %s mode", BuildModeLambda)
	}
	f = &loggingFetcher{
		Logger:  logevent.New(logevent.Config{Output: os.Stdout}),
		Fetcher: f,
	}
	f = &statFetcher{
		Stat:    xstats.FromContext(ctx),
		Fetcher: f,
	}
	svc, err := f.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return NewLambdaHandler(target, svc), nil
}

// StartLambda runs the target service using the official lambda SDK. This
// only returns if the target cannot be loaded.
func StartLambda(ctx context.Context, f Fetcher, target string) error {
	h, err := newLambdaHandler(ctx, f, target)
	if err != nil {
		return err
	}
	lambda.Start(h)
	return nil
}

// StartLambdaMock runs a mocked version of the target service using the
// official lambda SDK.
func StartLambdaMock(ctx context.Context, f Fetcher, target string) error {
	return StartLambda(ctx, &MockingFetcher{Fetcher: f}, target)
}
