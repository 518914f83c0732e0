package main

// This example demonstrates how a Registry may be used to create an instance
// of the runtime from plain functions and existing Lambda SDK handlers.

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/asecurityteam/servicefn"
	"github.com/asecurityteam/settings/v2"
	"github.com/aws/aws-lambda-go/lambda"
)

// echo responds with the path it was called with.
// This is can be called like:
//
//	curl localhost:8080/echo/foo
func echo(ctx context.Context, r *servicefn.Request[servicefn.Body]) *servicefn.Future[*servicefn.Response[servicefn.Body]] {
	if r.Body != nil {
		_ = r.Body.Close()
	}
	return servicefn.Ready(servicefn.NewResponse[servicefn.Body](servicefn.NewFullString(r.Path)))
}

// hello is lifted straight from the aws-lambda-go README.md file.
// This is can be called like:
//
//	curl --request POST localhost:8080/hello
func hello() (string, error) {
	return "Hello ƛ!", nil
}

type greetInput struct {
	Name string `json:"name"`
}
type greetOutput struct {
	Greeting string `json:"greeting"`
}

// greet shows a synchronous handler working with structured input.
// This is can be called like:
//
//	curl --request POST --data '{"name": "me"}' localhost:8080/greet
func greet(ctx context.Context, r *servicefn.Request[servicefn.Body]) (*servicefn.Response[servicefn.Body], error) {
	defer r.Body.Close()
	var in greetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if in.Name == "" {
		in.Name = "ƛ"
	}
	b, err := json.Marshal(greetOutput{Greeting: fmt.Sprintf("Hello %s!", in.Name)})
	if err != nil {
		return nil, err
	}
	resp := servicefn.NewResponse[servicefn.Body](servicefn.NewFull(b))
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func main() {
	// The registered names are arbitrary and user defined. They are
	// accessed using the first segment of the URL path.
	registry := servicefn.NewRegistry[servicefn.Body, servicefn.Body]()
	registry.Register("echo", servicefn.NewServiceFn(echo))
	registry.Register("hello", servicefn.LambdaService(lambda.NewHandler(hello)))
	registry.Register("greet", servicefn.NewHandlerFn(greet))

	// Handle the -h flag and print settings.
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.Usage = func() {}
	err := fs.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		fmt.Println(servicefn.HelpStatic())
		return
	}

	ctx := context.Background()
	source, err := settings.NewEnvSource(os.Environ())
	if err != nil {
		panic(err.Error())
	}
	if err := servicefn.Start(ctx, source, registry); err != nil {
		panic(err.Error())
	}
}
