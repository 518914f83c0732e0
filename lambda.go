package servicefn

import (
	"context"
	"encoding/base64"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// NewLambdaHandler exposes the named Service as an AWS Lambda handler that
// accepts API Gateway proxy events. When the event carries a greedy "proxy"
// path parameter the Service sees that path, matching what the HTTP router
// passes; otherwise it sees the full event path. Service errors are returned
// to the Lambda runtime unchanged. Response bodies that are not valid UTF-8 are base64
// encoded.
func NewLambdaHandler(name string, s BodyService) lambda.Handler {
	return lambda.NewHandler(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := requestFromEvent(event)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		resp, err := await(ctx, name, s.Call(ctx, req))
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		return responseToEvent(resp)
	})
}

// proxyPathParam names the API Gateway {proxy+} resource parameter.
const proxyPathParam = "proxy"

func requestFromEvent(event events.APIGatewayProxyRequest) (*Request[Body], error) {
	b := []byte(event.Body)
	if event.IsBase64Encoded {
		var err error
		b, err = base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, err
		}
	}
	path := event.Path
	if proxy, ok := event.PathParameters[proxyPathParam]; ok {
		path = proxy
	}
	req := NewRequest[Body](event.HTTPMethod, path, NewFull(b))
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	for k, vs := range event.MultiValueHeaders {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range event.QueryStringParameters {
		req.Query.Set(k, v)
	}
	for k, vs := range event.MultiValueQueryStringParameters {
		req.Query[k] = append([]string(nil), vs...)
	}
	return req, nil
}

func responseToEvent(resp *Response[Body]) (events.APIGatewayProxyResponse, error) {
	b, err := readBody(resp.Body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	out := events.APIGatewayProxyResponse{
		StatusCode:        status,
		MultiValueHeaders: map[string][]string(resp.Header),
	}
	if utf8.Valid(b) {
		out.Body = string(b)
		return out, nil
	}
	out.Body = base64.StdEncoding.EncodeToString(b)
	out.IsBase64Encoded = true
	return out, nil
}

// LambdaService adapts an AWS Lambda SDK handler into a ServiceFn. The
// request body is passed to the handler as its payload and the handler's
// output becomes the JSON response body. The call runs on its own
// goroutine.
func LambdaService(h lambda.Handler) ServiceFn[Body, Body] {
	return NewHandlerFn(func(ctx context.Context, req *Request[Body]) (*Response[Body], error) {
		payload, err := readBody(req.Body)
		if err != nil {
			return nil, err
		}
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		out, err := h.Invoke(ctx, payload)
		if err != nil {
			return nil, err
		}
		resp := NewResponse[Body](NewFull(out))
		resp.Header.Set("Content-Type", "application/json")
		return resp, nil
	})
}
