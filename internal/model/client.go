package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

const (
	ContentTypeCSV  = "text/csv"
	AcceptJSONLines = "application/jsonlines; verbose=true"
)

var ErrEndpointNotConfigured = errors.New("sagemaker endpoint name is not configured")

// EndpointInvoker is the subset of the SageMaker runtime client used here.
type EndpointInvoker interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

type Client struct {
	runtime      EndpointInvoker
	endpointName string
}

// NewClient wraps runtime. An empty endpointName is accepted here and
// reported as ErrEndpointNotConfigured on the first Invoke.
func NewClient(runtime EndpointInvoker, endpointName string) *Client {
	return &Client{runtime: runtime, endpointName: endpointName}
}

func NewRuntime(cfg aws.Config) *sagemakerruntime.Client {
	return sagemakerruntime.NewFromConfig(cfg)
}

func (c *Client) EndpointName() string {
	return c.endpointName
}

type ModelInferenceError struct {
	Msg string
	Err error
}

func (e *ModelInferenceError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ModelInferenceError) Unwrap() error {
	return e.Err
}

func IsModelInferenceError(err error) bool {
	var target *ModelInferenceError
	return errors.As(err, &target)
}

// EndpointResponse is one verbose k-NN record. Labels are kept raw so they
// can be passed through untouched.
type EndpointResponse struct {
	Labels    []json.RawMessage `json:"labels"`
	Distances []float64         `json:"distances,omitempty"`
}

// Invoke sends one CSV encoded feature vector to the endpoint and parses the reply.
func (c *Client) Invoke(ctx context.Context, csvBody []byte) (*EndpointResponse, error) {
	if c.endpointName == "" {
		return nil, ErrEndpointNotConfigured
	}

	out, err := c.runtime.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(c.endpointName),
		Body:         csvBody,
		ContentType:  aws.String(ContentTypeCSV),
		Accept:       aws.String(AcceptJSONLines),
	})
	if err != nil {
		return nil, &ModelInferenceError{Msg: fmt.Sprintf("invoke endpoint %s", c.endpointName), Err: err}
	}
	return ParseResponse(out.Body)
}

// ParseResponse decodes the first JSON record of a JSON-lines body.
func ParseResponse(body []byte) (*EndpointResponse, error) {
	if !utf8.Valid(body) {
		return nil, &ModelInferenceError{Msg: "endpoint response is not valid UTF-8"}
	}
	var resp EndpointResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&resp); err != nil {
		return nil, &ModelInferenceError{Msg: "decode endpoint response", Err: err}
	}
	if resp.Labels == nil {
		return nil, &ModelInferenceError{Msg: "endpoint response has no labels"}
	}
	return &resp, nil
}
