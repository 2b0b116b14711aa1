package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// HandleRequest is the Lambda entry point for API Gateway proxy events.
// Failures other than bad input are returned as the invocation error so the
// platform applies its default error response.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	r, err := h.serve(ctx, req.QueryStringParameters)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: r.status,
		Headers:    map[string]string{"Content-Type": r.contentType},
		Body:       r.body,
	}, nil
}
