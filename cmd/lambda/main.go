package main

import (
	"context"
	"log"

	"reinocalc/api"
	"reinocalc/cmd"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

// sessions live in the handler's memory, so the engine is built once per
// container and reused across invocations
type lambdaHandler struct {
	apiHandler *api.ApiHandler
	ginLambda  *ginadapter.GinLambda
}

func (m lambdaHandler) Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	m.apiHandler.Log.Debugw("lambda request", "method", req.HTTPMethod, "path", req.Path, "requestId", req.RequestContext.RequestID)
	return m.ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	apiHandler, _, err := cmd.InitializeDependencies(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	handler := lambdaHandler{
		apiHandler: apiHandler,
		ginLambda:  ginadapter.New(apiHandler.InitializeRouterEngine()),
	}
	lambda.Start(handler.Handler)
}
