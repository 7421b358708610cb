package main

import (
	"context"
	"log"
	"time"

	"hippo/infrastructure/config"
	"hippo/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"
)

var (
	// chiLambda wraps the chi router for API Gateway v2 events
	chiLambda *chiadapter.ChiLambdaV2

	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

// init builds the container once per execution environment
func init() {
	coldStartTime = time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The pool lives as long as the execution environment, so the cleanup
	// func is never called
	container, _, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	chiLambda = chiadapter.NewV2(container.Router())

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(coldStartTime)),
		zap.String("function", cfg.LambdaFunctionName),
	)
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := chiLambda.ProxyWithContextV2(ctx, req)
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}

	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}

	fields := []zap.Field{
		zap.String("method", req.RequestContext.HTTP.Method),
		zap.String("path", req.RequestContext.HTTP.Path),
		zap.String("requestID", req.RequestContext.RequestID),
		zap.Int("status", resp.StatusCode),
	}
	if err != nil {
		container.Logger.Error("Lambda proxy failed", append(fields, zap.Error(err))...)
	} else if resp.StatusCode >= 500 {
		container.Logger.Error("Lambda error response", fields...)
	} else {
		container.Logger.Debug("Lambda response", fields...)
	}

	return resp, err
}

func main() {
	lambda.Start(Handler)
}
