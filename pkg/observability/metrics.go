package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Recorder records operational metrics for commands, queries and recall polling
type Recorder interface {
	RecordCommandExecution(ctx context.Context, name string, duration time.Duration, err error)
	RecordRecallAttempts(ctx context.Context, attempts int, answered bool)
	RecordError(ctx context.Context, errorType string, operation string)
}

// MetricsPublisher is the subset of the CloudWatch client used by Metrics
type MetricsPublisher interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics sends application metrics to CloudWatch
type Metrics struct {
	namespace string
	client    MetricsPublisher
	logger    *zap.Logger
}

// NewMetrics creates a new metrics instance. A nil client disables publishing.
func NewMetrics(namespace string, client MetricsPublisher, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordCommandExecution records metrics for command and query execution
func (m *Metrics) RecordCommandExecution(ctx context.Context, name string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	dimensions := []types.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(name)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}

	m.put(ctx,
		types.MetricDatum{
			MetricName: aws.String("OperationLatency"),
			Dimensions: dimensions,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(time.Now()),
		},
		types.MetricDatum{
			MetricName: aws.String("OperationCount"),
			Dimensions: dimensions,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(time.Now()),
		},
	)
}

// RecordRecallAttempts records how many polls a recall needed
func (m *Metrics) RecordRecallAttempts(ctx context.Context, attempts int, answered bool) {
	outcome := "answered"
	if !answered {
		outcome = "timed_out"
	}

	m.put(ctx, types.MetricDatum{
		MetricName: aws.String("RecallPollAttempts"),
		Dimensions: []types.Dimension{
			{Name: aws.String("Outcome"), Value: aws.String(outcome)},
		},
		Value:     aws.Float64(float64(attempts)),
		Unit:      types.StandardUnitCount,
		Timestamp: aws.Time(time.Now()),
	})
}

// RecordError records error occurrences
func (m *Metrics) RecordError(ctx context.Context, errorType string, operation string) {
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String("Errors"),
		Dimensions: []types.Dimension{
			{Name: aws.String("ErrorType"), Value: aws.String(errorType)},
			{Name: aws.String("Operation"), Value: aws.String(operation)},
		},
		Value:     aws.Float64(1),
		Unit:      types.StandardUnitCount,
		Timestamp: aws.Time(time.Now()),
	})
}

func (m *Metrics) put(ctx context.Context, data ...types.MetricDatum) {
	if m.client == nil {
		return // Skip if no client configured
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		// Log error but don't fail the operation
		m.logger.Warn("Failed to send metrics", zap.Error(err))
	}
}

// NoopRecorder discards all metrics
type NoopRecorder struct{}

func (NoopRecorder) RecordCommandExecution(context.Context, string, time.Duration, error) {}
func (NoopRecorder) RecordRecallAttempts(context.Context, int, bool)                      {}
func (NoopRecorder) RecordError(context.Context, string, string)                          {}
