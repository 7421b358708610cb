package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestMetrics_RecordCommandExecution(t *testing.T) {
	client := &fakeCloudWatch{}
	m := NewMetrics("Hippo", client, zap.NewNop())

	m.RecordCommandExecution(context.Background(), "CommitNote", 120*time.Millisecond, errors.New("boom"))

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "Hippo", *in.Namespace)
	require.Len(t, in.MetricData, 2)
	assert.Equal(t, "OperationLatency", *in.MetricData[0].MetricName)
	assert.Equal(t, float64(120), *in.MetricData[0].Value)
	assert.Equal(t, "failure", *in.MetricData[0].Dimensions[1].Value)
}

func TestMetrics_NilClientIsNoop(t *testing.T) {
	m := NewMetrics("Hippo", nil, zap.NewNop())

	assert.NotPanics(t, func() {
		m.RecordRecallAttempts(context.Background(), 3, true)
		m.RecordError(context.Background(), "UPSTREAM", "recall")
	})
}

func TestMetrics_PublishFailureIsSwallowed(t *testing.T) {
	client := &fakeCloudWatch{err: errors.New("throttled")}
	m := NewMetrics("Hippo", client, zap.NewNop())

	assert.NotPanics(t, func() {
		m.RecordError(context.Background(), "TIMEOUT", "recall")
	})
	assert.Len(t, client.inputs, 1)
}

func TestCollector_RecordsAndExposes(t *testing.T) {
	c := NewCollector("hippo")

	c.RecordCommandExecution(context.Background(), "EnsureAccount", time.Second, nil)
	c.RecordCommandExecution(context.Background(), "EnsureAccount", time.Second, errors.New("x"))
	c.RecordRecallAttempts(context.Background(), 5, false)
	c.RecordError(context.Background(), "UPSTREAM", "commitNote")
	c.RecordHTTPRequest(http.MethodPost, "/note", http.StatusCreated, 10*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.Operations.WithLabelValues("EnsureAccount", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.Errors.WithLabelValues("UPSTREAM", "commitNote")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.HTTPRequests.WithLabelValues("POST", "/note", "201")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hippo_recall_poll_attempts")
}

func TestCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector("hippo")
		NewCollector("hippo")
	})
}

func TestTracer_DisabledRunsFunction(t *testing.T) {
	tracer := NewTracer("hippo", false)
	called := false

	err := tracer.TraceFunction(context.Background(), "openai.createThread", func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, tracer.Enabled())
}

func TestTracer_EnabledWithoutSegmentPassesErrorThrough(t *testing.T) {
	tracer := NewTracer("hippo", true)
	want := errors.New("upstream")

	err := tracer.TraceFunction(context.Background(), "openai.listMessages", func(context.Context) error {
		return want
	})

	assert.ErrorIs(t, err, want)
}
