package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hippo/application/services"
	domainconfig "hippo/domain/config"
	"hippo/infrastructure/config"
	"hippo/infrastructure/di"
	"hippo/infrastructure/messaging"
	"hippo/infrastructure/persistence/memory"
	"hippo/interfaces/http/rest"
	"hippo/pkg/auth"
	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/observability"
	"hippo/tests/fakes"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	handler   http.Handler
	platform  *fakes.AssistantPlatform
	collector *observability.Collector
}

type serverOptions struct {
	validator *auth.JWTValidator
	limiter   auth.RateLimiter
	poll      services.PollPolicy
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	logger := zap.NewNop()
	platform := fakes.NewAssistantPlatform("You noted to buy milk.")
	accounts := memory.NewAccountStore()
	notes := memory.NewNoteStore()
	publisher := messaging.NewLogPublisher(logger)
	collector := observability.NewCollector("hippo_test")
	domainCfg := domainconfig.DefaultDomainConfig()

	if opts.poll.MaxAttempts == 0 {
		opts.poll = services.PollPolicy{MaxAttempts: 5, Delay: time.Millisecond}
	}
	cfg := &config.Config{RecallMaxAttempts: opts.poll.MaxAttempts, RecallPollDelay: opts.poll.Delay}

	commandBus, err := di.ProvideCommandBus(accounts, notes, platform, publisher, domainCfg, collector, logger)
	require.NoError(t, err)
	recall := di.ProvideRecallService(cfg, platform, publisher, collector, logger)
	queryBus, err := di.ProvideQueryBus(accounts, notes, recall, domainCfg, collector, logger)
	require.NoError(t, err)

	router := rest.NewRouter(
		commandBus,
		queryBus,
		notes,
		opts.validator,
		opts.limiter,
		collector,
		pkgerrors.NewErrorHandler(logger),
		rest.Options{EnableCORS: true, RateLimitPerMinute: 60},
		logger,
	)

	return &testServer{handler: router.Setup(), platform: platform, collector: collector}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var userBody = map[string]string{"name": "Ada", "email": "ada@example.com", "clerkId": "user_ada"}

func TestEnsureAccount_CreatedThenExisting(t *testing.T) {
	// Arrange
	srv := newTestServer(t, serverOptions{})

	// Act
	first := srv.do(t, http.MethodPost, "/user", userBody)
	second := srv.do(t, http.MethodPost, "/user", userBody)

	// Assert
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())

	var a, b map[string]interface{}
	decodeData(t, first, &a)
	decodeData(t, second, &b)
	assert.Equal(t, a["id"], b["id"])
	assert.Equal(t, "user_ada", a["clerk_id"])
	assert.True(t, strings.HasPrefix(a["assistant_id"].(string), "asst_"))
	assert.NotEmpty(t, a["vector_store_id"])
	assert.Len(t, srv.platform.Personas, 1, "persona is provisioned once")
}

func TestEnsureAccount_Validation(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	rec := srv.do(t, http.MethodPost, "/user", map[string]string{"name": "Ada"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INVALID_REQUEST", body.Code)
	assert.Equal(t, "Missing required fields: email, clerkId", body.Error)
}

func TestEnsureAccount_MalformedBody(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeError(t, rec).Error)
}

func TestNotes_CommitAndList(t *testing.T) {
	// Arrange
	srv := newTestServer(t, serverOptions{})
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/user", userBody).Code)

	// Act
	first := srv.do(t, http.MethodPost, "/note", map[string]string{"content": "Buy milk", "clerkId": "user_ada"})
	time.Sleep(2 * time.Millisecond)
	second := srv.do(t, http.MethodPost, "/api/v1/notes", map[string]string{"content": "Call mom", "clerkId": "user_ada"})
	listed := srv.do(t, http.MethodGet, "/note?clerkId=user_ada", nil)

	// Assert
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	var created map[string]interface{}
	decodeData(t, first, &created)
	assert.Equal(t, "Buy milk", created["content"])
	assert.NotEmpty(t, created["user_id"])

	require.Equal(t, http.StatusOK, listed.Code)
	var notes []map[string]interface{}
	decodeData(t, listed, &notes)
	require.Len(t, notes, 2)
	assert.Equal(t, "Call mom", notes[0]["content"], "newest first")
	assert.Equal(t, "Buy milk", notes[1]["content"])

	total := 0
	for _, docs := range srv.platform.Stores {
		total += len(docs)
	}
	assert.Equal(t, 2, total, "each note is uploaded to the store")
}

func TestNotes_ErrorCases(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	t.Run("unknown user", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/note", map[string]string{"content": "x", "clerkId": "nobody"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decodeError(t, rec).Error)
	})

	t.Run("blank content", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/note", map[string]string{"content": "  ", "clerkId": "user_ada"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list without clerk id", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/note", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing required field: clerkId", decodeError(t, rec).Error)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/user", userBody).Code)
		rec := srv.do(t, http.MethodGet, "/api/v1/notes?clerkId=user_ada", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
	})
}

func TestAsk_ImmediateAnswer(t *testing.T) {
	// Arrange
	srv := newTestServer(t, serverOptions{poll: services.PollPolicy{MaxAttempts: 5, Delay: time.Hour}})
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/user", userBody).Code)

	// Act
	start := time.Now()
	rec := srv.do(t, http.MethodPost, "/ask", map[string]string{"question": "What should I buy?", "clerkId": "user_ada"})

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Less(t, time.Since(start), time.Minute, "a first-poll match never waits")
	var answer string
	decodeData(t, rec, &answer)
	assert.Equal(t, "You noted to buy milk.", answer)
	assert.Equal(t, []string{"What should I buy?"}, srv.platform.Questions)
}

func TestAsk_Timeout(t *testing.T) {
	srv := newTestServer(t, serverOptions{poll: services.PollPolicy{MaxAttempts: 3, Delay: time.Millisecond}})
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/user", userBody).Code)
	srv.platform.AnswerAfter = 0

	rec := srv.do(t, http.MethodPost, "/api/v1/recall", map[string]string{"question": "Anything?", "clerkId": "user_ada"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "TIMEOUT", body.Code)
	assert.Equal(t, services.NoAnswerMessage, body.Error)
	assert.Equal(t, 3, srv.platform.Polls)
}

func TestAuthentication(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SigningMethod: "HS256", SecretKey: "s3cret"})
	require.NoError(t, err)
	srv := newTestServer(t, serverOptions{validator: validator})

	sign := func(sub string) string {
		claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		return "Bearer " + token
	}

	t.Run("missing token", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/user", userBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
	})

	t.Run("subject mismatch", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/user", userBody, "Authorization", sign("user_mallory"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("matching subject", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/user", userBody, "Authorization", sign("user_ada"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("health stays public", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }
func (denyAll) Reset(context.Context, string) error         { return nil }

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, serverOptions{limiter: denyAll{}})

	rec := srv.do(t, http.MethodPost, "/user", userBody)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMIT", decodeError(t, rec).Code)
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	srv.do(t, http.MethodPost, "/user", userBody)

	ready := srv.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.JSONEq(t, `{"status":"ready"}`, ready.Body.String())

	metrics := srv.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "hippo_test_http_requests_total")

	missing := srv.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
