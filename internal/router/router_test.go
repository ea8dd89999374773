package router_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/contact-relay/internal/config"
	"github.com/deppfellow/contact-relay/internal/handler"
	"github.com/deppfellow/contact-relay/internal/lib/email"
	"github.com/deppfellow/contact-relay/internal/router"
	"github.com/deppfellow/contact-relay/internal/server"
	"github.com/deppfellow/contact-relay/internal/service"
)

// MockSender is a mock implementation of email.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPingSender also implements email.Pinger.
type MockPingSender struct {
	MockSender
}

func (m *MockPingSender) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Mail.Server = "smtp.example.com"
	cfg.Mail.DefaultSenderName = "Contact Form"
	cfg.Mail.DefaultSenderEmail = "noreply@example.com"
	cfg.Mail.Recipient = "inbox@example.com"
	cfg.Auth.SecretKey = "secret"
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config, sender email.Sender) *echo.Echo {
	t.Helper()

	return newTestRouterWithLogger(t, cfg, sender, zerolog.Nop())
}

func newTestRouterWithLogger(t *testing.T, cfg *config.Config, sender email.Sender, logger zerolog.Logger) *echo.Echo {
	t.Helper()

	emailClient, err := email.NewClient(cfg, sender, &logger)
	require.NoError(t, err)

	srv := &server.Server{
		Config: cfg,
		Logger: &logger,
		Email:  emailClient,
	}

	services, err := service.NewServices(srv)
	require.NoError(t, err)

	return router.NewRouter(srv, handler.NewHandlers(srv, services))
}

func postContact(r http.Handler, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"name":"Ann","email":"ann@example.com","subject":"Pricing question","message":"How much?"}`

func TestContact_Sent(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg *email.Message) bool {
		return msg.To[0] == "inbox@example.com" &&
			msg.Subject == "Pricing question" &&
			msg.FromAddress == "noreply@example.com" &&
			strings.Contains(msg.HTML, "How much?")
	})).Return(nil).Once()

	rec := postContact(newTestRouter(t, testConfig(), sender), echo.MIMEApplicationJSON, validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message": "Message sent successfully!"}`, rec.Body.String())
	sender.AssertExpectations(t)
}

func TestContact_ValidationFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "missing message", contentType: echo.MIMEApplicationJSON, body: `{"name":"Ann","email":"ann@example.com","subject":"Hi"}`},
		{name: "empty name", contentType: echo.MIMEApplicationJSON, body: `{"name":"","email":"ann@example.com","subject":"Hi","message":"Hello"}`},
		{name: "null subject", contentType: echo.MIMEApplicationJSON, body: `{"name":"Ann","email":"ann@example.com","subject":null,"message":"Hello"}`},
		{name: "empty object", contentType: echo.MIMEApplicationJSON, body: `{}`},
		{name: "malformed json", contentType: echo.MIMEApplicationJSON, body: `{"name":`},
		{name: "json array", contentType: echo.MIMEApplicationJSON, body: `[1,2]`},
		{name: "unsupported content type", contentType: echo.MIMETextPlain, body: validBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &MockSender{}
			rec := postContact(newTestRouter(t, testConfig(), sender), tt.contentType, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.JSONEq(t, `{"error": "All fields are required!"}`, rec.Body.String())
			sender.AssertNotCalled(t, "Send")
		})
	}
}

func TestContact_DeliveryFailure(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("dial tcp 10.0.0.1:587: i/o timeout")).Once()

	rec := postContact(newTestRouter(t, testConfig(), sender), echo.MIMEApplicationJSON, validBody)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error": "Failed to send message. Please try again later."}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "i/o timeout")
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestContact_RateLimit(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	r := newTestRouter(t, testConfig(), sender)

	require.Equal(t, http.StatusOK, postContact(r, echo.MIMEApplicationJSON, validBody).Code)
	require.Equal(t, http.StatusOK, postContact(r, echo.MIMEApplicationJSON, validBody).Code)

	rec := postContact(r, echo.MIMEApplicationJSON, validBody)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.JSONEq(t, `{"error": "Too many requests. Please try again later."}`, rec.Body.String())
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestContact_RateLimitIgnoresForwardingHeaders(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	r := newTestRouter(t, testConfig(), sender)

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXForwardedFor, spoofed)
		req.Header.Set(echo.HeaderXRealIP, spoofed)
		req.RemoteAddr = "192.0.2.10:40000"

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestContact_RateLimitBehindTrustedProxy(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.TrustedProxies = []string{"10.0.0.0/8"}

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	r := newTestRouter(t, cfg, sender)

	post := func(remoteAddr, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
		req.RemoteAddr = remoteAddr

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	// Distinct clients behind the proxy keep separate budgets.
	for _, client := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		require.Equal(t, http.StatusOK, post("10.0.0.5:8000", client))
	}

	// The same client is capped no matter which proxy hop it arrives through.
	require.Equal(t, http.StatusOK, post("10.0.0.6:8000", "198.51.100.1"))
	require.Equal(t, http.StatusTooManyRequests, post("10.0.0.7:8000", "198.51.100.1"))

	// An untrusted peer cannot pick its identity through the header.
	require.Equal(t, http.StatusOK, post("192.0.2.50:8000", "198.51.100.9"))
	require.Equal(t, http.StatusOK, post("192.0.2.50:8000", "198.51.100.10"))
	require.Equal(t, http.StatusTooManyRequests, post("192.0.2.50:8000", "198.51.100.11"))
}

func TestContact_DeliveryFailureLogsOneError(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("421 service not available")).Once()

	var logs bytes.Buffer
	r := newTestRouterWithLogger(t, testConfig(), sender, zerolog.New(&logs))

	rec := postContact(r, echo.MIMEApplicationJSON, validBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	require.Equal(t, 1, strings.Count(logs.String(), `"level":"error"`))
	require.Contains(t, logs.String(), "421 service not available")
}

func TestGlobalRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RateLimit.ContactLimit = 100

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	r := newTestRouter(t, cfg, sender)

	for i := 0; i < cfg.RateLimit.GlobalLimit; i++ {
		require.Equal(t, http.StatusOK, postContact(r, echo.MIMEApplicationJSON, validBody).Code)
	}

	rec := postContact(r, echo.MIMEApplicationJSON, validBody)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	t.Run("system routes are exempt", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestContact_Preflight(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, testConfig(), &MockSender{})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
		req.Header.Set(echo.HeaderOrigin, "https://site.example")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, testConfig(), &MockSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error": "Route not found"}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	t.Parallel()

	t.Run("healthy relay", func(t *testing.T) {
		t.Parallel()

		sender := &MockPingSender{}
		sender.On("Ping", mock.Anything).Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		newTestRouter(t, testConfig(), sender).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"healthy"`)
		sender.AssertExpectations(t)
	})

	t.Run("relay check result is reused", func(t *testing.T) {
		t.Parallel()

		sender := &MockPingSender{}
		sender.On("Ping", mock.Anything).Return(nil)

		r := newTestRouter(t, testConfig(), sender)
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}

		sender.AssertNumberOfCalls(t, "Ping", 1)
	})

	t.Run("unreachable relay", func(t *testing.T) {
		t.Parallel()

		sender := &MockPingSender{}
		sender.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		newTestRouter(t, testConfig(), sender).ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
		require.Contains(t, rec.Body.String(), "connection refused")
	})
}
