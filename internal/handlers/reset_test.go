package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflection-backend/internal/otp"
	"reflection-backend/internal/ratelimit"
	"reflection-backend/internal/reset"
)

type memoryStore struct {
	records map[string]otp.Record
}

func (s *memoryStore) Put(ctx context.Context, email string, rec otp.Record) error {
	s.records[email] = rec
	return nil
}

func (s *memoryStore) Get(ctx context.Context, email string) (otp.Record, error) {
	rec, ok := s.records[email]
	if !ok {
		return otp.Record{}, otp.ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) Delete(ctx context.Context, email string) error {
	delete(s.records, email)
	return nil
}

func (s *memoryStore) IncrementAttempts(ctx context.Context, email string) error {
	rec, ok := s.records[email]
	if !ok {
		return otp.ErrNotFound
	}
	rec.Attempts++
	s.records[email] = rec
	return nil
}

type dropMailer struct{}

func (dropMailer) Send(to string, subject string, body string) error { return nil }

type mapCredentials struct {
	passwords map[string]string
}

func (c *mapCredentials) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := c.passwords[email]
	return ok, nil
}

func (c *mapCredentials) SetPassword(ctx context.Context, email string, newPassword string) error {
	c.passwords[email] = newPassword
	return nil
}

func newResetRouter(t *testing.T, rateLimit int) (*gin.Engine, *memoryStore, *mapCredentials) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &memoryStore{records: map[string]otp.Record{}}
	creds := &mapCredentials{passwords: map[string]string{"user@example.com": "oldhash"}}
	service := reset.NewService(store, dropMailer{}, creds, 10*time.Minute, 5)
	limiter := ratelimit.NewLimiter(client, "reset", rateLimit, time.Minute)

	router := gin.New()
	handler := NewResetHandler(service, limiter)
	router.POST("/api/auth/forgot-password/start", handler.Start)
	router.POST("/api/auth/forgot-password/verify", handler.Verify)
	return router, store, creds
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestStartEndpointIssuesCode(t *testing.T) {
	router, store, _ := newResetRouter(t, 3)

	recorder := postJSON(router, "/api/auth/forgot-password/start", gin.H{"email": "User@Example.com"})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, store.records, "user@example.com")

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "otp", "the code must never be returned to the client")
}

func TestStartEndpointRejectsBadEmail(t *testing.T) {
	router, store, _ := newResetRouter(t, 3)

	recorder := postJSON(router, "/api/auth/forgot-password/start", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, store.records)
}

func TestStartEndpointRateLimited(t *testing.T) {
	router, _, _ := newResetRouter(t, 2)

	for i := 0; i < 2; i++ {
		recorder := postJSON(router, "/api/auth/forgot-password/start", gin.H{"email": "user@example.com"})
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := postJSON(router, "/api/auth/forgot-password/start", gin.H{"email": "user@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
}

func TestVerifyEndpointFlow(t *testing.T) {
	router, store, creds := newResetRouter(t, 5)

	recorder := postJSON(router, "/api/auth/forgot-password/start", gin.H{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, recorder.Code)
	code := store.records["user@example.com"].Code

	recorder = postJSON(router, "/api/auth/forgot-password/verify", gin.H{
		"email": "user@example.com", "otp": code, "newPassword": "longenough1",
	})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "longenough1", creds.passwords["user@example.com"])

	// Replay of a consumed code.
	recorder = postJSON(router, "/api/auth/forgot-password/verify", gin.H{
		"email": "user@example.com", "otp": code, "newPassword": "longenough1",
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "not-found", body["code"])
}

func TestVerifyEndpointWrongCode(t *testing.T) {
	router, store, _ := newResetRouter(t, 5)

	recorder := postJSON(router, "/api/auth/forgot-password/start", gin.H{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, recorder.Code)

	wrong := "000000"
	if store.records["user@example.com"].Code == wrong {
		wrong = "000001"
	}
	recorder = postJSON(router, "/api/auth/forgot-password/verify", gin.H{
		"email": "user@example.com", "otp": wrong, "newPassword": "longenough1",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, store.records, "user@example.com", "record survives a wrong guess")
}

func TestVerifyEndpointExpiredCode(t *testing.T) {
	router, store, _ := newResetRouter(t, 5)

	recorder := postJSON(router, "/api/auth/forgot-password/start", gin.H{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, recorder.Code)

	rec := store.records["user@example.com"]
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	store.records["user@example.com"] = rec

	recorder = postJSON(router, "/api/auth/forgot-password/verify", gin.H{
		"email": "user@example.com", "otp": rec.Code, "newPassword": "longenough1",
	})
	assert.Equal(t, http.StatusGone, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "deadline-exceeded", body["code"])
	assert.NotContains(t, store.records, "user@example.com")
}

func TestVerifyEndpointShortPassword(t *testing.T) {
	router, _, creds := newResetRouter(t, 5)

	recorder := postJSON(router, "/api/auth/forgot-password/verify", gin.H{
		"email": "user@example.com", "otp": "123456", "newPassword": "short",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "oldhash", creds.passwords["user@example.com"])
}
