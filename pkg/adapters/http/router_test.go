package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/sessiondb/pkg/adapters/memory"
	"github.com/aretw0/sessiondb/pkg/codec"
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBeginner struct {
	store    *memory.Store
	codec    *codec.AESGCM
	released int
	err      error
}

func newMemBeginner(t *testing.T) *memBeginner {
	t.Helper()
	c, err := codec.New(codec.Config{ActiveKey: bytes.Repeat([]byte{1}, codec.KeySize)})
	require.NoError(t, err)
	return &memBeginner{store: memory.NewStore(), codec: c}
}

func (b *memBeginner) Begin(ctx context.Context) (*session.Lifecycle, func(), error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	lc := session.New(b.store, memory.NewLocker(b.store), b.codec, session.WithTokenSecret([]byte("secret")))
	return lc, func() { b.released++ }, nil
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", session.DefaultCookieName)
	return nil
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) sessionView {
	t.Helper()
	var v sessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestRouter_SessionRoundTrip(t *testing.T) {
	b := newMemBeginner(t)
	handler := NewRouter(b)

	// 1. First visit creates a session
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	view := decodeView(t, rec)
	assert.Equal(t, "active", view.State)
	require.NotEmpty(t, view.Token)
	assert.Equal(t, 1, b.released)

	// 2. Update with the token
	req := httptest.NewRequest(http.MethodPut, "/session", strings.NewReader(`{"user":"bob"}`))
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	req.Header.Set(TokenHeader, view.Token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// 3. Data survives the request
	req = httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"user": "bob"}, decodeView(t, rec).Data)
	assert.Equal(t, []string{cookie.Value}, b.store.Keys())

	// 4. Destroy
	req = httptest.NewRequest(http.MethodDelete, "/session", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	req.Header.Set(TokenHeader, view.Token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, b.store.Keys())
	cleared := sessionCookie(t, rec)
	assert.Negative(t, cleared.MaxAge)
	assert.Equal(t, 4, b.released)
}

func TestRouter_RejectsMissingToken(t *testing.T) {
	b := newMemBeginner(t)
	handler := NewRouter(b)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodPut, "/session", strings.NewReader(`{"user":"eve"}`))
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_CloseEarly(t *testing.T) {
	b := newMemBeginner(t)
	handler := NewRouter(b)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	cookie := sessionCookie(t, rec)
	token := decodeView(t, rec).Token

	req := httptest.NewRequest(http.MethodPost, "/session/close", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	req.Header.Set(TokenHeader, token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_RequiredWithoutCookie(t *testing.T) {
	b := newMemBeginner(t)
	handler := NewRouter(b, WithRequired(true))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "destroyed", decodeView(t, rec).State)
	assert.Empty(t, b.store.Keys())
}

func TestRouter_BeginFailureIsAnonymous(t *testing.T) {
	b := newMemBeginner(t)
	b.err = errors.Join(domain.ErrConnection, errors.New("pool exhausted"))
	handler := NewRouter(b)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unstarted", decodeView(t, rec).State)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "sessiondb_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()
	handler := NewRouter(newMemBeginner(t), WithMetrics(reg))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sessiondb_test_total 1")
}

func TestCookieJar(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sessid", Value: "abc"})
	rec := httptest.NewRecorder()
	jar := NewCookieJar(rec, req)

	v, ok := jar.Get("sessid")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	_, ok = jar.Get("missing")
	assert.False(t, ok)

	jar.Clear("messages")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "messages", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
