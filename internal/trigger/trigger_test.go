package trigger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheuscscp/splitynab/config"
	"github.com/matheuscscp/splitynab/internal/trigger"
	"github.com/matheuscscp/splitynab/services/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	topic string
	data  []byte
	err   error
}

func (f *fakeEvents) Publish(ctx context.Context, topicID string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.topic, f.data = topicID, data
	return "server-id", nil
}

func (f *fakeEvents) PublishJSON(ctx context.Context, topicID string, v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return f.Publish(ctx, topicID, b)
}

func (f *fakeEvents) Close() {}

const secret = "jwt-secret"

var conf = &config.Trigger{SyncTopicID: "sync", JWTSecret: secret}

func serve(t *testing.T, ev events.Service, method, authn, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if authn != "" {
		req.Header.Set("Authorization", authn)
	}
	rec := httptest.NewRecorder()
	trigger.NewHandler(conf, ev).ServeHTTP(rec, req)
	return rec
}

func validToken(t *testing.T) string {
	t.Helper()
	token, err := trigger.IssueToken(secret, "matheus", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestPublishesSyncRequest(t *testing.T) {
	ev := &fakeEvents{}
	rec := serve(t, ev, http.MethodPost, validToken(t), `{"dated_after":"2023-11-29","dry_run":true}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message_id":"server-id"}`, rec.Body.String())
	assert.Equal(t, "sync", ev.topic)
	assert.JSONEq(t, `{"dated_after":"2023-11-29","dry_run":true}`, string(ev.data))
}

func TestEmptyBody(t *testing.T) {
	ev := &fakeEvents{}
	rec := serve(t, ev, http.MethodPost, validToken(t), "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{}`, string(ev.data))
}

func TestRejectedRequests(t *testing.T) {
	expired, err := trigger.IssueToken(secret, "matheus", -time.Hour)
	require.NoError(t, err)
	wrongSecret, err := trigger.IssueToken("other", "matheus", time.Hour)
	require.NoError(t, err)

	for _, tt := range []struct {
		name   string
		method string
		authn  string
		body   string
		code   int
	}{
		{name: "get", method: http.MethodGet, code: http.StatusMethodNotAllowed},
		{name: "no token", method: http.MethodPost, code: http.StatusUnauthorized},
		{name: "basic realm", method: http.MethodPost, authn: "Basic abc", code: http.StatusUnauthorized},
		{name: "expired", method: http.MethodPost, authn: "Bearer " + expired, code: http.StatusUnauthorized},
		{name: "wrong secret", method: http.MethodPost, authn: "Bearer " + wrongSecret, code: http.StatusUnauthorized},
		{name: "bad json", method: http.MethodPost, authn: validToken(t), body: "{", code: http.StatusBadRequest},
		{name: "bad date", method: http.MethodPost, authn: validToken(t), body: `{"dated_before":"yesterday"}`, code: http.StatusBadRequest},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ev := &fakeEvents{}
			rec := serve(t, ev, tt.method, tt.authn, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Empty(t, ev.data)
		})
	}
}

func TestEventsNotConfigured(t *testing.T) {
	rec := serve(t, &fakeEvents{err: events.ErrServiceNotConfigured}, http.MethodPost, validToken(t), "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunConfigErrorAnswers500(t *testing.T) {
	t.Setenv(config.ConfFileEnv, filepath.Join(t.TempDir(), "missing.yml"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	trigger.Run(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error loading config")
}
