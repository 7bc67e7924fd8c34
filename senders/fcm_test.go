package senders_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib/errs"
	"github.com/fiffu/pushrelay/senders"
)

type staticCreds struct {
	token string
	err   error
}

func (c staticCreds) AccessToken(ctx context.Context) (string, error) {
	return c.token, c.err
}

func newFCMSender(t *testing.T, baseURL string, creds staticCreds) senders.Sender {
	t.Helper()
	cfg := &config.Config{}
	cfg.Firebase.ProjectID = "proj-1"
	cfg.Firebase.MessagingBaseURL = baseURL
	cfg.Firebase.TimeoutSecs = 5

	registry := senders.NewSenderRegistry(nil, zap.NewNop(), cfg, http.DefaultTransport, creds)
	sender, ok := registry[senders.PlatformFCM]
	require.True(t, ok)
	return sender
}

func TestFCMSendSuccess(t *testing.T) {
	ctx := context.Background()

	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"name":"projects/proj-1/messages/123"}`))
	}))
	t.Cleanup(srv.Close)

	sender := newFCMSender(t, srv.URL, staticCreds{token: "test-access-token"})

	raw, err := sender.Send(ctx, "tok1", "Hi", "There", map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"projects/proj-1/messages/123"}`, raw)

	assert.Equal(t, "/v1/projects/proj-1/messages:send", gotPath)
	assert.Equal(t, "Bearer test-access-token", gotAuth)

	message := gotBody["message"].(map[string]any)
	assert.Equal(t, "tok1", message["token"])
	assert.Equal(t, map[string]any{"title": "Hi", "body": "There"}, message["notification"])
	assert.Equal(t, map[string]any{"k": "v"}, message["data"])
}

func TestFCMSendOmitsEmptyData(t *testing.T) {
	ctx := context.Background()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	sender := newFCMSender(t, srv.URL, staticCreds{token: "test-access-token"})

	_, err := sender.Send(ctx, "tok1", "Hi", "There", nil)
	require.NoError(t, err)

	message := gotBody["message"].(map[string]any)
	_, hasData := message["data"]
	assert.False(t, hasData)
}

func TestFCMSendRejected(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"NOT_FOUND"}}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	sender := newFCMSender(t, srv.URL, staticCreds{token: "test-access-token"})

	_, err := sender.Send(ctx, "stale-token", "Hi", "There", nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindDelivery, errs.KindOf(err))
	assert.Contains(t, err.Error(), "404")
}

func TestFCMSendCredentialFailure(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider must not be called without credentials")
	}))
	t.Cleanup(srv.Close)

	authErr := errs.Wrap(errs.KindAuth, errors.New("bad key"), "failed to exchange credential for access token")
	sender := newFCMSender(t, srv.URL, staticCreds{err: authErr})

	_, err := sender.Send(ctx, "tok1", "Hi", "There", nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindAuth, errs.KindOf(err))
}

func TestFCMSendUnreachableProvider(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	sender := newFCMSender(t, srv.URL, staticCreds{token: "test-access-token"})

	_, err := sender.Send(ctx, "tok1", "Hi", "There", nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindDelivery, errs.KindOf(err))
}
