package admincli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	admintls "github.com/wowauth/authd/internal/admincli/tls"
)

func init() {
	admintls.PromptInput = strings.NewReader("no\n")
}

func newTestAdminServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/login":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":"test-token"}`))
		case "/graphql":
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"realms":[]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestStore(t *testing.T) *admintls.CertificateStore {
	t.Helper()
	store, err := admintls.NewCertificateStoreAt(t.TempDir())
	require.NoError(t, err)
	return store
}

func serverHost(t *testing.T, server *httptest.Server) string {
	t.Helper()
	return strings.TrimPrefix(server.URL, "https://")
}

func TestClientLoginAndGraphQLTrustOnFirstUse(t *testing.T) {
	server := newTestAdminServer(t)
	defer server.Close()

	host := serverHost(t, server)
	store := newTestStore(t)
	client := NewClient(host, store, true)

	token, err := client.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)
	assert.True(t, store.IsKnown(host, server.Certificate()))

	var resp struct {
		Realms []any `json:"realms"`
	}
	require.NoError(t, client.GraphQL(context.Background(), `query { realms { id } }`, nil, &resp))
	assert.Empty(t, resp.Realms)
}

func TestClientGraphQLRequiresLogin(t *testing.T) {
	server := newTestAdminServer(t)
	defer server.Close()

	client := NewClient(serverHost(t, server), newTestStore(t), true)

	err := client.GraphQL(context.Background(), `query { realms { id } }`, nil, nil)
	assert.ErrorContains(t, err, "not logged in")
}

func TestClientRejectsUnknownCertificateWithoutAssumeYes(t *testing.T) {
	server := newTestAdminServer(t)
	defer server.Close()

	client := NewClient(serverHost(t, server), newTestStore(t), false)

	_, err := client.Login(context.Background(), "admin", "hunter2")
	assert.Error(t, err)
}
