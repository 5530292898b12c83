package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	graphqlrelay "github.com/graph-gophers/graphql-go/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowauth/authd/internal/accounts"
	"github.com/wowauth/authd/internal/realms"
)

func newTestGraphQLServer(t *testing.T) *httptest.Server {
	t.Helper()

	accountStore := accounts.NewMemoryStore()
	_, err := accountStore.CreateAccount(context.Background(), "ARLYON", "test", "arlyon@example.com")
	require.NoError(t, err)

	schema, err := newSchema(accountStore, realms.NewMemoryStore())
	require.NoError(t, err)

	return httptest.NewServer(&graphqlrelay.Handler{Schema: schema})
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func execGraphQL(t *testing.T, server *httptest.Server, query string, variables map[string]any) graphQLResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)

	resp, err := http.Post(server.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out graphQLResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestGraphQLAccountsQuery(t *testing.T) {
	server := newTestGraphQLServer(t)
	defer server.Close()

	resp := execGraphQL(t, server, `query { accounts { username banStatus } }`, nil)
	require.Empty(t, resp.Errors)

	var out struct {
		Accounts []struct {
			Username  string `json:"username"`
			BanStatus string `json:"banStatus"`
		} `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	require.Len(t, out.Accounts, 1)
	assert.Equal(t, "ARLYON", out.Accounts[0].Username)
	assert.Equal(t, "none", out.Accounts[0].BanStatus)
}

func TestGraphQLBanAccountMutation(t *testing.T) {
	server := newTestGraphQLServer(t)
	defer server.Close()

	query := `mutation { banAccount(username: "ARLYON", permanent: true) { username banStatus } }`
	resp := execGraphQL(t, server, query, nil)
	require.Empty(t, resp.Errors)

	var out struct {
		BanAccount struct {
			Username  string `json:"username"`
			BanStatus string `json:"banStatus"`
		} `json:"banAccount"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	assert.Equal(t, "permanent", out.BanAccount.BanStatus)

	secondResp := execGraphQL(t, server, `query { account(username: "ARLYON") { banStatus } }`, nil)
	require.Empty(t, secondResp.Errors)
	var account struct {
		Account struct {
			BanStatus string `json:"banStatus"`
		} `json:"account"`
	}
	require.NoError(t, json.Unmarshal(secondResp.Data, &account))
	assert.Equal(t, "permanent", account.Account.BanStatus)
}

func TestGraphQLCreateRealmAndSetFlags(t *testing.T) {
	server := newTestGraphQLServer(t)
	defer server.Close()

	createQuery := `mutation {
		createRealm(name: "Stormwind", type: 0, build: 12340, externalAddress: "1.2.3.4", localAddress: "10.0.0.1", localSubnet: "10.0.0.0/24", port: 8085) {
			id name flags
		}
	}`
	createResp := execGraphQL(t, server, createQuery, nil)
	require.Empty(t, createResp.Errors)

	var created struct {
		CreateRealm struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Flags int    `json:"flags"`
		} `json:"createRealm"`
	}
	require.NoError(t, json.Unmarshal(createResp.Data, &created))
	assert.Equal(t, "Stormwind", created.CreateRealm.Name)

	setFlagsQuery := `mutation($id: ID!) { setRealmFlags(id: $id, flags: 2) { flags } }`
	setResp := execGraphQL(t, server, setFlagsQuery, map[string]any{"id": created.CreateRealm.ID})
	require.Empty(t, setResp.Errors)

	var updated struct {
		SetRealmFlags struct {
			Flags int `json:"flags"`
		} `json:"setRealmFlags"`
	}
	require.NoError(t, json.Unmarshal(setResp.Data, &updated))
	assert.Equal(t, 2, updated.SetRealmFlags.Flags)
}

func TestGraphQLAccountNotFoundReturnsNull(t *testing.T) {
	server := newTestGraphQLServer(t)
	defer server.Close()

	resp := execGraphQL(t, server, `query { account(username: "NOBODY") { username } }`, nil)
	require.Empty(t, resp.Errors)

	var out struct {
		Account *struct {
			Username string `json:"username"`
		} `json:"account"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	assert.Nil(t, out.Account)
}
