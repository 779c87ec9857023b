package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
	"github.com/rpggio/crowdvault/internal/identity"
	"github.com/rpggio/crowdvault/internal/sqlite"
)

type staticClock struct {
	now time.Time
}

func (c *staticClock) Now() time.Time { return c.now }

func newTestServer(t *testing.T) (*httptest.Server, *funding.Service, identity.PublicKey) {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	clock := &staticClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := funding.NewService(sqlite.NewStore(db), clock, 24*time.Hour, nil)

	key, _, err := identity.Generate()
	require.NoError(t, err)

	server := httptest.NewServer(NewRouter(svc, nil))
	t.Cleanup(server.Close)
	return server, svc, key
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestExplorer_Health(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := getJSON(t, server.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExplorer_Counter(t *testing.T) {
	server, svc, key := newTestServer(t)
	ctx := context.Background()

	// 404 before initialization
	resp := getJSON(t, server.URL+"/v1/counter", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err := svc.InitializeCounter(ctx, key)
	require.NoError(t, err)

	var counter funding.Counter
	resp = getJSON(t, server.URL+"/v1/counter", &counter)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, uint64(0), counter.Count)
}

func TestExplorer_Projects(t *testing.T) {
	server, svc, key := newTestServer(t)
	ctx := context.Background()

	_, err := svc.InitializeCounter(ctx, key)
	require.NoError(t, err)
	project, err := svc.InitializeProject(ctx, key, "Explorer Test", "", 1000)
	require.NoError(t, err)

	var list struct {
		Projects []funding.Project `json:"projects"`
	}
	resp := getJSON(t, server.URL+"/v1/projects", &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Projects, 1)
	require.Equal(t, project.Address, list.Projects[0].Address)

	var got funding.Project
	resp = getJSON(t, server.URL+"/v1/projects/"+project.Address.String(), &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, project.Title, got.Title)

	var vault funding.Vault
	resp = getJSON(t, server.URL+"/v1/projects/"+project.Address.String()+"/vault", &vault)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, uint64(0), vault.TotalAmount)
}

func TestExplorer_ProjectNotFound(t *testing.T) {
	server, _, key := newTestServer(t)

	missing := addr.Project(key, 99)
	resp := getJSON(t, server.URL+"/v1/projects/"+missing.String(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExplorer_BadAddress(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := getJSON(t, server.URL+"/v1/projects/not-an-address", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExplorer_Balance(t *testing.T) {
	server, svc, key := newTestServer(t)
	ctx := context.Background()

	wallet := addr.Wallet(key)

	// Unknown accounts read as zero
	var balance struct {
		Address string `json:"address"`
		Balance uint64 `json:"balance"`
	}
	resp := getJSON(t, server.URL+"/v1/accounts/"+wallet.String()+"/balance", &balance)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, uint64(0), balance.Balance)

	_, err := svc.Airdrop(ctx, key, 750)
	require.NoError(t, err)

	resp = getJSON(t, server.URL+"/v1/accounts/"+wallet.String()+"/balance", &balance)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, uint64(750), balance.Balance)
}

func TestExplorer_Journal(t *testing.T) {
	server, svc, key := newTestServer(t)
	ctx := context.Background()

	_, err := svc.Airdrop(ctx, key, 100)
	require.NoError(t, err)

	var journal struct {
		Entries []funding.JournalEntry `json:"entries"`
	}
	resp := getJSON(t, server.URL+"/v1/journal", &journal)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, journal.Entries, 1)
	require.Equal(t, "airdrop", journal.Entries[0].Operation)

	resp = getJSON(t, server.URL+"/v1/journal?limit=0", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
