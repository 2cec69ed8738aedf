package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmun/divvy/internal/auth"
	"github.com/tmun/divvy/internal/observability"
	"github.com/tmun/divvy/internal/service"
	"github.com/tmun/divvy/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	metrics := observability.NewMetrics()
	groups := service.NewGroupService(store)

	server := httptest.NewServer(NewRouter(Services{
		Auth:        service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager),
		Groups:      groups,
		Expenses:    service.NewExpenseService(store, groups),
		Settlements: service.NewSettlementService(store, groups, metrics),
		JWT:         jwtManager,
		Metrics:     metrics,
	}))
	t.Cleanup(server.Close)
	return server
}

// doJSON issues a request and decodes the JSON response into out (if non-nil).
func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type session struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Token string `json:"token"`
}

func registerUser(t *testing.T, server *httptest.Server, email string) session {
	t.Helper()

	var s session
	status := doJSON(t, server, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":        email,
		"display_name": email,
		"password":     "correct-horse",
	}, &s)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, s.Token)
	return s
}

func TestAPIEndToEnd(t *testing.T) {
	server := newTestServer(t)

	alice := registerUser(t, server, "alice@example.com")
	bob := registerUser(t, server, "bob@example.com")

	t.Run("login returns a fresh token", func(t *testing.T) {
		var s session
		status := doJSON(t, server, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct-horse",
		}, &s)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, alice.User.ID, s.User.ID)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		status := doJSON(t, server, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("group routes require a token", func(t *testing.T) {
		status := doJSON(t, server, http.MethodGet, "/v1/groups", "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	var groupID string
	t.Run("create group", func(t *testing.T) {
		var group struct {
			ID      string   `json:"id"`
			Members []string `json:"members"`
		}
		status := doJSON(t, server, http.MethodPost, "/v1/groups", alice.Token, map[string]any{
			"name":    "Ski Trip",
			"members": []string{bob.User.ID},
		}, &group)
		require.Equal(t, http.StatusCreated, status)
		require.NotEmpty(t, group.ID)
		assert.ElementsMatch(t, []string{alice.User.ID, bob.User.ID}, group.Members)
		groupID = group.ID
	})

	t.Run("create expense and fetch plan", func(t *testing.T) {
		status := doJSON(t, server, http.MethodPost, fmt.Sprintf("/v1/groups/%s/expenses", groupID), alice.Token, map[string]any{
			"description":  "Lift tickets",
			"amount":       "120.00",
			"paid_by":      alice.User.ID,
			"split_method": "equal",
			"participants": []string{alice.User.ID, bob.User.ID},
		}, nil)
		require.Equal(t, http.StatusCreated, status)

		var plan struct {
			Balances []struct {
				UserID string `json:"user_id"`
				Amount string `json:"amount"`
			} `json:"balances"`
			Settlements []struct {
				From   string `json:"from"`
				To     string `json:"to"`
				Amount string `json:"amount"`
			} `json:"settlements"`
		}
		status = doJSON(t, server, http.MethodGet, fmt.Sprintf("/v1/groups/%s/settlements/plan", groupID), bob.Token, nil, &plan)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, plan.Settlements, 1)
		assert.Equal(t, bob.User.ID, plan.Settlements[0].From)
		assert.Equal(t, alice.User.ID, plan.Settlements[0].To)
		assert.Equal(t, "60", plan.Settlements[0].Amount)
	})

	t.Run("record and confirm settlement, plan empties", func(t *testing.T) {
		var settlement struct {
			ID string `json:"id"`
		}
		status := doJSON(t, server, http.MethodPost, fmt.Sprintf("/v1/groups/%s/settlements", groupID), bob.Token, map[string]any{
			"from_user_id": bob.User.ID,
			"to_user_id":   alice.User.ID,
			"amount":       "60.00",
		}, &settlement)
		require.Equal(t, http.StatusCreated, status)

		status = doJSON(t, server, http.MethodPost, fmt.Sprintf("/v1/settlements/%s/confirm", settlement.ID), bob.Token, nil, nil)
		require.Equal(t, http.StatusOK, status)

		var plan struct {
			Settlements []any `json:"settlements"`
		}
		status = doJSON(t, server, http.MethodGet, fmt.Sprintf("/v1/groups/%s/settlements/plan", groupID), alice.Token, nil, &plan)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, plan.Settlements)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		mallory := registerUser(t, server, "mallory@example.com")
		status := doJSON(t, server, http.MethodGet, fmt.Sprintf("/v1/groups/%s", groupID), mallory.Token, nil, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("health endpoints are open", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doJSON(t, server, http.MethodGet, "/healthz", "", nil, nil))
		assert.Equal(t, http.StatusOK, doJSON(t, server, http.MethodGet, "/metrics", "", nil, nil))
	})
}
