package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testAPIKey = "test-key"

func explorerServer(t *testing.T, handle func(action string, r *http.Request) ExplorerResponse) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, testAPIKey, r.URL.Query().Get("apikey"))
		require.Equal(t, "contract", r.URL.Query().Get("module"))
		require.NoError(t, r.ParseForm())

		resp := handle(r.URL.Query().Get("action"), r)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExplorerClient_VerifyProxy(t *testing.T) {
	var gotAddress string
	server := explorerServer(t, func(action string, r *http.Request) ExplorerResponse {
		switch action {
		case "verifyproxycontract":
			gotAddress = r.PostForm.Get("address")
			return ExplorerResponse{Status: "1", Message: "OK", Result: "guid-123"}
		case "checkproxyverification":
			if r.URL.Query().Get("guid") != "guid-123" {
				return ExplorerResponse{Status: "0", Message: "NOTOK", Result: "unknown guid"}
			}
			return ExplorerResponse{Status: "1", Message: "OK", Result: "The proxy's implementation contract is found"}
		}
		return ExplorerResponse{Status: "0", Message: "NOTOK", Result: "bad action"}
	})

	client := NewExplorerClient(testAPIKey, server.URL, rate.NewLimiter(rate.Inf, 1))
	ctx := context.Background()

	guid, err := client.VerifyProxy(ctx, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "guid-123", guid)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", gotAddress)

	status, err := client.CheckProxyVerification(ctx, guid)
	require.NoError(t, err)
	assert.Contains(t, status, "implementation contract is found")

	_, err = client.CheckProxyVerification(ctx, "other")
	assert.ErrorContains(t, err, "unknown guid")
}

func TestExplorerClient_Rejected(t *testing.T) {
	server := explorerServer(t, func(string, *http.Request) ExplorerResponse {
		return ExplorerResponse{Status: "0", Message: "NOTOK", Result: "Invalid API Key"}
	})

	client := NewExplorerClient(testAPIKey, server.URL, rate.NewLimiter(rate.Inf, 1))
	_, err := client.VerifyProxy(context.Background(), "0x1111111111111111111111111111111111111111")
	assert.ErrorContains(t, err, "Invalid API Key")
}

func TestExplorerClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewExplorerClient(testAPIKey, server.URL, rate.NewLimiter(rate.Inf, 1))
	_, err := client.VerifyProxy(context.Background(), "0x1111111111111111111111111111111111111111")
	assert.Error(t, err)
}

func TestExplorerClient_CancelledWhileThrottled(t *testing.T) {
	client := NewExplorerClient(testAPIKey, "http://127.0.0.1:0", rate.NewLimiter(rate.Every(1<<62), 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.VerifyProxy(ctx, "0x1111111111111111111111111111111111111111")
	assert.Error(t, err)
}
