package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestClientCredentialsTokenSource(t *testing.T) {
	var tokenCalls int32
	var gotAuth []string

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad form: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant_type %q", r.Form.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "minted", "token_type": "bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/v1/oauth2-clients", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data": {"clients": []}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	clearEnv(t)
	config := DefaultConfig()
	config.Address = server.URL

	ts, err := ClientCredentialsTokenSource(context.Background(), config, &ClientCredentials{
		ClientID:     "lcadmin",
		ClientSecret: "secret",
		TokenURL:     server.URL + "/oauth/token",
		Scopes:       []string{"admin"},
	})
	if err != nil {
		t.Fatalf("ClientCredentialsTokenSource failed: %v", err)
	}
	config.TokenSource = ts

	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := client.OAuth2Clients().List(); err != nil {
			t.Fatalf("List failed: %v", err)
		}
	}

	if atomic.LoadInt32(&tokenCalls) != 1 {
		t.Errorf("expected the token to be cached, got %d token calls", tokenCalls)
	}
	for _, auth := range gotAuth {
		if auth != "Bearer minted" {
			t.Errorf("unexpected Authorization %q", auth)
		}
	}
}

func TestClientCredentialsTokenSource_Validation(t *testing.T) {
	if _, err := ClientCredentialsTokenSource(context.Background(), nil, nil); err == nil {
		t.Error("expected error for nil credentials")
	}
	if _, err := ClientCredentialsTokenSource(context.Background(), nil, &ClientCredentials{ClientID: "x"}); err == nil {
		t.Error("expected error for incomplete credentials")
	}
}
