package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginMethods_Read(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.EscapedPath() != "/v1/login-methods/team%2Fbasic" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.EscapedPath())
		}
		w.Write([]byte(`{"data": {
			"name": "team/basic",
			"description": "basic auth",
			"loginMethodType": "Credential",
			"source": 1,
			"target": 0,
			"sourceConfiguration": {"username": "admin"}
		}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)

	method, err := client.LoginMethods().Read("team/basic")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if method.Name != "team/basic" || method.LoginMethodType != "Credential" {
		t.Errorf("unexpected method %+v", method)
	}
	if method.Source != 1 {
		t.Errorf("expected source 1, got %d", method.Source)
	}
	if method.SourceConfiguration["username"] != "admin" {
		t.Errorf("unexpected source configuration %v", method.SourceConfiguration)
	}
	if method.TargetConfiguration != nil {
		t.Errorf("expected no target configuration, got %v", method.TargetConfiguration)
	}
}

func TestLoginMethods_ReadNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors": ["login method not found"]}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server, 2).LoginMethods().Read("ghost")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoginMethods_CreateAndUpdate(t *testing.T) {
	var got []struct {
		method string
		path   string
		body   LoginMethodInput
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected Content-Type %q", r.Header.Get("Content-Type"))
		}
		var in LoginMethodInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("bad body: %v", err)
		}
		got = append(got, struct {
			method string
			path   string
			body   LoginMethodInput
		}{r.Method, r.URL.Path, in})
		w.Write([]byte(`{"data": {"name": "oidc", "message": "Login method 'oidc' saved"}}`))
	}))
	defer server.Close()

	lm := newTestClient(t, server, 0).LoginMethods()
	input := &LoginMethodInput{
		Name:                "oidc",
		LoginMethodType:     "DelegatedAuth",
		Source:              2,
		Target:              2,
		SourceConfiguration: map[string]any{"clientName": "infraOIDC"},
		TargetConfiguration: map[string]any{"key": "access_token"},
	}

	out, err := lm.Create(input)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if out.Message != "Login method 'oidc' saved" {
		t.Errorf("unexpected message %q", out.Message)
	}

	if _, err := lm.Update("oidc", input); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0].method != http.MethodPost || got[0].path != "/v1/login-methods" {
		t.Errorf("unexpected create request %s %s", got[0].method, got[0].path)
	}
	if got[1].method != http.MethodPut || got[1].path != "/v1/login-methods/oidc" {
		t.Errorf("unexpected update request %s %s", got[1].method, got[1].path)
	}
	if got[0].body.Source != 2 || got[0].body.TargetConfiguration["key"] != "access_token" {
		t.Errorf("unexpected body %+v", got[0].body)
	}
}

func TestLoginMethodInput_OmitsEmptyTargetConfiguration(t *testing.T) {
	buf, err := json.Marshal(&LoginMethodInput{
		Name:                "basic",
		LoginMethodType:     "Credential",
		Source:              1,
		SourceConfiguration: map[string]any{},
	})
	if err != nil {
		t.Fatal(err)
	}

	s := string(buf)
	if strings.Contains(s, "targetConfiguration") {
		t.Errorf("expected targetConfiguration to be omitted: %s", s)
	}
	if !strings.Contains(s, `"sourceConfiguration":{}`) {
		t.Errorf("expected empty sourceConfiguration object: %s", s)
	}
	if !strings.Contains(s, `"target":0`) {
		t.Errorf("expected target 0 to be sent: %s", s)
	}
}

func TestLoginMethods_CreateNilInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	lm := newTestClient(t, server, 0).LoginMethods()
	if _, err := lm.Create(nil); err == nil {
		t.Error("expected error for nil input")
	}
	if _, err := lm.Update("x", nil); err == nil {
		t.Error("expected error for nil input")
	}
}

func TestLoginMethods_List(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		count int
	}{
		{"two records", `{"data": {"loginMethods": [{"name": "a", "source": 1}, {"name": "b", "source": 4}]}}`, 2},
		{"empty list", `{"data": {"loginMethods": []}}`, 0},
		{"empty body", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			methods, err := newTestClient(t, server, 0).LoginMethods().List()
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if methods == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(methods) != tt.count {
				t.Errorf("expected %d methods, got %d", tt.count, len(methods))
			}
		})
	}
}

func TestLoginMethods_Delete(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Write([]byte(`{"data": {"message": "deleted"}}`))
	}))
	defer server.Close()

	out, err := newTestClient(t, server, 0).LoginMethods().Delete("basic")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", method)
	}
	if out.Message != "deleted" {
		t.Errorf("unexpected message %q", out.Message)
	}
}

func TestOAuth2Clients_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/oauth2-clients" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data": {"clients": [{"name": "infraOIDC", "clientId": "abc", "tokenUrl": "https://idp/token"}]}}`))
	}))
	defer server.Close()

	clients, err := newTestClient(t, server, 0).OAuth2Clients().List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(clients))
	}
	if clients[0].Name != "infraOIDC" || clients[0].ClientID != "abc" || clients[0].TokenURL != "https://idp/token" {
		t.Errorf("unexpected client %+v", clients[0])
	}
}

func TestOAuth2Clients_ListEmptyRegistry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer server.Close()

	clients, err := newTestClient(t, server, 0).OAuth2Clients().List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if clients == nil || len(clients) != 0 {
		t.Errorf("expected empty slice, got %v", clients)
	}
}
