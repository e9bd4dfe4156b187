// Package fakeplatform is an in-memory stand-in for the platform's login
// method and OAuth2 client endpoints, for tests.
package fakeplatform

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"github.com/stephnangue/lcadmin/api"
)

// Calls counts the requests served per operation.
type Calls struct {
	Reads       int
	Lists       int
	Creates     int
	Updates     int
	Deletes     int
	ClientLists int
}

// Server serves the platform API from memory.
type Server struct {
	mu       sync.RWMutex
	token    string
	methods  map[string]*api.LoginMethodInput
	clients  []Client
	calls    Calls
	failures map[string][]int
	router   *chi.Mux
}

// Client is a registered external OAuth2 client.
type Client struct {
	Name     string `json:"name"`
	ClientID string `json:"clientId"`
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires every request to carry the bearer token.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithClients seeds the OAuth2 client registry.
func WithClients(names ...string) Option {
	return func(s *Server) {
		for _, n := range names {
			s.clients = append(s.clients, Client{Name: n, ClientID: n + "-id"})
		}
	}
}

// New returns a Server with an empty store.
func New(opts ...Option) *Server {
	s := &Server{
		methods:  make(map[string]*api.LoginMethodInput),
		failures: make(map[string][]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.echoRequestID)
	r.Use(s.authenticate)
	r.Use(s.injectFailures)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/login-methods", func(lm chi.Router) {
			lm.Get("/", s.handleList)
			lm.Post("/", s.handleCreate)
			lm.Get("/{name}", s.handleRead)
			lm.Put("/{name}", s.handleUpdate)
			lm.Delete("/{name}", s.handleDelete)
		})
		v1.Get("/oauth2-clients", s.handleListClients)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "unsupported path")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "unsupported operation")
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Put stores a login method directly, bypassing the API.
func (s *Server) Put(in *api.LoginMethodInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods[in.Name] = in
}

// Get returns the stored login method.
func (s *Server) Get(name string) (*api.LoginMethodInput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.methods[name]
	return in, ok
}

// AddClient registers an external OAuth2 client.
func (s *Server) AddClient(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, Client{Name: name, ClientID: name + "-id"})
}

// Calls returns the request counters.
func (s *Server) Calls() Calls {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

// FailNext makes the next requests with the given method answer with the
// given statuses, one per request, before normal service resumes.
func (s *Server) FailNext(method string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = append(s.failures[method], statuses...)
}

func (s *Server) echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(api.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.token {
				respondError(w, http.StatusForbidden, "permission denied")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		queue := s.failures[r.Method]
		status := 0
		if len(queue) > 0 {
			status, s.failures[r.Method] = queue[0], queue[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			respondError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)

	s.mu.Lock()
	s.calls.Reads++
	in, ok := s.methods[name]
	s.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("login method %q not found", name))
		return
	}
	respondData(w, http.StatusOK, in)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls.Lists++
	methods := make([]*api.LoginMethodInput, 0, len(s.methods))
	for _, in := range s.methods {
		methods = append(methods, in)
	}
	s.mu.Unlock()

	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	respondData(w, http.StatusOK, map[string]any{"loginMethods": methods})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	s.calls.Creates++
	if _, exists := s.methods[in.Name]; exists {
		s.mu.Unlock()
		respondError(w, http.StatusConflict, fmt.Sprintf("login method %q already exists", in.Name))
		return
	}
	s.methods[in.Name] = in
	s.mu.Unlock()

	respondData(w, http.StatusOK, map[string]any{
		"name":    in.Name,
		"message": fmt.Sprintf("Login method '%s' created successfully", in.Name),
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	if in.Name != name {
		respondError(w, http.StatusBadRequest, "name in body does not match path")
		return
	}

	s.mu.Lock()
	s.calls.Updates++
	if _, exists := s.methods[name]; !exists {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, fmt.Sprintf("login method %q not found", name))
		return
	}
	s.methods[name] = in
	s.mu.Unlock()

	respondData(w, http.StatusOK, map[string]any{
		"name":    name,
		"message": fmt.Sprintf("Login method '%s' updated successfully", name),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)

	s.mu.Lock()
	s.calls.Deletes++
	if _, exists := s.methods[name]; !exists {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, fmt.Sprintf("login method %q not found", name))
		return
	}
	delete(s.methods, name)
	s.mu.Unlock()

	respondData(w, http.StatusOK, map[string]any{
		"name":    name,
		"message": fmt.Sprintf("Login method '%s' deleted successfully", name),
	})
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls.ClientLists++
	clients := append([]Client{}, s.clients...)
	s.mu.Unlock()

	respondData(w, http.StatusOK, map[string]any{"clients": clients})
}

// nameParam returns the unescaped {name} segment; chi matches on the raw path.
func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func decodeInput(w http.ResponseWriter, r *http.Request) (*api.LoginMethodInput, bool) {
	var in api.LoginMethodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}
	if in.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return nil, false
	}
	if in.SourceConfiguration == nil {
		respondError(w, http.StatusBadRequest, "sourceConfiguration is required")
		return nil, false
	}
	return &in, true
}
