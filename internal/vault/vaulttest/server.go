// Package vaulttest provides an in-process fake of the Vault configuration API.
package vaulttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Hru-s/vaultpermdiff/internal/config"
	"github.com/Hru-s/vaultpermdiff/internal/vault"
)

const (
	APIVersion = "v23.1"
	SessionID  = "test-session"
)

// Server serves Securityprofile.{key} and Permissionset.{key} from memory.
// Unknown keys answer 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	profiles map[string][]string
	sets     map[string][]vault.Permission
	raw      map[string]string
	requests []*http.Request
}

// NewServer starts a TLS server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		profiles: map[string][]string{},
		sets:     map[string][]vault.Permission{},
		raw:      map[string]string{},
	}
	s.Server = httptest.NewTLSServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// AddProfile registers a security profile with its permission set ids.
func (s *Server) AddProfile(key string, permissionSets ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[key] = permissionSets
}

// AddPermissionSet registers a permission set with its permissions.
func (s *Server) AddPermissionSet(key string, permissions ...vault.Permission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[key] = permissions
}

// SetRaw makes the component ("Securityprofile.admin__v") answer body verbatim.
func (s *Server) SetRaw(component, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[component] = body
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// Host is the host:port to use as vault_dns.
func (s *Server) Host() string {
	return strings.TrimPrefix(s.URL, "https://")
}

// VaultConfig returns settings pointing at this server.
func (s *Server) VaultConfig() config.Vault {
	return config.Vault{DNS: s.Host(), APIVersion: APIVersion, SessionID: SessionID}
}

// ClientOption makes a vault.Client trust the server's certificate.
func (s *Server) ClientOption() vault.Option {
	return vault.WithHTTPClient(s.Client())
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Clone(r.Context()))

	prefix := "/api/" + APIVersion + "/configuration/"
	if r.Method != http.MethodGet || !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+SessionID {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	component := strings.TrimPrefix(r.URL.Path, prefix)
	if body, ok := s.raw[component]; ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
		return
	}

	kind, key, ok := strings.Cut(component, ".")
	if !ok {
		http.NotFound(w, r)
		return
	}

	var payload any
	switch kind {
	case "Securityprofile":
		sets, found := s.profiles[key]
		if !found {
			http.NotFound(w, r)
			return
		}
		payload = map[string]any{"data": map[string]any{"permission_sets": sets}}
	case "Permissionset":
		perms, found := s.sets[key]
		if !found {
			http.NotFound(w, r)
			return
		}
		payload = map[string]any{"data": map[string]any{"permission": perms}}
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
