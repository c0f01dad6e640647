package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Enterzhang/novels2.0/internal/api"
	"github.com/Enterzhang/novels2.0/internal/model"
	"github.com/Enterzhang/novels2.0/internal/nav"
	"github.com/Enterzhang/novels2.0/internal/store"
)

// Credential present, profile fetch rejected: the pipeline must evict both
// session keys, the manager must sign out, and the login redirect must fire
// exactly once.
func TestAuthExpiry_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer srv.Close()

	st := store.NewMemStore()
	st.Save(store.KeyToken, "expired")
	st.Save(store.KeyUser, model.User{ID: "u1", Username: "alice"})

	redirects := 0
	coord := nav.CoordinatorFunc(func(requestedPath string) {
		redirects++
		if requestedPath != "/profile" {
			t.Errorf("requestedPath=%q", requestedPath)
		}
	})

	var m *Manager
	client := api.New(srv.URL, time.Second, st, zap.NewNop(), func() {
		m.Invalidate()
		coord.RedirectToLogin("/profile")
	})
	m = New(client, st, zap.NewNop())

	if !m.IsAuthenticated() {
		t.Fatalf("bootstrap from cache should authenticate")
	}

	if u := m.RefreshUserInfo(context.Background()); u != nil {
		t.Fatalf("refresh must fail, got %+v", u)
	}

	if len(st.Keys()) != 0 {
		t.Fatalf("store must end empty, has %v", st.Keys())
	}
	if m.IsAuthenticated() {
		t.Fatalf("manager must be signed out")
	}
	if redirects != 1 {
		t.Fatalf("redirect fired %d times, want exactly 1", redirects)
	}
}
