package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Enterzhang/novels2.0/internal/errs"
	"github.com/Enterzhang/novels2.0/internal/model"
	"github.com/Enterzhang/novels2.0/internal/store"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *store.MemStore, *int) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st := store.NewMemStore()
	expired := 0
	c := New(srv.URL, 2*time.Second, st, zap.NewNop(), func() { expired++ })
	return c, st, &expired
}

func TestDo_AttachesBearerWhenStored(t *testing.T) {
	var gotAuth string
	c, st, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"tags":[]}`))
	}))

	_, err := c.Tags(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth, "no token stored, request must go out unauthenticated")

	require.NoError(t, st.Save(store.KeyToken, "tok-1"))
	_, err = c.Tags(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-1", gotAuth)
}

func TestDo_SetsRequestID(t *testing.T) {
	var gotID string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"tags":[]}`))
	}))
	_, err := c.Tags(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, gotID)
}

func TestLogin_FormEncodedAndUnauthenticated(t *testing.T) {
	c, st, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/login", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "alice", r.PostFormValue("username"))
		require.Equal(t, "s3cret", r.PostFormValue("password"))
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","user":{"id":"u1","username":"alice","email":"a@b.c"}}`))
	}))
	// a stale token must not ride along on a fresh sign-in
	require.NoError(t, st.Save(store.KeyToken, "stale"))

	creds, err := c.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "tok", creds.AccessToken)
	require.Equal(t, "alice", creds.User.Username)
}

func TestDo_UnauthorizedEvictsAndSignalsOnce(t *testing.T) {
	c, st, expired := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	require.NoError(t, st.Save(store.KeyToken, "expired-token"))
	require.NoError(t, st.Save(store.KeyUser, model.User{ID: "u1"}))

	_, err := c.Profile(context.Background())
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	var tok string
	ok, _ := st.Load(store.KeyToken, &tok)
	require.False(t, ok, "token must be evicted")
	var u model.User
	ok, _ = st.Load(store.KeyUser, &u)
	require.False(t, ok, "user snapshot must be evicted")
	require.Equal(t, 1, *expired, "expiry hook must fire exactly once per failing call")
}

func TestDo_ValidationErrorKeepsServerMessage(t *testing.T) {
	c, st, expired := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"username already exists"}`))
	}))
	require.NoError(t, st.Save(store.KeyToken, "tok"))

	_, err := c.Register(context.Background(), model.Registration{Username: "alice"})
	require.ErrorIs(t, err, errs.ErrValidation)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "username already exists", apiErr.Message)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)

	// validation failures leave the stored credential alone
	var tok string
	ok, _ := st.Load(store.KeyToken, &tok)
	require.True(t, ok)
	require.Zero(t, *expired)
}

func TestDo_NotFound(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"novel does not exist"}`))
	}))
	_, err := c.NovelDetail(context.Background(), "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDo_ServerErrorFallbackMessage(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err := c.Tags(context.Background())
	require.ErrorIs(t, err, errs.ErrUnavailable)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.NotEmpty(t, apiErr.Message, "a fallback message must be present")
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	c := New(srv.URL, time.Second, store.NewMemStore(), zap.NewNop(), nil)
	_, err := c.Tags(context.Background())
	require.ErrorIs(t, err, errs.ErrUnavailable)
}

func TestDo_SingleAttempt(t *testing.T) {
	attempts := 0
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err := c.Tags(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, attempts, "the pipeline must never retry")
}

func TestToggleFavorite_Decode(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/favorite/n1", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"isFavorite":true}`))
	}))
	fav, err := c.ToggleFavorite(context.Background(), "n1", model.FavoriteEntry{NovelID: "n1", Title: "T"})
	require.NoError(t, err)
	require.True(t, fav)
}

func TestLike_QueryAndDecode(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/novels/n1/like", r.URL.Path)
		require.Equal(t, "u1", r.URL.Query().Get("user_id"))
		w.Write([]byte(`{"success":true,"likeCount":42}`))
	}))
	n, err := c.Like(context.Background(), "n1", "u1")
	require.NoError(t, err)
	require.Equal(t, int64(42), n)
}

func TestNovels_QueryEncoding(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "2", q.Get("page"))
		require.Equal(t, "20", q.Get("limit"))
		require.Equal(t, "fantasy", q.Get("tags"))
		require.Equal(t, "ongoing", q.Get("publication_status"))
		require.Equal(t, "sword", q.Get("search"))
		w.Write([]byte(`{"total":1,"page":2,"limit":20,"novels":[{"_id":"n1","title":"T","author":"A"}]}`))
	}))
	list, err := c.Novels(context.Background(), ListParams{Page: 2, Limit: 20, Tags: "fantasy", Status: "ongoing", Search: "sword"})
	require.NoError(t, err)
	require.Len(t, list.Novels, 1)
	require.Equal(t, "n1", list.Novels[0].ID)
}

func TestChapter_NavPointers(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/novels/n1/chapters/c2", r.URL.Path)
		w.Write([]byte(`{"chapterId":"c2","title":"Two","content":"...","wordCount":3,"prevChapter":"c1","nextChapter":null}`))
	}))
	ch, err := c.Chapter(context.Background(), "n1", "c2")
	require.NoError(t, err)
	require.Equal(t, "c1", ch.PrevChapter)
	require.Empty(t, ch.NextChapter, "null pointer must decode to empty")
}
