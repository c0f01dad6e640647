package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Enterzhang/novels2.0/internal/model"
)

// Login authenticates with form-encoded credentials and returns the issued
// token plus the profile snapshot. The request is deliberately sent without
// a bearer header: a stale stored token must not ride along on a fresh
// sign-in.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Credentials, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out model.Credentials
	err := c.do(ctx, http.MethodPost, "/users/login", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", false, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns the created profile. No session
// side effects.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	var out model.User
	if err := c.post(ctx, "/users/register", nil, reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the authoritative profile for the stored credential.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.get(ctx, "/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile submits a profile mutation and returns the server's
// canonical record.
func (c *Client) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	if err := c.put(ctx, "/users/profile", upd, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SaveReadingHistory upserts the history entry for entry.NovelID.
func (c *Client) SaveReadingHistory(ctx context.Context, entry model.HistoryEntry) error {
	return c.post(ctx, "/users/reading-history", nil, entry, nil)
}

// ToggleFavorite flips the favorite flag server-side and returns the new
// state. info carries the novel summary the server stores alongside the
// favorite.
func (c *Client) ToggleFavorite(ctx context.Context, novelID string, info model.FavoriteEntry) (bool, error) {
	var out struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := c.post(ctx, "/users/favorite/"+novelID, nil, info, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}

// FavoriteStatus is a read-only probe of the favorite flag.
func (c *Client) FavoriteStatus(ctx context.Context, novelID string) (bool, error) {
	var out struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := c.get(ctx, "/users/favorite/status/"+novelID, nil, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}
