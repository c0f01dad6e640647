package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Enterzhang/novels2.0/internal/model"
)

// ListParams filters the catalog listing. Zero values are omitted from the
// query.
type ListParams struct {
	Page   int
	Limit  int
	Tags   string
	Status string
	Search string
}

// Novels fetches one catalog page.
func (c *Client) Novels(ctx context.Context, p ListParams) (*model.NovelList, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Tags != "" {
		q.Set("tags", p.Tags)
	}
	if p.Status != "" {
		q.Set("publication_status", p.Status)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	var out model.NovelList
	if err := c.get(ctx, "/novels", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NovelDetail fetches the full record including the chapter list.
func (c *Client) NovelDetail(ctx context.Context, novelID string) (*model.Novel, error) {
	var out model.Novel
	if err := c.get(ctx, "/novels/"+novelID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chapter fetches one chapter's content and navigation pointers.
func (c *Client) Chapter(ctx context.Context, novelID, chapterID string) (*model.Chapter, error) {
	var out model.Chapter
	if err := c.get(ctx, "/novels/"+novelID+"/chapters/"+chapterID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type recommendationList struct {
	Recommendations []model.NovelSummary `json:"recommendations"`
}

// Popular returns the most-read novels.
func (c *Client) Popular(ctx context.Context, limit int) ([]model.NovelSummary, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out recommendationList
	if err := c.get(ctx, "/novels/popular", q, &out); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

// Recommendations returns novels related to the given one. The ranking is an
// opaque remote concern.
func (c *Client) Recommendations(ctx context.Context, novelID string, limit int) ([]model.NovelSummary, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out recommendationList
	if err := c.get(ctx, "/novels/"+novelID+"/recommendations", q, &out); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

// Tags lists every tag in the catalog.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var out struct {
		Tags []string `json:"tags"`
	}
	if err := c.get(ctx, "/tags", nil, &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

// IncrementReadCount bumps the read counter and returns the new value.
func (c *Client) IncrementReadCount(ctx context.Context, novelID string) (int64, error) {
	var out struct {
		Success   bool  `json:"success"`
		ReadCount int64 `json:"readCount"`
	}
	if err := c.post(ctx, "/novels/"+novelID+"/read", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.ReadCount, nil
}

// Like registers a like and returns the authoritative new count.
func (c *Client) Like(ctx context.Context, novelID, userID string) (int64, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	var out struct {
		Success   bool  `json:"success"`
		LikeCount int64 `json:"likeCount"`
	}
	if err := c.post(ctx, "/novels/"+novelID+"/like", q, nil, &out); err != nil {
		return 0, err
	}
	return out.LikeCount, nil
}

// AddComment posts a comment and returns the stored record.
func (c *Client) AddComment(ctx context.Context, novelID, userID, content string) (*model.Comment, error) {
	in := struct {
		UserID  string `json:"userId"`
		Content string `json:"content"`
	}{UserID: userID, Content: content}
	var out struct {
		Success bool           `json:"success"`
		Comment *model.Comment `json:"comment"`
	}
	if err := c.post(ctx, "/novels/"+novelID+"/comments", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Comment, nil
}

// Comments fetches one page of comments.
func (c *Client) Comments(ctx context.Context, novelID string, page, limit int) (*model.CommentList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out model.CommentList
	if err := c.get(ctx, "/novels/"+novelID+"/comments", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
