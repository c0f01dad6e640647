// Package model defines domain records exchanged with the novels service and
// cached on the client.
package model

import "time"

// User is the cached profile snapshot. The server copy is authoritative; the
// client only ever replaces this record wholesale, never merges into it.
type User struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Nickname       string          `json:"nickname,omitempty"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Gender         string          `json:"gender,omitempty"`
	Avatar         string          `json:"avatar,omitempty"`
	CreateTime     time.Time       `json:"createTime"`
	LastLoginTime  *time.Time      `json:"lastLoginTime,omitempty"`
	FavoriteNovels []FavoriteEntry `json:"favoriteNovels,omitempty"`
	ReadingHistory []HistoryEntry  `json:"readingHistory,omitempty"`
}

// Registration is the payload for creating an account.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// ProfileUpdate carries the mutable profile fields; zero-valued fields are
// left out of the request.
type ProfileUpdate struct {
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Credentials is the login response: the issued bearer token plus the profile
// snapshot it belongs to.
type Credentials struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// FavoriteEntry is one favorited novel on the user's profile.
type FavoriteEntry struct {
	NovelID      string    `json:"novelId"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	CoverImage   string    `json:"coverImage"`
	FavoriteTime time.Time `json:"favoriteTime"`
}

// HistoryEntry is the reading-history record for one novel. The server keeps
// at most one entry per novel; a new visit overwrites chapter and time.
type HistoryEntry struct {
	NovelID      string    `json:"novelId"`
	ChapterID    string    `json:"chapterId"`
	ChapterTitle string    `json:"chapterTitle"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	CoverImage   string    `json:"coverImage"`
	LastReadTime time.Time `json:"lastReadTime"`
}

// NovelMeta aggregates counters maintained server-side.
type NovelMeta struct {
	TotalChapters int   `json:"totalChapters"`
	TotalWords    int   `json:"totalWords"`
	ReadCount     int64 `json:"readCount"`
	LikeCount     int64 `json:"likeCount"`
	CommentCount  int64 `json:"commentCount"`
}

// NovelSummary is a catalog listing row (description truncated server-side).
type NovelSummary struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"publication_status"`
	Cover       string    `json:"cover"`
	Description string    `json:"description"`
	UpdateTime  time.Time `json:"updateTime"`
	Meta        NovelMeta `json:"meta"`
}

// NovelList is one page of the catalog.
type NovelList struct {
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Novels []NovelSummary `json:"novels"`
}

// ChapterRef is a table-of-contents row; content is fetched separately.
type ChapterRef struct {
	ChapterID string `json:"chapterId"`
	Title     string `json:"title"`
}

// Novel is the full detail record including the chapter list.
type Novel struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Tags        []string     `json:"tags"`
	Status      string       `json:"publication_status"`
	Cover       string       `json:"cover"`
	Description string       `json:"description"`
	CreateTime  time.Time    `json:"createTime"`
	UpdateTime  time.Time    `json:"updateTime"`
	Chapters    []ChapterRef `json:"chapters"`
	Meta        NovelMeta    `json:"meta"`
}

// Chapter is one chapter's content plus navigation pointers. An empty
// PrevChapter/NextChapter means there is no chapter in that direction.
type Chapter struct {
	ChapterID   string    `json:"chapterId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishTime time.Time `json:"publishTime"`
	WordCount   int       `json:"wordCount"`
	PrevChapter string    `json:"prevChapter"`
	NextChapter string    `json:"nextChapter"`
}

// Comment is a reader comment on a novel.
type Comment struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"userId"`
	Content    string    `json:"content"`
	CreateTime time.Time `json:"createTime"`
}

// CommentList is one page of comments.
type CommentList struct {
	Total    int64     `json:"total"`
	Comments []Comment `json:"comments"`
}
