// Package reading tracks per-novel engagement state and the reader's
// position and display preferences. Engagement mutations are never applied
// optimistically: the server response is the sole source of truth, which
// keeps double-taps and reordered responses from desyncing the UI.
package reading

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Enterzhang/novels2.0/internal/model"
	"github.com/Enterzhang/novels2.0/internal/store"
)

// NovelAPI is the slice of the pipeline the tracker depends on.
type NovelAPI interface {
	NovelDetail(ctx context.Context, novelID string) (*model.Novel, error)
	Chapter(ctx context.Context, novelID, chapterID string) (*model.Chapter, error)
	IncrementReadCount(ctx context.Context, novelID string) (int64, error)
	Like(ctx context.Context, novelID, userID string) (int64, error)
	AddComment(ctx context.Context, novelID, userID, content string) (*model.Comment, error)
	Comments(ctx context.Context, novelID string, page, limit int) (*model.CommentList, error)
	SaveReadingHistory(ctx context.Context, entry model.HistoryEntry) error
	ToggleFavorite(ctx context.Context, novelID string, info model.FavoriteEntry) (bool, error)
	FavoriteStatus(ctx context.Context, novelID string) (bool, error)
}

type posState int

const (
	posIdle posState = iota
	posLoading
	posReady
)

// position is the reading location within one browsing session.
type position struct {
	state     posState
	novelID   string
	chapterID string
	prev      string
	next      string
}

// Tracker owns engagement state and reader preferences.
type Tracker struct {
	api   NovelAPI
	store store.Store
	log   *zap.Logger

	mu        sync.Mutex
	settings  model.ReaderSettings
	favorites map[string]bool               // last server-confirmed flag per novel
	history   map[string]model.HistoryEntry // working copy, one entry per novel
	pos       position
}

// New builds a tracker, loading preferences from the store or falling back
// to defaults. Stored values are clamped too: an older run may have written
// out-of-range numbers.
func New(api NovelAPI, st store.Store, log *zap.Logger) *Tracker {
	t := &Tracker{
		api:       api,
		store:     st,
		log:       log,
		settings:  model.DefaultReaderSettings(),
		favorites: map[string]bool{},
		history:   map[string]model.HistoryEntry{},
	}

	var s model.ReaderSettings
	ok, err := st.Load(store.KeyReaderSettings, &s)
	if err != nil {
		log.Warn("load reader settings", zap.Error(err))
	}
	if ok {
		s.Clamp()
		t.settings = s
	}
	return t
}

// ToggleFavorite flips the favorite flag server-side and returns the new
// state. No local guess is made before the call completes.
func (t *Tracker) ToggleFavorite(ctx context.Context, novelID string, info model.FavoriteEntry) (bool, error) {
	fav, err := t.api.ToggleFavorite(ctx, novelID, info)
	if err != nil {
		return false, err
	}
	t.mu.Lock()
	t.favorites[novelID] = fav
	t.mu.Unlock()
	return fav, nil
}

// FavoriteStatus probes the current flag; used to seed UI state when a novel
// page opens. Idempotent, safe to call repeatedly.
func (t *Tracker) FavoriteStatus(ctx context.Context, novelID string) (bool, error) {
	fav, err := t.api.FavoriteStatus(ctx, novelID)
	if err != nil {
		return false, err
	}
	t.mu.Lock()
	t.favorites[novelID] = fav
	t.mu.Unlock()
	return fav, nil
}

// SaveHistory upserts the reading-history entry for entry.NovelID, both in
// the local working copy and server-side. Failures are logged and swallowed:
// history must never block or fail the reading action itself.
func (t *Tracker) SaveHistory(ctx context.Context, entry model.HistoryEntry) {
	if entry.LastReadTime.IsZero() {
		entry.LastReadTime = time.Now()
	}

	t.mu.Lock()
	t.history[entry.NovelID] = entry
	t.mu.Unlock()

	if err := t.api.SaveReadingHistory(ctx, entry); err != nil {
		t.log.Warn("save reading history",
			zap.String("novel_id", entry.NovelID),
			zap.Error(err),
		)
	}
}

// BumpReadCount increments the novel's read counter. Same non-blocking
// failure policy as SaveHistory.
func (t *Tracker) BumpReadCount(ctx context.Context, novelID string) {
	if _, err := t.api.IncrementReadCount(ctx, novelID); err != nil {
		t.log.Warn("increment read count", zap.String("novel_id", novelID), zap.Error(err))
	}
}

// Like registers a like and returns the authoritative new count. Callers
// merge only this field into any cached novel; the count is never recomputed
// locally.
func (t *Tracker) Like(ctx context.Context, novelID, userID string) (int64, error) {
	return t.api.Like(ctx, novelID, userID)
}

// AddComment posts a comment; failures re-raise to the caller.
func (t *Tracker) AddComment(ctx context.Context, novelID, userID, content string) (*model.Comment, error) {
	return t.api.AddComment(ctx, novelID, userID, content)
}

// Comments lists one page of comments, degrading to empty on failure.
func (t *Tracker) Comments(ctx context.Context, novelID string, page, limit int) []model.Comment {
	res, err := t.api.Comments(ctx, novelID, page, limit)
	if err != nil {
		t.log.Warn("list comments", zap.String("novel_id", novelID), zap.Error(err))
		return nil
	}
	return res.Comments
}

// History returns the local working copy, most recent first.
func (t *Tracker) History() []model.HistoryEntry {
	t.mu.Lock()
	entries := make([]model.HistoryEntry, 0, len(t.history))
	for _, e := range t.history {
		entries = append(entries, e)
	}
	t.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastReadTime.After(entries[j].LastReadTime)
	})
	return entries
}

// ReconcileHistory replaces the working copy with the server's authoritative
// list, typically after a profile refetch.
func (t *Tracker) ReconcileHistory(entries []model.HistoryEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = make(map[string]model.HistoryEntry, len(entries))
	for _, e := range entries {
		t.history[e.NovelID] = e
	}
}

// OpenChapter drives the position machine through Loading into Ready. It
// fetches the novel (for history metadata) and the chapter, bumps the read
// count and, when a user snapshot exists, upserts history. Neither side
// effect can fail the open. The loading state is cleared on failure too.
func (t *Tracker) OpenChapter(ctx context.Context, novelID, chapterID string, user *model.User) (ch *model.Chapter, err error) {
	t.setPos(position{state: posLoading, novelID: novelID, chapterID: chapterID})
	defer func() {
		if err != nil {
			t.setPos(position{})
		}
	}()

	novel, err := t.api.NovelDetail(ctx, novelID)
	if err != nil {
		return nil, err
	}
	ch, err = t.api.Chapter(ctx, novelID, chapterID)
	if err != nil {
		return nil, err
	}

	t.BumpReadCount(ctx, novelID)
	if user != nil {
		t.SaveHistory(ctx, model.HistoryEntry{
			NovelID:      novelID,
			ChapterID:    chapterID,
			ChapterTitle: ch.Title,
			Title:        novel.Title,
			Author:       novel.Author,
			CoverImage:   novel.Cover,
		})
	}

	t.setPos(position{
		state:     posReady,
		novelID:   novelID,
		chapterID: chapterID,
		prev:      ch.PrevChapter,
		next:      ch.NextChapter,
	})
	return ch, nil
}

// Next reports the chapter to move forward to. ok is false at the last
// chapter, or when no chapter is open — a notice for the reader, not an
// error.
func (t *Tracker) Next() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pos.state != posReady || t.pos.next == "" {
		return "", false
	}
	return t.pos.next, true
}

// Prev reports the chapter to move back to; ok is false at the first chapter.
func (t *Tracker) Prev() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pos.state != posReady || t.pos.prev == "" {
		return "", false
	}
	return t.pos.prev, true
}

// Position reports the open chapter; ok is false while idle or loading.
func (t *Tracker) Position() (novelID, chapterID string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos.novelID, t.pos.chapterID, t.pos.state == posReady
}

func (t *Tracker) setPos(p position) {
	t.mu.Lock()
	t.pos = p
	t.mu.Unlock()
}

// Settings returns the current reader preferences.
func (t *Tracker) Settings() model.ReaderSettings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// UpdateSetting mutates one preference field, clamps it into bounds and
// persists immediately — there is no dirty window. Purely local; the network
// is never involved.
func (t *Tracker) UpdateSetting(key string, value any) (model.ReaderSettings, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.settings
	switch key {
	case "fontSize":
		n, err := toInt(value)
		if err != nil {
			return s, fmt.Errorf("fontSize: %w", err)
		}
		s.FontSize = n
	case "lineHeight":
		f, err := toFloat(value)
		if err != nil {
			return s, fmt.Errorf("lineHeight: %w", err)
		}
		s.LineHeight = f
	case "letterSpacing":
		f, err := toFloat(value)
		if err != nil {
			return s, fmt.Errorf("letterSpacing: %w", err)
		}
		s.LetterSpacing = f
	case "theme":
		str, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("theme: want string, got %T", value)
		}
		s.Theme = str
	default:
		return s, fmt.Errorf("unknown reader setting %q", key)
	}

	s.Clamp()
	t.settings = s
	if err := t.store.Save(store.KeyReaderSettings, s); err != nil {
		return s, err
	}
	return s, nil
}

// ResetSettings restores the defaults and persists them.
func (t *Tracker) ResetSettings() (model.ReaderSettings, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = model.DefaultReaderSettings()
	if err := t.store.Save(store.KeyReaderSettings, t.settings); err != nil {
		return t.settings, err
	}
	return t.settings, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	}
	return 0, fmt.Errorf("want number, got %T", v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("want number, got %T", v)
}
