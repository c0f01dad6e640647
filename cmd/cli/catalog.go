package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Enterzhang/novels2.0/internal/api"
	"github.com/Enterzhang/novels2.0/internal/model"
)

func (a *app) cmdNovels(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("novels", flag.ExitOnError)
	page := fs.Int("page", 1, "page")
	limit := fs.Int("limit", 10, "page size")
	tags := fs.String("tags", "", "comma-separated tags")
	status := fs.String("status", "", "publication status")
	search := fs.String("search", "", "title/author search")
	_ = fs.Parse(args)

	list, err := a.client.Novels(ctx, api.ListParams{
		Page: *page, Limit: *limit, Tags: *tags, Status: *status, Search: *search,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("page %d/%d novels (total %d)\n", list.Page, list.Limit, list.Total)
	for _, n := range list.Novels {
		fmt.Printf("  %s  %s — %s [%s]\n", n.ID, n.Title, n.Author, n.Status)
	}
}

func (a *app) cmdNovel(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("novel", flag.ExitOnError)
	id := fs.String("id", "", "novel id")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	n, err := a.client.NovelDetail(ctx, *id)
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s — %s\nreads=%d likes=%d chapters=%d\n%s\n\nChapters:\n",
		n.Title, n.Author, n.Meta.ReadCount, n.Meta.LikeCount, n.Meta.TotalChapters, n.Description)
	for _, ch := range n.Chapters {
		fmt.Printf("  %s  %s\n", ch.ChapterID, ch.Title)
	}
}

// cmdRead opens a chapter through the tracker so the read counter and, for a
// signed-in reader, the history upsert ride along.
func (a *app) cmdRead(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	id := fs.String("id", "", "novel id")
	chapter := fs.String("chapter", "", "chapter id")
	_ = fs.Parse(args)
	if *id == "" || *chapter == "" {
		fmt.Fprintln(os.Stderr, "need -id and -chapter")
		os.Exit(1)
	}

	ch, err := a.tracker.OpenChapter(ctx, *id, *chapter, a.mgr.User())
	if err != nil {
		fail(err)
	}

	s := a.tracker.Settings()
	fmt.Printf("== %s ==  (font %dpx, line %.1f, %s)\n\n%s\n\n",
		ch.Title, s.FontSize, s.LineHeight, s.Theme, ch.Content)

	if prev, ok := a.tracker.Prev(); ok {
		fmt.Printf("prev: %s\n", prev)
	} else {
		fmt.Println("this is the first chapter")
	}
	if next, ok := a.tracker.Next(); ok {
		fmt.Printf("next: %s\n", next)
	} else {
		fmt.Println("this is the last chapter")
	}
}

func (a *app) cmdPopular(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("popular", flag.ExitOnError)
	limit := fs.Int("limit", 10, "count")
	_ = fs.Parse(args)

	novels, err := a.client.Popular(ctx, *limit)
	if err != nil {
		// read-heavy path: degrade to empty rather than erroring out
		a.log.Warn("popular novels unavailable")
		return
	}
	for _, n := range novels {
		fmt.Printf("  %s  %s — %s (reads %d)\n", n.ID, n.Title, n.Author, n.Meta.ReadCount)
	}
}

func (a *app) cmdRecommend(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	id := fs.String("id", "", "novel id")
	limit := fs.Int("limit", 5, "count")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	novels, err := a.client.Recommendations(ctx, *id, *limit)
	if err != nil {
		a.log.Warn("recommendations unavailable")
		return
	}
	for _, n := range novels {
		fmt.Printf("  %s  %s — %s\n", n.ID, n.Title, n.Author)
	}
}

func (a *app) cmdTags(ctx context.Context) {
	tags, err := a.client.Tags(ctx)
	if err != nil {
		a.log.Warn("tags unavailable")
		return
	}
	for _, t := range tags {
		fmt.Println(t)
	}
}

func (a *app) cmdLike(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	id := fs.String("id", "", "novel id")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.gate("/like")
	count, err := a.tracker.Like(ctx, *id, a.mgr.User().ID)
	if err != nil {
		fail(err)
	}
	fmt.Printf("likes: %d\n", count)
}

func (a *app) cmdComment(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	id := fs.String("id", "", "novel id")
	text := fs.String("text", "", "comment content")
	_ = fs.Parse(args)
	if *id == "" || *text == "" {
		fmt.Fprintln(os.Stderr, "need -id and -text")
		os.Exit(1)
	}

	a.gate("/comment")
	c, err := a.tracker.AddComment(ctx, *id, a.mgr.User().ID, *text)
	if err != nil {
		fail(err)
	}
	printJSON(c)
}

func (a *app) cmdComments(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("comments", flag.ExitOnError)
	id := fs.String("id", "", "novel id")
	page := fs.Int("page", 1, "page")
	limit := fs.Int("limit", 20, "page size")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	for _, c := range a.tracker.Comments(ctx, *id, *page, *limit) {
		fmt.Printf("[%s] %s: %s\n", c.CreateTime.Format("2006-01-02 15:04"), c.UserID, c.Content)
	}
}

// cmdToggleFavorite fetches the detail first: the server stores the summary
// alongside the favorite entry.
func (a *app) cmdToggleFavorite(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("fav", flag.ExitOnError)
	id := fs.String("id", "", "novel id")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.gate("/fav")
	n, err := a.client.NovelDetail(ctx, *id)
	if err != nil {
		fail(err)
	}

	fav, err := a.tracker.ToggleFavorite(ctx, *id, model.FavoriteEntry{
		NovelID:    *id,
		Title:      n.Title,
		Author:     n.Author,
		CoverImage: n.Cover,
	})
	if err != nil {
		fail(err)
	}
	if fav {
		fmt.Println("favorited")
	} else {
		fmt.Println("unfavorited")
	}
}

func (a *app) cmdFavoriteStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("fav-status", flag.ExitOnError)
	id := fs.String("id", "", "novel id")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.gate("/fav-status")
	fav, err := a.tracker.FavoriteStatus(ctx, *id)
	if err != nil {
		fail(err)
	}
	fmt.Println(fav)
}

// cmdHistory refreshes the profile and reconciles the tracker's working
// copy with the server's list before printing.
func (a *app) cmdHistory(ctx context.Context) {
	a.gate("/reading-history")

	if u := a.mgr.RefreshUserInfo(ctx); u != nil {
		a.tracker.ReconcileHistory(u.ReadingHistory)
	}
	for _, e := range a.tracker.History() {
		fmt.Printf("  %s  %s — %s (%s, %s)\n",
			e.NovelID, e.Title, e.ChapterTitle, e.Author, e.LastReadTime.Format("2006-01-02 15:04"))
	}
}

func (a *app) cmdSettings(args []string) {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	set := fs.String("set", "", "key=value (fontSize, lineHeight, theme, letterSpacing)")
	reset := fs.Bool("reset", false, "restore defaults")
	_ = fs.Parse(args)

	switch {
	case *reset:
		s, err := a.tracker.ResetSettings()
		if err != nil {
			fail(err)
		}
		printJSON(s)
	case *set != "":
		key, value, err := parseSetPair(*set)
		if err != nil {
			fail(err)
		}
		s, err := a.tracker.UpdateSetting(key, value)
		if err != nil {
			fail(err)
		}
		printJSON(s)
	default:
		printJSON(a.tracker.Settings())
	}
}
