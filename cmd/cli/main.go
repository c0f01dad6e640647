// Command novels is a terminal reading client for the novels2.0 service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Enterzhang/novels2.0/internal/api"
	"github.com/Enterzhang/novels2.0/internal/config"
	"github.com/Enterzhang/novels2.0/internal/nav"
	"github.com/Enterzhang/novels2.0/internal/reading"
	"github.com/Enterzhang/novels2.0/internal/session"
	"github.com/Enterzhang/novels2.0/internal/store"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app bundles the wired engine for the command handlers.
type app struct {
	mgr     *session.Manager
	tracker *reading.Tracker
	client  *api.Client
	coord   nav.Coordinator
	log     *zap.Logger
}

func usage() {
	fmt.Fprintf(os.Stderr, `novels CLI
Usage:
  novels [-config file] [-api URL] [-data dir] <cmd> [args]

Session:
  version
  register       -u <username> -p <password> -email <email> [-nickname ...]
  login          -u <username> -p <password>
  logout
  whoami
  profile                                     (refresh from server)
  update-profile [-nickname ...] [-email ...] [-phone ...] [-gender ...] [-avatar ...]

Catalog:
  novels         [-page N] [-limit N] [-tags t1,t2] [-status s] [-search q]
  novel          -id <novelID>
  read           -id <novelID> -chapter <chapterID>
  popular        [-limit N]
  recommend      -id <novelID> [-limit N]
  tags

Engagement:
  like           -id <novelID>
  comment        -id <novelID> -text <content>
  comments       -id <novelID> [-page N] [-limit N]
  fav            -id <novelID>               (toggle favorite)
  fav-status     -id <novelID>
  history
  settings       [-set key=value] [-reset]
`)
	os.Exit(2)
}

// main wires store, pipeline, session manager and tracker, then dispatches.
func main() {
	cfgPath := flag.String("config", filepath.Join(store.DefaultDir(), "client.yaml"), "config file (YAML)")
	apiURL := flag.String("api", "", "API base URL (overrides config)")
	dataDir := flag.String("data", "", "data directory (overrides config)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fail(err)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	st := store.NewFileStore(cfg.DataDir)

	coord := nav.CoordinatorFunc(func(requestedPath string) {
		fmt.Fprintf(os.Stderr, "session expired, please run 'novels login' (wanted: %s)\n", requestedPath)
	})

	// The pipeline evicts rejected credentials itself; the hook tears down
	// the in-memory session and hands navigation to the coordinator.
	var mgr *session.Manager
	client := api.New(cfg.API.BaseURL, cfg.Timeout(), st, logger, func() {
		if mgr != nil {
			mgr.Invalidate()
		}
		coord.RedirectToLogin("/" + cmd)
	})
	mgr = session.New(client, st, logger)
	tracker := reading.New(client, st, logger)

	a := &app{mgr: mgr, tracker: tracker, client: client, coord: coord, log: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("novels %s (%s)\n", version, buildDate)

	case "register":
		a.cmdRegister(ctx, flag.Args()[1:])
	case "login":
		a.cmdLogin(ctx, flag.Args()[1:])
	case "logout":
		a.mgr.Logout()
		fmt.Println("signed out")
	case "whoami":
		a.cmdWhoami()
	case "profile":
		a.cmdProfile(ctx)
	case "update-profile":
		a.cmdUpdateProfile(ctx, flag.Args()[1:])

	case "novels":
		a.cmdNovels(ctx, flag.Args()[1:])
	case "novel":
		a.cmdNovel(ctx, flag.Args()[1:])
	case "read":
		a.cmdRead(ctx, flag.Args()[1:])
	case "popular":
		a.cmdPopular(ctx, flag.Args()[1:])
	case "recommend":
		a.cmdRecommend(ctx, flag.Args()[1:])
	case "tags":
		a.cmdTags(ctx)

	case "like":
		a.cmdLike(ctx, flag.Args()[1:])
	case "comment":
		a.cmdComment(ctx, flag.Args()[1:])
	case "comments":
		a.cmdComments(ctx, flag.Args()[1:])
	case "fav":
		a.cmdToggleFavorite(ctx, flag.Args()[1:])
	case "fav-status":
		a.cmdFavoriteStatus(ctx, flag.Args()[1:])
	case "history":
		a.cmdHistory(ctx)
	case "settings":
		a.cmdSettings(flag.Args()[1:])

	default:
		usage()
	}
}

// gate blocks commands that need a session, sending the reader to login.
func (a *app) gate(requestedPath string) {
	if !nav.Gate(a.mgr.IsAuthenticated(), requestedPath, a.coord) {
		os.Exit(1)
	}
}

// parseSetPair splits "key=value" and types the value: int first, then
// float, then plain string.
func parseSetPair(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("want key=value, got %q", s)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return key, n, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return key, f, nil
	}
	return key, raw, nil
}

func fail(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintf(os.Stderr, "error: %s\n", apiErr.Message)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
