package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Enterzhang/novels2.0/internal/model"
)

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// cmdRegister creates the account, then chains a sign-in. A failed chained
// sign-in is reported separately: the registration itself still succeeded.
func (a *app) cmdRegister(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	u := fs.String("u", "", "username")
	p := fs.String("p", "", "password")
	email := fs.String("email", "", "email")
	nickname := fs.String("nickname", "", "nickname")
	_ = fs.Parse(args)
	if *u == "" || *p == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "need -u, -p and -email")
		os.Exit(1)
	}

	user, err := a.mgr.Register(ctx, model.Registration{
		Username: *u,
		Password: *p,
		Email:    *email,
		Nickname: *nickname,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("registered %s\n", user.Username)

	if _, err := a.mgr.Login(ctx, *u, *p); err != nil {
		fmt.Fprintln(os.Stderr, "registered, but automatic sign-in failed; run 'novels login'")
		return
	}
	fmt.Println("signed in")
}

func (a *app) cmdLogin(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	u := fs.String("u", "", "username")
	p := fs.String("p", "", "password")
	_ = fs.Parse(args)
	if *u == "" || *p == "" {
		fmt.Fprintln(os.Stderr, "need -u and -p")
		os.Exit(1)
	}

	user, err := a.mgr.Login(ctx, *u, *p)
	if err != nil {
		fail(err)
	}
	fmt.Printf("signed in as %s\n", user.Username)
}

func (a *app) cmdWhoami() {
	if !a.mgr.IsAuthenticated() {
		fmt.Println("not signed in")
		return
	}
	u := a.mgr.User()
	fmt.Printf("%s (%s) state=%s\n", u.Username, u.Email, a.mgr.State())
	if exp, ok := a.mgr.TokenExpiry(); ok {
		fmt.Printf("token expires %s\n", exp.UTC().Format(time.RFC3339))
	}
}

// cmdProfile refreshes the snapshot from the server and prints it.
func (a *app) cmdProfile(ctx context.Context) {
	a.gate("/profile")
	u := a.mgr.RefreshUserInfo(ctx)
	if u == nil {
		// cached copy still usable; stale beats nothing
		u = a.mgr.User()
		if u == nil {
			fmt.Fprintln(os.Stderr, "no profile available")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "refresh failed, showing cached profile")
	}
	printJSON(u)
}

func (a *app) cmdUpdateProfile(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("update-profile", flag.ExitOnError)
	nickname := fs.String("nickname", "", "nickname")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone")
	gender := fs.String("gender", "", "gender")
	avatar := fs.String("avatar", "", "avatar URL")
	_ = fs.Parse(args)

	a.gate("/profile")
	u, err := a.mgr.UpdateUserInfo(ctx, model.ProfileUpdate{
		Nickname: *nickname,
		Email:    *email,
		Phone:    *phone,
		Gender:   *gender,
		Avatar:   *avatar,
	})
	if err != nil {
		fail(err)
	}
	printJSON(u)
}
