package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"frontdesk/pkg/config"
	"frontdesk/pkg/session"
)

func main() {
	var (
		userID  = flag.Int64("user", 0, "backend user id the operator acts as")
		name    = flag.String("name", "", "operator display name")
		hotelID = flag.Int64("hotel", 0, "default hotel id (0 = first hotel)")
		ttl     = flag.Duration("ttl", 8*time.Hour, "token lifetime")
		secret  = flag.String("secret", "", "SESSION_SECRET used by the server")
	)
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "missing -user")
		os.Exit(2)
	}

	cfg := config.Load()

	// Prefer explicit flag, otherwise take from config/env (.env is loaded by config.Load()).
	if *secret == "" {
		*secret = cfg.Session.Secret
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret (or SESSION_SECRET in env/.env)")
		os.Exit(2)
	}

	op := session.Operator{UserID: *userID, Name: *name, HotelID: *hotelID}
	token, err := session.Mint(op, *secret, cfg.Session.Issuer, cfg.Session.Audience, time.Now(), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mint: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "\nexpires in %s. Try:\n", *ttl)
	fmt.Fprintf(os.Stderr, "  curl -H 'Authorization: Bearer %s' %s/v1/board\n", token, baseURL(cfg.HTTPAddr))
}

func baseURL(httpAddr string) string {
	if len(httpAddr) > 0 && httpAddr[0] == ':' {
		return "http://localhost" + httpAddr
	}
	return "http://" + httpAddr
}
