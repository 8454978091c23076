package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// simselect drives one drag gesture against a running API: it opens a board,
// presses on the first cell, moves across the range and releases.
func main() {
	var (
		base         = flag.String("url", "", "API base url (defaults to http://localhost<HTTP_ADDR>)")
		userID       = flag.Int64("user", 2, "dev operator id sent as X-User-Id")
		token        = flag.String("token", "", "operator bearer token (see cmd/dev/devtoken)")
		month        = flag.String("month", "", "board month, YYYY-MM (defaults to the current month)")
		roomID       = flag.Int64("room", 0, "room id")
		from         = flag.Int("from", 0, "first day of the range")
		to           = flag.Int("to", 0, "last day of the range")
		confirmReuse = flag.Bool("confirm-reuse", false, "accept reusing a room_ready booking")
	)
	flag.Parse()

	if *roomID <= 0 || *from <= 0 {
		fmt.Fprintln(os.Stderr, "missing -room or -from")
		os.Exit(2)
	}
	if *to <= 0 {
		*to = *from
	}
	if *base == "" {
		*base = defaultBaseURL(os.Getenv("HTTP_ADDR"))
	}

	c := &client{
		http:   &http.Client{Timeout: 30 * time.Second},
		base:   strings.TrimRight(*base, "/"),
		userID: *userID,
		token:  *token,
	}

	path := "/v1/board"
	if *month != "" {
		path += "?month=" + *month
	}
	c.mustDo(http.MethodGet, path, nil, "board")

	c.mustDo(http.MethodPost, "/v1/board/selection/start", cell{RoomID: *roomID, Day: *from}, "start")
	step := 1
	if *to < *from {
		step = -1
	}
	for d := *from + step; d != *to+step; d += step {
		c.mustDo(http.MethodPost, "/v1/board/selection/move", cell{RoomID: *roomID, Day: d}, "move "+strconv.Itoa(d))
	}
	c.mustDo(http.MethodPost, "/v1/board/selection/end", cell{ConfirmReuse: *confirmReuse}, "end")
}

type cell struct {
	RoomID       int64 `json:"room_id,omitempty"`
	Day          int   `json:"day,omitempty"`
	ConfirmReuse bool  `json:"confirm_reuse,omitempty"`
}

type client struct {
	http    *http.Client
	base    string
	userID  int64
	token   string
	session string
}

func (c *client) mustDo(method, path string, body any, label string) {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.Header.Set("X-User-Id", strconv.FormatInt(c.userID, 10))
	}
	if c.session != "" {
		req.Header.Set("X-Board-Session", c.session)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		fmt.Fprintf(os.Stderr, "tip: is the API running, and is HTTP_ADDR set correctly? url=%s\n", c.base)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if sid := resp.Header.Get("X-Board-Session"); sid != "" {
		c.session = sid
	}

	out, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "%s status=%d body=%s\n", label, resp.StatusCode, string(out))
		os.Exit(1)
	}
	if label == "board" {
		// The snapshot is large; only echo the session.
		fmt.Printf("%s status=%d session=%s\n", label, resp.StatusCode, c.session)
		return
	}
	fmt.Printf("%s status=%d\n%s\n", label, resp.StatusCode, strings.TrimSpace(string(out)))
}

func defaultBaseURL(httpAddr string) string {
	// httpAddr is typically ":8081" or "0.0.0.0:8081".
	addr := strings.TrimSpace(httpAddr)
	if addr == "" {
		addr = ":8081"
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	if strings.HasPrefix(addr, "0.0.0.0:") {
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + addr
}
