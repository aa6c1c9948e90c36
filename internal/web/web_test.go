package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  ", ""},
		{"korze.org", "https://korze.org"},
		{"http://example.com", "http://example.com"},
		{"HTTPS://example.com/x", "HTTPS://example.com/x"},
		{" example.com/path?q=1 ", "https://example.com/path?q=1"},
		{"ftp://example.com", "https://ftp://example.com"},
	}
	for _, tc := range tests {
		if got := NormalizeURL(tc.in); got != tc.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func newTestClient() *Client {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	return NewClient(cfg)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing user agent")
		}
		w.Header().Set("X-Test", "yes")
		if r.URL.Path == "/missing" {
			http.Error(w, "nope", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "hello body")
	}))
	defer srv.Close()

	c := newTestClient()
	resp, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Status != "200 OK" {
		t.Errorf("status = %d %q", resp.StatusCode, resp.Status)
	}
	if resp.Body != "hello body" {
		t.Errorf("body = %q", resp.Body)
	}
	if resp.Header.Get("X-Test") != "yes" {
		t.Errorf("headers = %v", resp.Header)
	}

	resp, err = c.Fetch(context.Background(), srv.URL+"/missing")
	if err != nil {
		t.Fatalf("a 404 is a response, not an error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestFetchTruncatesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "0123456789")
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 4
	resp, err := NewClient(cfg).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Body != "0123" {
		t.Errorf("body = %q, want %q", resp.Body, "0123")
	}
}

func TestFetchErrors(t *testing.T) {
	c := newTestClient()
	if _, err := c.Fetch(context.Background(), " "); err != ErrEmptyURL {
		t.Errorf("empty url err = %v", err)
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	if _, err := c.Fetch(context.Background(), url); err == nil {
		t.Error("expected a transport error from a closed server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Fetch(ctx, "http://127.0.0.1:1"); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

const samplePage = `<!doctype html>
<html><head><title>  Korze   Home </title><style>p{}</style></head>
<body>
<script>alert(1)</script>
<h1>Welcome</h1>
<p>First   paragraph
 text.</p>
<ul><li><p>nested item</p></li><li>second</li></ul>
<pre>line one
  line two</pre>
<a href="/about">About</a>
<a href="https://other.example/">Other</a>
<a href="/about">About again</a>
<a href="#top">Top</a>
<a href="javascript:void(0)">JS</a>
</body></html>`

func TestParsePage(t *testing.T) {
	page, err := ParsePage("https://korze.org/index.html", samplePage)
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "Korze Home" {
		t.Errorf("title = %q", page.Title)
	}

	wantLines := []string{
		"# Welcome",
		"First paragraph text.",
		"• nested item",
		"• second",
		"line one",
		"  line two",
	}
	if diff := cmp.Diff(wantLines, page.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	wantLinks := []Link{
		{Text: "About", Href: "https://korze.org/about"},
		{Text: "Other", Href: "https://other.example/"},
	}
	if diff := cmp.Diff(wantLinks, page.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePageTitleFallbacks(t *testing.T) {
	page, err := ParsePage("https://korze.org/", "<h1>Only heading</h1>")
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "Only heading" {
		t.Errorf("title = %q", page.Title)
	}

	page, err = ParsePage("https://korze.org/", "<div>just text</div>")
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "korze.org" {
		t.Errorf("title = %q, want host", page.Title)
	}
	if diff := cmp.Diff([]string{"just text"}, page.Lines); diff != "" {
		t.Errorf("body fallback mismatch:\n%s", diff)
	}
}

func TestBrowse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/plain" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprint(w, "a\r\nb")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	c := newTestClient()
	page, err := c.Browse(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "Korze Home" || page.StatusCode != http.StatusOK {
		t.Errorf("page = %q %d", page.Title, page.StatusCode)
	}

	page, err = c.Browse(context.Background(), srv.URL+"/plain")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, page.Lines); diff != "" {
		t.Errorf("plain lines mismatch:\n%s", diff)
	}
}
