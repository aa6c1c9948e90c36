package web

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector lists the elements rendered as their own line.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, dt, dd, figcaption, td, th"

// Link is an anchor found on a page, resolved against the page URL.
type Link struct {
	Text string
	Href string
}

// Page is a fetched document reduced to text for the browser window.
type Page struct {
	URL        string
	StatusCode int
	Title      string
	Lines      []string
	Links      []Link
}

// Browse fetches rawURL and reduces it to a Page. HTML is parsed; any other
// content type is shown as plain text.
func (c *Client) Browse(ctx context.Context, rawURL string) (*Page, error) {
	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "" && mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return &Page{
			URL:        resp.URL,
			StatusCode: resp.StatusCode,
			Title:      resp.URL,
			Lines:      strings.Split(strings.ReplaceAll(resp.Body, "\r\n", "\n"), "\n"),
		}, nil
	}

	page, err := ParsePage(resp.URL, resp.Body)
	if err != nil {
		return nil, err
	}
	page.StatusCode = resp.StatusCode
	return page, nil
}

// ParsePage extracts the title, readable text lines and links of an HTML
// document. Relative links are resolved against base.
func ParsePage(base, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	page := &Page{URL: base}
	page.Title = collapse(doc.Find("title").First().Text())
	if page.Title == "" {
		page.Title = collapse(doc.Find("h1").First().Text())
	}
	if page.Title == "" {
		page.Title = baseURL.Host
	}

	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are emitted by their outermost ancestor.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		switch tag := goquery.NodeName(s); tag {
		case "pre":
			page.Lines = append(page.Lines, strings.Split(strings.TrimRight(s.Text(), "\n"), "\n")...)
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := collapse(s.Text()); text != "" {
				page.Lines = append(page.Lines, "", strings.Repeat("#", int(tag[1]-'0'))+" "+text)
			}
		case "li":
			if text := collapse(s.Text()); text != "" {
				page.Lines = append(page.Lines, "• "+text)
			}
		default:
			if text := collapse(s.Text()); text != "" {
				page.Lines = append(page.Lines, text)
			}
		}
	})
	if len(page.Lines) == 0 {
		if text := collapse(doc.Find("body").Text()); text != "" {
			page.Lines = []string{text}
		}
	}
	for len(page.Lines) > 0 && page.Lines[0] == "" {
		page.Lines = page.Lines[1:]
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := baseURL.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		text := collapse(s.Text())
		if text == "" {
			text = abs
		}
		page.Links = append(page.Links, Link{Text: text, Href: abs})
	})

	return page, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
