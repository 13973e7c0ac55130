package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// fetchWebPages fetches a page, converts it to markdown and wraps it in
// FileNodes so web pages can take part in a generated document the same
// way local files do. When maxDepth is positive, it follows
// same-origin links breadth-first up to that depth. Visited URLs are
// tracked so link loops terminate; fetch failures on linked pages are
// skipped rather than failing the run.
func fetchWebPages(rawURL string, maxDepth int) ([]FileNode, error) {
	start, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}
	start.Fragment = ""

	visited := map[string]bool{start.String(): true}
	frontier := []*url.URL{start}
	var nodes []FileNode

	for depth := 0; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []*url.URL
		for _, page := range frontier {
			node, links, err := fetchPage(page)
			if err != nil {
				if depth == 0 {
					return nil, err
				}
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				continue
			}
			nodes = append(nodes, node)

			for _, link := range links {
				if link.Host != start.Host || visited[link.String()] {
					continue
				}
				visited[link.String()] = true
				next = append(next, link)
			}
		}
		frontier = next
	}

	return nodes, nil
}

func fetchPage(page *url.URL) (FileNode, []*url.URL, error) {
	res, err := http.Get(page.String())
	if err != nil {
		return FileNode{}, nil, fmt.Errorf("failed to fetch %s: %w", page, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return FileNode{}, nil, fmt.Errorf("failed to fetch %s: status %d", page, res.StatusCode)
	}

	contentType := strings.ToLower(res.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") {
		return FileNode{}, nil, fmt.Errorf("unsupported content type %q for %s", contentType, page)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return FileNode{}, nil, fmt.Errorf("failed to read response from %s: %w", page, err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(string(body))
	if err != nil {
		return FileNode{}, nil, fmt.Errorf("failed to convert %s to markdown: %w", page, err)
	}

	node := FileNode{
		Path:     webNodePath(page),
		Size:     int64(len(markdown)),
		Content:  []byte(markdown),
		Language: "markdown",
	}

	return node, extractLinks(page, body), nil
}

// extractLinks parses the raw HTML for anchor targets, resolved against
// the page URL. Fragment, mailto and javascript links are skipped.
func extractLinks(page *url.URL, body []byte) []*url.URL {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}

	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") {
			return
		}
		resolved, err := page.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		resolved.Fragment = ""
		links = append(links, resolved)
	})
	return links
}

// webNodePath turns a URL into a document-friendly relative path, e.g.
// https://example.com/docs/intro -> example.com/docs/intro.md.
func webNodePath(u *url.URL) string {
	p := strings.Trim(u.Path, "/")
	if p == "" {
		p = "index"
	}
	if path.Ext(p) == "" {
		p += ".md"
	}
	return path.Join(u.Host, p)
}
