// Package wikipedia is a thin MediaWiki API client used by the
// encyclopedia search tool. Responses are cached in memory since the
// agent tends to re-query the same pages within a conversation.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultAPIURL = "https://en.wikipedia.org/w/api.php"

// Section is a heading plus the plain text underneath it.
type Section struct {
	Title   string
	Content string
}

// Page is a fetched article split into sections. The lead paragraph (the
// text before the first heading) is kept as an untitled section.
type Page struct {
	Title    string
	URL      string
	Sections []Section
}

// Searcher is implemented by the client; the agent tool depends on this
// interface so tests can script results.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	FetchPage(ctx context.Context, title string) (*Page, error)
}

type Client struct {
	apiURL string
	http   *http.Client
	cache  *gocache.Cache
}

func NewClient() *Client {
	return &Client{
		apiURL: defaultAPIURL,
		http:   &http.Client{Timeout: 30 * time.Second},
		cache:  gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// NewClientWithURL is used by tests to point at a fake server.
func NewClientWithURL(apiURL string) *Client {
	c := NewClient()
	c.apiURL = apiURL
	return c
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia request failed, status %d, body %s", res.StatusCode, string(body))
	}
	return body, nil
}

// Search returns up to limit page titles matching the query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", limit))

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(parsed.Query.Search))
	for _, s := range parsed.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

// FetchPage loads the plain-text extract of a page and splits it into
// sections.
func (c *Client) FetchPage(ctx context.Context, title string) (*Page, error) {
	if cached, found := c.cache.Get(title); found {
		return cached.(*Page), nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Query struct {
			Pages map[string]struct {
				Title   string `json:"title"`
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	for _, p := range parsed.Query.Pages {
		if p.Extract == "" {
			continue
		}
		page := &Page{
			Title:    p.Title,
			URL:      PageURL(p.Title),
			Sections: parseSections(p.Extract),
		}
		c.cache.Set(title, page, gocache.DefaultExpiration)
		return page, nil
	}
	return nil, nil
}

// PageURL builds the canonical article URL for a title.
func PageURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// FragmentAnchor turns a section title into its URL fragment.
func FragmentAnchor(sectionTitle string) string {
	return strings.ReplaceAll(sectionTitle, " ", "_")
}

// parseSections splits a plain-text extract on its "== Heading ==" lines.
// Deeper headings (===, ====) stay inside their parent section.
func parseSections(extract string) []Section {
	var sections []Section
	current := Section{}
	var content strings.Builder

	flush := func() {
		text := strings.TrimSpace(content.String())
		if text != "" {
			current.Content = text
			sections = append(sections, current)
		}
		content.Reset()
	}

	for _, line := range strings.Split(extract, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "== ") && strings.HasSuffix(trimmed, " ==") && !strings.HasPrefix(trimmed, "=== ") {
			flush()
			current = Section{Title: strings.TrimSpace(strings.Trim(trimmed, "="))}
			continue
		}
		content.WriteString(line)
		content.WriteString("\n")
	}
	flush()

	return sections
}
