package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"paper-assistant-be/internal/entity"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
)

const defaultBaseURL = "http://export.arxiv.org/api/query"

// Client fetches paper metadata from the arXiv Atom API. Responses are
// cached briefly so the scheduler and manual searches do not hammer the
// API for the same query.
type Client struct {
	http  *resty.Client
	cache *cache.Cache
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetHeader("User-Agent", "paper-assistant-be/1.0")

	return &Client{
		http:  r,
		cache: cache.New(10*time.Minute, 30*time.Minute),
	}
}

// Search queries arXiv for maxResults papers matching query, newest
// submissions first.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]*entity.Paper, error) {
	if maxResults <= 0 {
		maxResults = 20
	}

	cacheKey := fmt.Sprintf("%s|%d", query, maxResults)
	if hit, found := c.cache.Get(cacheKey); found {
		return hit.([]*entity.Paper), nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"search_query": query,
			"start":        "0",
			"max_results":  fmt.Sprintf("%d", maxResults),
			"sortBy":       "submittedDate",
			"sortOrder":    "descending",
		}).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("arxiv error: status %d", resp.StatusCode())
	}

	papers, err := parseFeed(resp.Body())
	if err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, papers, cache.DefaultExpiration)
	return papers, nil
}

// --- Atom feed structures ---

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

func parseFeed(body []byte) ([]*entity.Paper, error) {
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	papers := make([]*entity.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		paper := entryToPaper(entry)
		if paper == nil {
			continue
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

func entryToPaper(entry atomEntry) *entity.Paper {
	id := arxivID(entry.ID)
	if id == "" {
		return nil
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	categories := make([]string, 0, len(entry.Categories))
	for _, c := range entry.Categories {
		if c.Term != "" {
			categories = append(categories, c.Term)
		}
	}

	pdfURL := ""
	for _, link := range entry.Links {
		if link.Title == "pdf" {
			pdfURL = link.Href
			break
		}
	}
	if pdfURL == "" {
		pdfURL = "https://arxiv.org/pdf/" + id
	}

	paper := &entity.Paper{
		Id:         id,
		Title:      collapseWhitespace(entry.Title),
		Authors:    strings.Join(authors, ", "),
		Summary:    collapseWhitespace(entry.Summary),
		Categories: strings.Join(categories, ", "),
		PdfUrl:     pdfURL,
	}
	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		paper.Published = t
	}
	return paper
}

// arxivID extracts the identifier from an entry id URL like
// "http://arxiv.org/abs/2405.12345v2".
func arxivID(rawID string) string {
	idx := strings.LastIndex(rawID, "/abs/")
	if idx < 0 {
		return strings.TrimSpace(rawID)
	}
	return strings.TrimSpace(rawID[idx+len("/abs/"):])
}

// collapseWhitespace squeezes the newline-wrapped text arXiv returns into
// single-spaced prose.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
