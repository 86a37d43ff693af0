// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paperrank/internal/httputil"
	"github.com/pdiddy/paperrank/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivPDFBase prefixes arXiv identifiers to form PDF links.
const arxivPDFBase = "https://arxiv.org/pdf/"

// Arxiv queries the arXiv Atom API.
type Arxiv struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the source identifier.
func (a *Arxiv) Name() string { return NameArxiv }

// Search queries arXiv, sorted by relevance.
func (a *Arxiv) Search(ctx context.Context, query string, limit int) ([]*types.Paper, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty arXiv query")
	}

	params := url.Values{
		"search_query": {"all:" + strings.Join(terms, " AND all:")},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(clampLimit(limit, 100))},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if a.UserAgent != "" {
		req.Header.Set("User-Agent", a.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []*types.Paper
	for _, entry := range feed.Entries {
		id := extractArxivID(entry.ID)
		if id == "" {
			continue
		}
		p := &types.Paper{
			Title:   collapseSpace(entry.Title),
			DOI:     strings.TrimSpace(entry.DOI),
			Venue:   strings.TrimSpace(entry.JournalRef),
			ArxivID: id,
			PDFLink: arxivPDFBase + id,
		}
		var names []string
		for _, au := range entry.Authors {
			if n := strings.TrimSpace(au.Name); n != "" {
				names = append(names, n)
			}
		}
		p.Authors = strings.Join(names, ", ")
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			p.Year = t.Year()
		}
		p.AddSource(NameArxiv)
		papers = append(papers, p)
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Published  string        `xml:"published"`
	Authors    []arxivAuthor `xml:"author"`
	DOI        string        `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string        `xml:"http://arxiv.org/schemas/atom journal_ref"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" becomes "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
