// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paperrank/internal/httputil"
	"github.com/pdiddy/paperrank/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

const crossrefSelect = "DOI,title,author,container-title,issued,is-referenced-by-count,link"

// Crossref queries the Crossref REST API.
type Crossref struct {
	Client *http.Client
	// Email is sent as mailto for polite pool access.
	Email     string
	UserAgent string
}

// Name returns the source identifier.
func (c *Crossref) Name() string { return NameCrossref }

// Search queries Crossref bibliographic metadata.
func (c *Crossref) Search(ctx context.Context, query string, limit int) ([]*types.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty Crossref query")
	}

	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {strconv.Itoa(clampLimit(limit, 100))},
		"select":              {crossrefSelect},
	}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	var cr crossrefResponse
	headers := map[string]string{"User-Agent": c.UserAgent}
	if err := httputil.GetJSON(ctx, c.Client, crossrefAPIBase+"?"+params.Encode(), headers, 0, &cr); err != nil {
		return nil, fmt.Errorf("Crossref search: %w", err)
	}

	papers := make([]*types.Paper, 0, len(cr.Message.Items))
	for _, it := range cr.Message.Items {
		p := &types.Paper{
			DOI:           it.DOI,
			Title:         first(it.Title),
			Venue:         first(it.ContainerTitle),
			Year:          it.Issued.year(),
			CitationCount: it.ReferencedBy,
			PDFLink:       it.pdfLink(),
		}
		var names []string
		for _, a := range it.Author {
			if n := strings.TrimSpace(a.Given + " " + a.Family); n != "" {
				names = append(names, n)
			}
		}
		p.Authors = strings.Join(names, ", ")
		p.AddSource(NameCrossref)
		papers = append(papers, p)
	}
	return papers, nil
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefItem struct {
	DOI            string           `json:"DOI"`
	Title          []string         `json:"title"`
	ContainerTitle []string         `json:"container-title"`
	Author         []crossrefAuthor `json:"author"`
	Issued         crossrefDate     `json:"issued"`
	ReferencedBy   int              `json:"is-referenced-by-count"`
	Link           []crossrefLink   `json:"link"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

type crossrefLink struct {
	URL         string `json:"URL"`
	ContentType string `json:"content-type"`
}

func (d crossrefDate) year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

func (it crossrefItem) pdfLink() string {
	for _, l := range it.Link {
		if l.ContentType == "application/pdf" {
			return l.URL
		}
	}
	return ""
}

func first(ss []string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
