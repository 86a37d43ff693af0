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

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,authors,externalIds,year,venue,citationCount,influentialCitationCount,openAccessPdf"

// SemanticScholar queries the Semantic Scholar Graph API.
type SemanticScholar struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the source identifier.
func (s *SemanticScholar) Name() string { return NameSemanticScholar }

// Search queries Semantic Scholar.
func (s *SemanticScholar) Search(ctx context.Context, query string, limit int) ([]*types.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(clampLimit(limit, 100))},
		"fields": {semanticFields},
	}
	headers := map[string]string{"User-Agent": s.UserAgent, "x-api-key": s.APIKey}

	var sr semanticResponse
	if err := httputil.GetJSON(ctx, s.Client, semanticAPIBase+"?"+params.Encode(), headers, 0, &sr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar search: %w", err)
	}

	papers := make([]*types.Paper, 0, len(sr.Data))
	for _, d := range sr.Data {
		p := &types.Paper{
			Title:                    strings.TrimSpace(d.Title),
			Year:                     d.Year,
			Venue:                    d.Venue,
			DOI:                      d.ExternalIDs.DOI,
			ArxivID:                  d.ExternalIDs.ArXiv,
			SemanticScholarID:        d.PaperID,
			CitationCount:            d.CitationCount,
			InfluentialCitationCount: d.InfluentialCitationCount,
		}
		var names []string
		for _, a := range d.Authors {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		p.Authors = strings.Join(names, ", ")
		if d.OpenAccessPDF != nil {
			p.PDFLink = d.OpenAccessPDF.URL
		}
		p.AddSource(NameSemanticScholar)
		papers = append(papers, p)
	}
	return papers, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID                  string              `json:"paperId"`
	Title                    string              `json:"title"`
	Year                     int                 `json:"year"`
	Venue                    string              `json:"venue"`
	CitationCount            int                 `json:"citationCount"`
	InfluentialCitationCount int                 `json:"influentialCitationCount"`
	Authors                  []semanticAuthor    `json:"authors"`
	ExternalIDs              semanticExternalIDs `json:"externalIds"`
	OpenAccessPDF            *semanticPDF        `json:"openAccessPdf"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

type semanticPDF struct {
	URL string `json:"url"`
}
