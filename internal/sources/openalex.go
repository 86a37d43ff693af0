// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"

	"github.com/pdiddy/paperrank/pkg/types"
)

// OpenAlexSearcher is the search capability of the OpenAlex client.
type OpenAlexSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]types.Work, error)
}

// OpenAlex adapts the OpenAlex works search to a Source.
type OpenAlex struct {
	Client OpenAlexSearcher
}

// Name returns the source identifier.
func (o *OpenAlex) Name() string { return NameOpenAlex }

// Search queries OpenAlex.
func (o *OpenAlex) Search(ctx context.Context, query string, limit int) ([]*types.Paper, error) {
	works, err := o.Client.Search(ctx, query, clampLimit(limit, 200))
	if err != nil {
		return nil, fmt.Errorf("OpenAlex search: %w", err)
	}
	papers := make([]*types.Paper, 0, len(works))
	for _, w := range works {
		p := &types.Paper{
			DOI:           w.DOI,
			Title:         w.Title,
			Year:          w.Year,
			Authors:       w.Authors,
			Venue:         w.Venue,
			OpenAlexID:    w.ID,
			CitationCount: w.CitationCount,
			PDFLink:       w.PDFLink,
		}
		p.AddSource(NameOpenAlex)
		papers = append(papers, p)
	}
	return papers, nil
}
