// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"strings"

	"github.com/pdiddy/paperrank/pkg/types"
)

// OpenAlex API JSON structures.
type worksResponse struct {
	Results []work `json:"results"`
}

type work struct {
	ID              string       `json:"id"`
	DOI             string       `json:"doi"`
	Title           string       `json:"title"`
	PublicationYear int          `json:"publication_year"`
	PrimaryLocation *location    `json:"primary_location"`
	Authorships     []authorship `json:"authorships"`
	CitedByCount    int          `json:"cited_by_count"`
	ReferencedWorks []string     `json:"referenced_works"`
	BestOALocation  *location    `json:"best_oa_location"`
}

type location struct {
	PDFURL string  `json:"pdf_url"`
	Source *source `json:"source"`
}

type source struct {
	DisplayName string `json:"display_name"`
}

type authorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type authorsResponse struct {
	Results []struct {
		DisplayName  string `json:"display_name"`
		SummaryStats struct {
			HIndex int `json:"h_index"`
		} `json:"summary_stats"`
	} `json:"results"`
}

func (w work) toWork() types.Work {
	out := types.Work{
		ID:            ShortID(w.ID),
		DOI:           w.DOI,
		Title:         w.Title,
		Year:          w.PublicationYear,
		CitationCount: w.CitedByCount,
	}

	var names []string
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			names = append(names, a.Author.DisplayName)
		}
	}
	out.Authors = strings.Join(names, ", ")

	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		out.Venue = w.PrimaryLocation.Source.DisplayName
	}
	if w.BestOALocation != nil {
		out.PDFLink = w.BestOALocation.PDFURL
	}
	for _, ref := range w.ReferencedWorks {
		if id := ShortID(ref); id != "" {
			out.ReferencedIDs = append(out.ReferencedIDs, id)
		}
	}
	return out
}
