// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// corpusHeader is the minimal clean column set for the screening
// spreadsheet collaborators build on top of the corpus.
var corpusHeader = []string{"source", "query_set", "title", "authors", "year", "venue", "doi", "url"}

// WriteCorpusCSV writes the corpus records in order with their original
// payload fields intact.
func WriteCorpusCSV(corpus types.Corpus, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(corpusHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range corpus.Records {
		row := []string{string(r.Source), r.QuerySet, r.RawTitle, r.Authors, r.Year, r.Venue, r.RawDOI, r.URL}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
