// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// Column aliases observed across Scopus, IEEE Xplore, and ScienceDirect
// exports. The first header present wins. Matching is case-insensitive.
var (
	titleColumns  = []string{"Document Title", "Title", "Article Title", "Item Title", "publicationTitle"}
	doiColumns    = []string{"DOI", "DOI Link", "DOI URL", "Article DOI"}
	authorColumns = []string{"Authors", "Author(s)", "Authors Full Names", "Author full names", "Authors with affiliations"}
	yearColumns   = []string{"Publication Year", "Year", "Issue Year", "Publication year"}
	venueColumns  = []string{"Publication Title", "Source title", "Journal", "Conference name"}
	urlColumns    = []string{"PDF Link", "Link", "URL", "Document Link", "Article URL"}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser reads a header-driven CSV export. Column names vary per
// database, so each field is resolved through an alias list. Files that
// are not valid UTF-8 are decoded as Latin-1, matching the encodings
// citation databases actually emit.
type CSVParser struct{}

func (p *CSVParser) Name() string { return "csv" }

// Parse reads every data row into a record. Rows whose title and DOI are
// both empty are still emitted so that no screening candidate is lost;
// only fully blank rows are skipped.
func (p *CSVParser) Parse(r io.Reader, src types.Source, set string) ([]types.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		data, err = io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder()))
		if err != nil {
			return nil, fmt.Errorf("decoding export as Latin-1: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := columnIndex{header: header}
	titleIdx := cols.first(titleColumns)
	doiIdx := cols.first(doiColumns)
	authorIdx := cols.first(authorColumns)
	yearIdx := cols.first(yearColumns)
	venueIdx := cols.first(venueColumns)
	urlIdx := cols.first(urlColumns)
	if titleIdx < 0 {
		return nil, fmt.Errorf("no title column found in header %v", header)
	}

	var records []types.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if blankRow(row) {
			continue
		}
		records = append(records, types.Record{
			Source:   src,
			QuerySet: set,
			RawTitle: field(row, titleIdx),
			RawDOI:   field(row, doiIdx),
			Authors:  field(row, authorIdx),
			Year:     field(row, yearIdx),
			Venue:    field(row, venueIdx),
			URL:      field(row, urlIdx),
		})
	}
	return records, nil
}

type columnIndex struct {
	header []string
}

// first returns the index of the first alias present in the header, or -1.
func (c columnIndex) first(aliases []string) int {
	for _, alias := range aliases {
		for i, h := range c.header {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return i
			}
		}
	}
	return -1
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
