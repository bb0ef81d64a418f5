// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/screening-engine/internal/normalize"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// yearPattern matches a standalone publication year.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// TextParser handles loosely structured text exports where records are
// blank-line-separated blocks. Extraction is DOI-anchored: any line
// carrying an extractable DOI supplies the identifier, the first other
// non-URL line supplies the title, and a year is picked up when one
// appears on its own metadata line.
type TextParser struct{}

func (p *TextParser) Name() string { return "text" }

func (p *TextParser) Parse(r io.Reader, src types.Source, set string) ([]types.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []types.Record
	var block []string
	flush := func() {
		if rec, ok := blockRecord(block, src, set); ok {
			records = append(records, rec)
		}
		block = block[:0]
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning export: %w", err)
	}
	flush()

	return records, nil
}

// blockRecord assembles one record from a block of non-empty lines.
// Only blocks carrying an extractable DOI become records; everything
// else (page headers, separators, stray prose) is noise.
func blockRecord(block []string, src types.Source, set string) (types.Record, bool) {
	rec := types.Record{Source: src, QuerySet: set}

	for _, line := range block {
		if rec.RawDOI == "" && normalize.DOIKey(line) != "" {
			rec.RawDOI = line
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "authors:"):
			rec.Authors = strings.TrimSpace(line[len("authors:"):])
		case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
			if rec.URL == "" {
				rec.URL = line
			}
		case rec.RawTitle == "":
			rec.RawTitle = line
		case rec.Year == "" && yearPattern.MatchString(line) && len(line) < 60:
			// Short metadata line like "IEEE Access, 2021" or "2021, pp. 1-14".
			rec.Year = yearPattern.FindString(line)
			if rec.Venue == "" {
				if venue := strings.TrimSpace(strings.Trim(yearPattern.ReplaceAllString(line, ""), " ,.-")); venue != "" {
					rec.Venue = venue
				}
			}
		}
	}

	if rec.RawDOI == "" {
		return types.Record{}, false
	}
	return rec, true
}
