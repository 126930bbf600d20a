// Package options resolves CLI/IPP key=value option strings into the
// strongly typed model.PrintOptions structure. Parsing happens once at
// this edge; internal components never compare option strings again.
package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/printworks/ipptransform/internal/model"
)

// knownMedia is a small built-in media table. Hundredths-of-mm sizes and a
// 0 margin on every side (borderless); callers needing a framed margin
// should override Margins after lookup.
var knownMedia = map[string]model.MediaSize{
	"na_letter_8.5x11in": {Name: "na_letter_8.5x11in", WidthHundMM: 21590, HeightHundMM: 27940},
	"na_legal_8.5x14in":  {Name: "na_legal_8.5x14in", WidthHundMM: 21590, HeightHundMM: 35560},
	"iso_a4_210x297mm":   {Name: "iso_a4_210x297mm", WidthHundMM: 21000, HeightHundMM: 29700},
	"iso_a5_148x210mm":   {Name: "iso_a5_148x210mm", WidthHundMM: 14800, HeightHundMM: 21000},
	"na_index-4x6_4x6in": {Name: "na_index-4x6_4x6in", WidthHundMM: 10160, HeightHundMM: 15240},
}

// LookupMedia resolves a PWG media keyword to its dimensions.
func LookupMedia(name string) (model.MediaSize, error) {
	m, ok := knownMedia[name]
	if !ok {
		return model.MediaSize{}, fmt.Errorf("%w: unknown media %q", errUnsupported, name)
	}
	return m, nil
}

var errUnsupported = fmt.Errorf("unsupported option")

// ParsePageRanges parses a CUPS-style "1-4,7,9-" page range list. An open
// upper bound ("9-") resolves to lastPage.
func ParsePageRanges(s string, lastPage int) ([]model.PageRange, error) {
	if s == "" {
		return nil, nil
	}
	var ranges []model.PageRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.IndexByte(part, '-'); idx >= 0 {
			firstStr, lastStr := part[:idx], part[idx+1:]
			first, err := strconv.Atoi(firstStr)
			if err != nil {
				return nil, fmt.Errorf("%w: bad page range %q", errUnsupported, part)
			}
			last := lastPage
			if lastStr != "" {
				last, err = strconv.Atoi(lastStr)
				if err != nil {
					return nil, fmt.Errorf("%w: bad page range %q", errUnsupported, part)
				}
			}
			ranges = append(ranges, model.PageRange{First: first, Last: last})
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: bad page number %q", errUnsupported, part)
		}
		ranges = append(ranges, model.PageRange{First: n, Last: n})
	}
	return ranges, nil
}

// NumberUpGrid returns (cols, rows) for a supported number-up value, per
// spec.md §3's LayoutGrid table.
func NumberUpGrid(numberUp int) (cols, rows int, err error) {
	switch numberUp {
	case 1:
		return 1, 1, nil
	case 2:
		return 1, 2, nil
	case 4:
		return 2, 2, nil
	case 6:
		return 2, 3, nil
	case 9:
		return 3, 3, nil
	case 12:
		return 3, 4, nil
	case 16:
		return 4, 4, nil
	default:
		return 0, 0, fmt.Errorf("%w: number-up=%d", errUnsupported, numberUp)
	}
}
