package prep

import (
	"fmt"
	"strings"
)

// ResourceRemap maps a resource category ("Font", "XObject", …) and
// original name to the renamed token used once cells are merged onto a
// shared page, resolving collisions between cells that each brought their
// own /F1, /Im0, etc.
type ResourceRemap map[string]map[string]string

// Lookup returns the renamed token for category/name, or name unchanged
// if no remap was registered for it.
func (r ResourceRemap) Lookup(category, name string) string {
	if cat, ok := r[category]; ok {
		if renamed, ok := cat[name]; ok {
			return renamed
		}
	}
	return name
}

// Set registers a remap entry, creating the category map if needed.
func (r ResourceRemap) Set(category, name, renamed string) {
	if r[category] == nil {
		r[category] = make(map[string]string)
	}
	r[category][name] = renamed
}

// resourceCategories lists the PDF resource dictionary keys §4.2 requires
// unioning and remapping on collision.
var resourceCategories = []string{
	"ColorSpace", "ExtGState", "Font", "Pattern", "ProcSet", "Properties",
	"Shading", "XObject",
}

// cellPrefix returns the collision-avoidance prefix for the Nth cell on a
// page (0-indexed): "", "a", "b", "c", … per spec §4.2's "a+n" rule.
func cellPrefix(n int) string {
	if n == 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('a'+n%26)) + out
		n /= 26
	}
	return out
}

// RewriteNameTokens scans a content stream and rewrites every PDF name
// token (`/Name`) belonging to one of resourceCategories through remap.
// It supports escaped name characters (`#HH`) and skips
// balanced, backslash-escaped string literals so that a literal string
// containing "/Font" is never mistaken for a name token.
//
// This does not attempt full PDF content-stream operator parsing; it only
// needs to find `/name` tokens and pass the decoded name plus its
// categories to remap, which returns the (possibly renamed) name to emit.
// The category set a name belongs to is resolved by the caller walking
// the resource dictionary, not by this scanner — so remap here takes the
// raw name and tries every category, renaming on first match.
func RewriteNameTokens(content []byte, remap ResourceRemap) []byte {
	var out strings.Builder
	out.Grow(len(content))
	i := 0
	n := len(content)
	for i < n {
		c := content[i]
		switch {
		case c == '(':
			j := skipStringLiteral(content, i)
			out.Write(content[i:j])
			i = j
		case c == '/':
			j, name := scanNameToken(content, i)
			out.WriteString(renamedToken(name, remap))
			i = j
		default:
			out.WriteByte(c)
			i++
		}
	}
	return []byte(out.String())
}

// renamedToken re-encodes a decoded name (without its leading slash) as a
// `/name` token, substituting any category's remap entry that matches.
func renamedToken(name string, remap ResourceRemap) string {
	for _, cat := range resourceCategories {
		if renamed := remap.Lookup(cat, name); renamed != name {
			return "/" + renamed
		}
	}
	return "/" + name
}

// skipStringLiteral returns the index just past a balanced, possibly
// backslash-escaped `(...)` string literal starting at content[start].
func skipStringLiteral(content []byte, start int) int {
	depth := 0
	i := start
	n := len(content)
	for i < n {
		switch content[i] {
		case '\\':
			i += 2
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return n
}

// scanNameToken decodes a PDF name token starting at content[start] (which
// must be '/'), resolving `#HH` escapes, and returns the index just past
// the token plus the decoded name (without the leading slash).
func scanNameToken(content []byte, start int) (int, string) {
	i := start + 1
	var sb strings.Builder
	n := len(content)
	for i < n {
		c := content[i]
		if isNameDelimiter(c) {
			break
		}
		if c == '#' && i+2 < n && isHexDigit(content[i+1]) && isHexDigit(content[i+2]) {
			v := hexVal(content[i+1])<<4 | hexVal(content[i+2])
			sb.WriteByte(v)
			i += 3
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return i, sb.String()
}

func isNameDelimiter(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ',
		'(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// BuildRemaps computes one ResourceRemap per cell for a page's cells: the
// first cell to use a given category/name pair keeps it unmodified; any
// later cell with a colliding name in the same category has its own copy
// renamed by prefixing cellPrefix(n), so distinct colliding cells end up
// with distinct renamed tokens (cell 1's "F1" becomes "aF1", cell 2's
// becomes "bF1", and so on) even though they share an original name.
func BuildRemaps(cellResourceNames [][]string, category string) []ResourceRemap {
	remaps := make([]ResourceRemap, len(cellResourceNames))
	for i := range remaps {
		remaps[i] = make(ResourceRemap)
	}
	owner := make(map[string]int) // name -> cell index that keeps it unrenamed
	for cellIdx, names := range cellResourceNames {
		for _, name := range names {
			if first, ok := owner[name]; ok {
				if first == cellIdx {
					continue
				}
				renamed := fmt.Sprintf("%s%s", cellPrefix(cellIdx), name)
				remaps[cellIdx].Set(category, name, renamed)
				continue
			}
			owner[name] = cellIdx
		}
	}
	return remaps
}
