package table

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// placeholderColumn matches the names spreadsheet and dataframe tools give to
// unlabelled (typically index) columns.
var placeholderColumn = regexp.MustCompile(`^Unnamed`)

// IsPlaceholderColumn reports whether name is an unlabelled-column placeholder.
func IsPlaceholderColumn(name string) bool {
	return placeholderColumn.MatchString(name)
}

// NormalizeHeader trims a header cell, strips a UTF-8 byte order mark and
// converts it to Unicode NFC.
func NormalizeHeader(raw string) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(raw))
}

// NormalizeHeaders normalizes a header row the way dataframe readers do:
// blank cells become "Unnamed: <pos>" and repeated names get ".1", ".2", ...
// suffixes so the result is always unique.
func NormalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	taken := make(map[string]bool, len(raw))
	for _, r := range raw {
		taken[NormalizeHeader(r)] = true
	}
	for i, r := range raw {
		name := NormalizeHeader(r)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			var candidate string
			for {
				n++
				candidate = name + "." + strconv.Itoa(n)
				if !taken[candidate] {
					break
				}
			}
			seen[name] = n
			taken[candidate] = true
			out[i] = candidate
			continue
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

//Personal.AI order the ending
