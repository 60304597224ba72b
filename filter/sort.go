package filter

import (
	"cmp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/s0up4200/filmquery/film"
)

// SortKey selects the field results are ordered by, ascending.
type SortKey string

const (
	SortByTitle       SortKey = "title"
	SortByYear        SortKey = "year"
	SortByAwards      SortKey = "awards"
	SortByNominations SortKey = "nominations"
)

// sortKeys maps each key to its comparator. Year, awards and nominations compare
// their stored decimal strings, so "10" orders before "9".
var sortKeys = map[SortKey]func(a, b film.Record) int{
	SortByTitle: func(a, b film.Record) int {
		return compareFold(a.Title, b.Title)
	},
	SortByYear: func(a, b film.Record) int {
		return strings.Compare(a.YearKey(), b.YearKey())
	},
	SortByAwards: func(a, b film.Record) int {
		return strings.Compare(a.AwardsKey(), b.AwardsKey())
	},
	SortByNominations: func(a, b film.Record) int {
		return strings.Compare(a.NominationsKey(), b.NominationsKey())
	},
}

// SortKeys lists the supported sort keys.
func SortKeys() []SortKey {
	return []SortKey{SortByTitle, SortByYear, SortByAwards, SortByNominations}
}

// ParseSortKey matches raw against the supported keys ignoring case and falls back
// to SortByTitle for anything else, including the empty string.
func ParseSortKey(raw string) SortKey {
	key := SortKey(strings.ToLower(raw))
	if _, ok := sortKeys[key]; ok {
		return key
	}
	return SortByTitle
}

// Compare orders two records by this key. Unknown keys order by title.
func (k SortKey) Compare(a, b film.Record) int {
	if compare, ok := sortKeys[k]; ok {
		return compare(a, b)
	}
	return sortKeys[SortByTitle](a, b)
}

// compareFold orders strings by their lower-cased runes without allocating.
// Strings equal under case folding compare as 0, leaving ties to the stable sort.
func compareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra, rb = unicode.ToLower(ra), unicode.ToLower(rb); ra != rb {
			return cmp.Compare(ra, rb)
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}
