package filter

import (
	"github.com/s0up4200/filmquery/film"
)

// Param is the name of a recognized query parameter
type Param string

const (
	ParamTitle         Param = "title"
	ParamYear          Param = "year"
	ParamMinYear       Param = "minYear"
	ParamMaxYear       Param = "maxYear"
	ParamMinAwards     Param = "minAwards"
	ParamMaxAwards     Param = "maxAwards"
	ParamNominations   Param = "nominations"
	ParamIsBestPicture Param = "isBestPicture"
	ParamSortBy        Param = "sortBy"
	ParamLimit         Param = "limit"
)

// Params lists every recognized parameter in registry order.
func Params() []Param {
	params := make([]Param, 0, len(criteria)+2)
	for _, c := range criteria {
		params = append(params, c.param)
	}
	return append(params, ParamSortBy, ParamLimit)
}

// Predicate reports whether a record matches
type Predicate func(film.Record) bool

// Evaluate implements Filter.
func (p Predicate) Evaluate(record film.Record) bool {
	return p(record)
}

// matchAll is the identity predicate of a conjunction
func matchAll(film.Record) bool { return true }

// And returns the conjunction of the given predicates. Nil predicates are skipped;
// with nothing left every record matches.
func And(predicates ...Predicate) Predicate {
	present := make([]Predicate, 0, len(predicates))
	for _, p := range predicates {
		if p != nil {
			present = append(present, p)
		}
	}

	switch len(present) {
	case 0:
		return matchAll
	case 1:
		return present[0]
	}

	return func(record film.Record) bool {
		for _, p := range present {
			if !p(record) {
				return false
			}
		}
		return true
	}
}

// Directives is the parsed form of one query. A nil pointer means the directive
// was not supplied. Directives are built per query and never reused.
type Directives struct {
	Title         *string
	Year          *int
	MinYear       *int
	MaxYear       *int
	MinAwards     *int
	MaxAwards     *int
	Nominations   *int
	IsBestPicture *bool

	SortBy SortKey
	// Limit caps the result size; nil means unbounded
	Limit *int
}

// Predicate combines every present filter directive with a logical AND.
func (d *Directives) Predicate() Predicate {
	predicates := make([]Predicate, 0, len(criteria))
	for _, c := range criteria {
		predicates = append(predicates, c.predicate(d))
	}
	return And(predicates...)
}

// Filters returns the names of the filter directives that are present.
func (d *Directives) Filters() []Param {
	var present []Param
	for _, c := range criteria {
		if c.predicate(d) != nil {
			present = append(present, c.param)
		}
	}
	return present
}
