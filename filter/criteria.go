package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/s0up4200/filmquery/film"
)

// criterion ties a query parameter to the Directives field it fills and to the
// predicate that field yields once present.
type criterion struct {
	param     Param
	bind      func(d *Directives, raw string) error
	predicate func(d *Directives) Predicate
}

var criteria = []criterion{
	newCriterion(ParamTitle, func(d *Directives) **string { return &d.Title },
		parseString, titleEquals),
	newCriterion(ParamYear, func(d *Directives) **int { return &d.Year },
		parseInt, intMatch(year, equal)),
	newCriterion(ParamMinYear, func(d *Directives) **int { return &d.MinYear },
		parseInt, intMatch(year, atLeast)),
	newCriterion(ParamMaxYear, func(d *Directives) **int { return &d.MaxYear },
		parseInt, intMatch(year, atMost)),
	newCriterion(ParamMinAwards, func(d *Directives) **int { return &d.MinAwards },
		parseInt, intMatch(awards, atLeast)),
	newCriterion(ParamMaxAwards, func(d *Directives) **int { return &d.MaxAwards },
		parseInt, intMatch(awards, atMost)),
	newCriterion(ParamNominations, func(d *Directives) **int { return &d.Nominations },
		parseInt, intMatch(nominations, equal)),
	newCriterion(ParamIsBestPicture, func(d *Directives) **bool { return &d.IsBestPicture },
		parseBool, bestPictureEquals),
}

func newCriterion[T any](
	param Param,
	field func(*Directives) **T,
	parse func(Param, string) (T, error),
	match func(film.Record, T) bool,
) criterion {
	return criterion{
		param: param,
		bind: func(d *Directives, raw string) error {
			v, err := parse(param, raw)
			if err != nil {
				return err
			}
			*field(d) = &v
			return nil
		},
		predicate: func(d *Directives) Predicate {
			want := *field(d)
			if want == nil {
				return nil
			}
			value := *want
			return func(record film.Record) bool {
				return match(record, value)
			}
		},
	}
}

// ParseCriteria turns raw query parameters into Directives. Missing and empty
// values count as not supplied and unknown names are ignored. A malformed integer
// fails the whole query with a *ParseError before any record is looked at.
func ParseCriteria(params map[string]string) (*Directives, error) {
	d := &Directives{SortBy: SortByTitle}

	for _, c := range criteria {
		raw := params[string(c.param)]
		if raw == "" {
			continue
		}
		if err := c.bind(d, raw); err != nil {
			return nil, err
		}
	}

	if raw := params[string(ParamLimit)]; raw != "" {
		limit, err := parseInt(ParamLimit, raw)
		if err != nil {
			return nil, err
		}
		if limit < 0 {
			return nil, &ParseError{Param: ParamLimit, Value: raw, Err: ErrNegativeLimit}
		}
		d.Limit = &limit
	}

	d.SortBy = ParseSortKey(params[string(ParamSortBy)])

	return d, nil
}

// ParseQuery is ParseCriteria for URL query values. Only the first value of a
// repeated parameter is used.
func ParseQuery(values url.Values) (*Directives, error) {
	params := make(map[string]string, len(values))
	for name, vals := range values {
		if len(vals) > 0 {
			params[name] = vals[0]
		}
	}
	return ParseCriteria(params)
}

// CanonicalParam resolves a parameter name regardless of case.
func CanonicalParam(name string) (Param, bool) {
	for _, p := range Params() {
		if strings.EqualFold(string(p), name) {
			return p, true
		}
	}
	return "", false
}

func parseString(_ Param, raw string) (string, error) {
	return raw, nil
}

func parseInt(param Param, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Param: param, Value: raw, Err: ErrMalformedNumber}
	}
	return v, nil
}

// parseBool is lenient: only "true" in any case is true, anything else is false.
func parseBool(_ Param, raw string) (bool, error) {
	return strings.EqualFold(raw, "true"), nil
}

func titleEquals(record film.Record, want string) bool {
	return strings.EqualFold(record.Title, want)
}

func bestPictureEquals(record film.Record, want bool) bool {
	return record.IsBestPicture == want
}

func year(r film.Record) int        { return r.Year }
func awards(r film.Record) int      { return r.Awards }
func nominations(r film.Record) int { return r.Nominations }

func equal(got, want int) bool   { return got == want }
func atLeast(got, want int) bool { return got >= want }
func atMost(got, want int) bool  { return got <= want }

func intMatch(field func(film.Record) int, cmp func(got, want int) bool) func(film.Record, int) bool {
	return func(record film.Record, want int) bool {
		return cmp(field(record), want)
	}
}
