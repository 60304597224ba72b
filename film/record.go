package film

import (
	"fmt"
	"strconv"
)

// Record is a single film entry. Records are values; nothing in this module
// modifies a Record after it has been loaded.
type Record struct {
	Title              string `json:"title"`
	Year               int    `json:"year"`
	Awards             int    `json:"awards"`
	Nominations        int    `json:"nominations"`
	IsBestPicture      bool   `json:"isBestPicture"`
	NumberOfReferences int    `json:"numberOfReferences"`
}

// YearKey returns the year as stored in the content store, a decimal string.
func (r Record) YearKey() string {
	return strconv.Itoa(r.Year)
}

// AwardsKey returns the award count in its stored decimal string form.
func (r Record) AwardsKey() string {
	return strconv.Itoa(r.Awards)
}

// NominationsKey returns the nomination count in its stored decimal string form.
func (r Record) NominationsKey() string {
	return strconv.Itoa(r.Nominations)
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%d)", r.Title, r.Year)
}
