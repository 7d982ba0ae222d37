package institution

import (
	"sort"

	"github.com/trezcool/findgreatschool/core"
)

// Sorts
const (
	SortRelevance Sort = "relevance"
	SortNameAsc   Sort = "name_asc"
	SortNameDesc  Sort = "name_desc"
)

type Sort string

// ParseSort returns the Sort named by s; unknown or empty names fall back to SortRelevance.
func ParseSort(s string) Sort {
	switch srt := Sort(core.CleanString(s, true /* lower */)); srt {
	case SortNameAsc, SortNameDesc:
		return srt
	}
	return SortRelevance
}

// Ordering is the name ordering applied for the sort.
// There is no relevance signal: SortRelevance orders like SortNameAsc.
func (s Sort) Ordering() core.DBOrdering {
	return core.DBOrdering{Field: "name", Ascending: s != SortNameDesc}
}

// Filter types
const (
	FilterBoards   FilterType = "boards"
	FilterFeatures FilterType = "features"
)

type FilterType string

// ChangeEvent is emitted by the filter panel whenever a board or feature control is toggled.
type ChangeEvent struct {
	Type    FilterType `json:"type"`
	Value   string     `json:"value"`
	Checked bool       `json:"checked"`
}

// FilterState holds the active search criteria. Every field is optional;
// the zero value matches every approved institution.
type FilterState struct {
	Category Category `json:"category,omitempty"`
	Detail   string   `json:"detail,omitempty"` // class, exam or program; only applied along with Category
	City     string   `json:"city,omitempty"`
	Boards   []string `json:"boards,omitempty"` // only applied when Category is school
	Features []string `json:"features,omitempty"`
	Sort     Sort     `json:"sort,omitempty"`
}

// Canonical returns a copy of fs with trimmed scalars, de-duplicated and sorted sets,
// unknown categories dropped and the sort defaulted.
func (fs FilterState) Canonical() FilterState {
	return FilterState{
		Category: ParseCategory(string(fs.Category)),
		Detail:   core.CleanString(fs.Detail),
		City:     core.CleanString(fs.City),
		Boards:   canonicalSet(fs.Boards),
		Features: canonicalSet(fs.Features),
		Sort:     ParseSort(string(fs.Sort)),
	}
}

// Equal compares the canonical forms of fs and other; set fields are compared regardless of order.
func (fs FilterState) Equal(other FilterState) bool {
	a, b := fs.Canonical(), other.Canonical()
	return a.Category == b.Category &&
		a.Detail == b.Detail &&
		a.City == b.City &&
		a.Sort == b.Sort &&
		stringsEqual(a.Boards, b.Boards) &&
		stringsEqual(a.Features, b.Features)
}

func (fs FilterState) IsEmpty() bool {
	c := fs.Canonical()
	return c.Category == "" && c.Detail == "" && c.City == "" && c.Boards == nil && c.Features == nil && c.Sort == SortRelevance
}

// Apply folds a panel ChangeEvent into a copy of fs.
func (fs FilterState) Apply(ev ChangeEvent) FilterState {
	fs = fs.Canonical()
	switch ev.Type {
	case FilterBoards:
		fs.Boards = toggle(fs.Boards, ev.Value, ev.Checked)
	case FilterFeatures:
		fs.Features = toggle(fs.Features, ev.Value, ev.Checked)
	}
	return fs
}

func toggle(set []string, value string, checked bool) []string {
	value = core.CleanString(value)
	if value == "" {
		return set
	}
	updated := make([]string, 0, len(set)+1)
	for _, v := range set {
		if v != value {
			updated = append(updated, v)
		}
	}
	if checked {
		updated = append(updated, value)
	}
	return canonicalSet(updated)
}

func canonicalSet(ss []string) []string {
	cleaned := core.CleanStrings(ss)
	if len(cleaned) == 0 {
		return nil
	}
	sort.Strings(cleaned)
	return cleaned
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
