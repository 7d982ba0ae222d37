package institution

import (
	"sort"
	"strings"

	"github.com/trezcool/findgreatschool/core"
)

// Query is the set of predicates derived from a FilterState, all ANDed.
// Only approved institutions ever match a Query: there is no field to lift that restriction.
type Query struct {
	Category Category
	City     string   // case-insensitive substring
	Offering string   // exact element of Category.OfferingColumn()
	Boards   []string // board IN Boards
	Features []string // features[f] == true for every f
	Ordering core.DBOrdering
}

// BuildQuery derives the Query for fs.
func BuildQuery(fs FilterState) Query {
	fs = fs.Canonical()
	q := Query{
		Category: fs.Category,
		City:     fs.City,
		Features: fs.Features,
		Ordering: fs.Sort.Ordering(),
	}
	if fs.Detail != "" && fs.Category != "" {
		q.Offering = fs.Detail
	}
	if fs.Category == CategorySchool && len(fs.Boards) > 0 {
		q.Boards = fs.Boards
	}
	return q
}

// Match evaluates q against inst in memory.
func (q Query) Match(inst Institution) bool {
	if !inst.IsApproved {
		return false
	}
	if q.Category != "" && inst.Type != q.Category {
		return false
	}
	if q.City != "" && !strings.Contains(strings.ToLower(inst.City), strings.ToLower(q.City)) {
		return false
	}
	if q.Offering != "" && !contains(offerings(q.Category, inst.ClassesOffered, inst.ExamsCoached, inst.ProgramsOffered), q.Offering) {
		return false
	}
	if len(q.Boards) > 0 && !(inst.Board.Valid && contains(q.Boards, inst.Board.String)) {
		return false
	}
	for _, f := range q.Features {
		if !inst.Features[f] {
			return false
		}
	}
	return true
}

// Sort orders insts in place by name, following q.Ordering.
func (q Query) Sort(insts []Institution) {
	asc := q.Ordering.Ascending
	sort.SliceStable(insts, func(i, j int) bool {
		if asc {
			return insts[i].Name < insts[j].Name
		}
		return insts[i].Name > insts[j].Name
	})
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
