package institution

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findgreatschool/core"
)

// Categories
const (
	CategorySchool   Category = "school"
	CategoryCoaching Category = "coaching"
	CategoryCollege  Category = "college"
)

var (
	Categories = []Category{CategorySchool, CategoryCoaching, CategoryCollege}

	ErrInvalidRecord = errors.New("invalid institution record")
)

type Category string

// ParseCategory returns the Category named by s, or "" when s names none.
func ParseCategory(s string) Category {
	c := Category(core.CleanString(s, true /* lower */))
	for _, cat := range Categories {
		if c == cat {
			return c
		}
	}
	return ""
}

func (c Category) IsValid() bool { return c != "" && ParseCategory(string(c)) == c }

// OfferingColumn is the column listing what institutions of this category offer.
func (c Category) OfferingColumn() string {
	switch c {
	case CategorySchool:
		return "classes_offered"
	case CategoryCoaching:
		return "exams_coached"
	case CategoryCollege:
		return "programs_offered"
	}
	return ""
}

// Label is the capitalized category name.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Features maps a feature key to whether the institution provides it.
type Features map[string]bool

// Enabled returns the keys of the provided features, sorted.
func (f Features) Enabled() []string {
	keys := make([]string, 0, len(f))
	for k, ok := range f {
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

type Institution struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Type                Category    `json:"type"`
	Address             string      `json:"address"`
	City                string      `json:"city"`
	State               string      `json:"state"`
	Pincode             string      `json:"pincode"`
	ContactEmail        string      `json:"contact_email"`
	ContactPhone        null.String `json:"contact_phone"`
	Board               null.String `json:"board"`
	FeeStructure        null.String `json:"fee_structure"`
	StudentTeacherRatio null.Int    `json:"student_teacher_ratio"`
	ClassesOffered      []string    `json:"classes_offered"`
	ExamsCoached        []string    `json:"exams_coached"`
	ProgramsOffered     []string    `json:"programs_offered"`
	Features            Features    `json:"features"`
	Images              []string    `json:"images"`
	UserID              string      `json:"user_id"`
	IsApproved          bool        `json:"is_approved"`
	CreatedAt           time.Time   `json:"created_at"` // UTC
	UpdatedAt           time.Time   `json:"updated_at"` // UTC
}

// Offerings returns the offering list matching the institution's own category.
func (inst Institution) Offerings() []string {
	return offerings(inst.Type, inst.ClassesOffered, inst.ExamsCoached, inst.ProgramsOffered)
}

func (inst Institution) Summary() Summary {
	var img string
	if len(inst.Images) > 0 {
		img = inst.Images[0]
	}
	return Summary{
		ID:              inst.ID,
		Name:            inst.Name,
		Address:         inst.Address,
		Image:           img,
		Category:        inst.Type,
		City:            inst.City,
		Board:           inst.Board,
		Features:        inst.Features,
		ClassesOffered:  inst.ClassesOffered,
		ExamsCoached:    inst.ExamsCoached,
		ProgramsOffered: inst.ProgramsOffered,
	}
}

// Summary is a search result row.
type Summary struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Address         string      `json:"address"`
	Image           string      `json:"image,omitempty"`
	Category        Category    `json:"type"`
	City            string      `json:"city"`
	Board           null.String `json:"board"`
	Features        Features    `json:"features"`
	ClassesOffered  []string    `json:"classes_offered"`
	ExamsCoached    []string    `json:"exams_coached"`
	ProgramsOffered []string    `json:"programs_offered"`
}

func (s Summary) Offerings() []string {
	return offerings(s.Category, s.ClassesOffered, s.ExamsCoached, s.ProgramsOffered)
}

// Normalize checks a Summary received from a remote store and puts it in canonical form.
// Records without an id or a name, or with an unknown category, are rejected.
func Normalize(s Summary) (Summary, error) {
	s.ID = core.CleanString(s.ID)
	s.Name = core.CleanString(s.Name)
	if s.ID == "" {
		return Summary{}, errors.Wrap(ErrInvalidRecord, "missing id")
	}
	if s.Name == "" {
		return Summary{}, errors.Wrapf(ErrInvalidRecord, "%s: missing name", s.ID)
	}
	cat := ParseCategory(string(s.Category))
	if cat == "" {
		return Summary{}, errors.Wrapf(ErrInvalidRecord, "%s: unknown category %q", s.ID, s.Category)
	}
	s.Category = cat
	s.Address = core.CleanString(s.Address)
	s.City = core.CleanString(s.City)
	s.Image = core.CleanString(s.Image)
	if s.Board.Valid && core.CleanString(s.Board.String) == "" {
		s.Board = null.String{}
	}
	if s.Features == nil {
		s.Features = Features{}
	}
	s.ClassesOffered = normalizeList(s.ClassesOffered)
	s.ExamsCoached = normalizeList(s.ExamsCoached)
	s.ProgramsOffered = normalizeList(s.ProgramsOffered)
	return s, nil
}

// NormalizeInstitution is Normalize for full records.
func NormalizeInstitution(inst Institution) (Institution, error) {
	s, err := Normalize(inst.Summary())
	if err != nil {
		return Institution{}, err
	}
	inst.ID, inst.Name, inst.Type = s.ID, s.Name, s.Category
	inst.Address, inst.City, inst.Board, inst.Features = s.Address, s.City, s.Board, s.Features
	inst.ClassesOffered, inst.ExamsCoached, inst.ProgramsOffered = s.ClassesOffered, s.ExamsCoached, s.ProgramsOffered
	inst.Images = normalizeList(inst.Images)
	if len(inst.Images) > 1 {
		inst.Images = inst.Images[:1]
	}
	return inst, nil
}

func normalizeList(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return core.CleanStrings(ss)
}

func offerings(cat Category, classes, exams, programs []string) []string {
	switch cat {
	case CategorySchool:
		return classes
	case CategoryCoaching:
		return exams
	case CategoryCollege:
		return programs
	}
	return nil
}
