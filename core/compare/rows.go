package compare

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trezcool/findgreatschool/core/institution"
)

// NotAvailable is rendered for missing values.
const NotAvailable = "N/A"

// Cell is a rendered matrix value, optionally linking somewhere.
type Cell struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

func (c Cell) String() string {
	if c.Href == "" {
		return c.Text
	}
	return c.Text + " <" + c.Href + ">"
}

// Row is one attribute of the comparison matrix.
// Format turns a raw value (never nil) of the institution with the given id into a cell.
type Row struct {
	Key    string
	Label  string
	Format func(value interface{}, id string) Cell
}

// DefaultRows are the attributes compared side by side.
var DefaultRows = []Row{
	{Key: "name", Label: "Name", Format: formatName},
	{Key: "type", Label: "Type", Format: formatType},
	{Key: "city", Label: "City"},
	{Key: "state", Label: "State"},
	{Key: "address", Label: "Address"},
	{Key: "board", Label: "Board"},
	{Key: "fee_structure", Label: "Fees"},
	{Key: "student_teacher_ratio", Label: "Student:Teacher", Format: formatRatio},
	{Key: "features", Label: "Key Features", Format: formatFeatures},
	{Key: "contact_email", Label: "Email", Format: formatEmail},
	{Key: "contact_phone", Label: "Phone"},
}

// attribute returns the raw value of key for inst, or nil when the value is missing.
func attribute(inst institution.Institution, key string) interface{} {
	str := func(s string) interface{} {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return s
	}
	switch key {
	case "name":
		return str(inst.Name)
	case "type":
		return str(string(inst.Type))
	case "city":
		return str(inst.City)
	case "state":
		return str(inst.State)
	case "address":
		return str(inst.Address)
	case "pincode":
		return str(inst.Pincode)
	case "board":
		if !inst.Board.Valid {
			return nil
		}
		return str(inst.Board.String)
	case "fee_structure":
		if !inst.FeeStructure.Valid {
			return nil
		}
		return str(inst.FeeStructure.String)
	case "student_teacher_ratio":
		if !inst.StudentTeacherRatio.Valid {
			return nil
		}
		return inst.StudentTeacherRatio.Int
	case "features":
		return inst.Features
	case "contact_email":
		return str(inst.ContactEmail)
	case "contact_phone":
		if !inst.ContactPhone.Valid {
			return nil
		}
		return str(inst.ContactPhone.String)
	}
	return nil
}

func (r Row) render(inst institution.Institution) Cell {
	v := attribute(inst, r.Key)
	if v == nil {
		return Cell{Text: NotAvailable}
	}
	if r.Format != nil {
		return r.Format(v, inst.ID)
	}
	return Cell{Text: fmt.Sprint(v)}
}

func formatName(v interface{}, id string) Cell {
	return Cell{Text: fmt.Sprint(v), Href: "/school/" + id}
}

func formatType(v interface{}, _ string) Cell {
	return Cell{Text: institution.Category(fmt.Sprint(v)).Label()}
}

func formatRatio(v interface{}, _ string) Cell {
	if n, ok := v.(int); ok && n > 0 {
		return Cell{Text: fmt.Sprintf("%d:1", n)}
	}
	return Cell{Text: NotAvailable}
}

// formatFeatures lists the provided features as title-cased labels, e.g. "science_lab" as "Science Lab".
func formatFeatures(v interface{}, _ string) Cell {
	f, ok := v.(institution.Features)
	if !ok {
		return Cell{Text: NotAvailable}
	}
	enabled := f.Enabled()
	if len(enabled) == 0 {
		return Cell{Text: "None listed"}
	}
	caser := cases.Title(language.English) // a Caser must not be shared between goroutines
	labels := make([]string, 0, len(enabled))
	for _, k := range enabled {
		labels = append(labels, caser.String(strings.ReplaceAll(k, "_", " ")))
	}
	return Cell{Text: strings.Join(labels, ", ")}
}

func formatEmail(v interface{}, _ string) Cell {
	return Cell{Text: fmt.Sprint(v), Href: "mailto:" + fmt.Sprint(v)}
}
