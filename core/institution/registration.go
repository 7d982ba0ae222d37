package institution

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/findgreatschool/core"
)

// NewInstitution contains information needed to register an Institution.
type NewInstitution struct {
	Name                string   `json:"name" form:"name" validate:"required,max=200"`
	Type                Category `json:"type" form:"type" validate:"required,category"`
	Address             string   `json:"address" form:"address" validate:"required"`
	City                string   `json:"city" form:"city" validate:"required"`
	State               string   `json:"state" form:"state" validate:"required"`
	Pincode             string   `json:"pincode" form:"pincode" validate:"required,pincode"`
	ContactEmail        string   `json:"contact_email" form:"contact_email" validate:"required,email"`
	ContactPhone        string   `json:"contact_phone" form:"contact_phone" validate:"omitempty,phone"`
	Board               string   `json:"board" form:"board" validate:"omitempty,max=100"`
	FeeStructure        string   `json:"fee_structure" form:"fee_structure"`
	StudentTeacherRatio int      `json:"student_teacher_ratio" form:"student_teacher_ratio" validate:"omitempty,min=1,max=500"`
	// Offerings lists classes, exams or programs (depending on Type), one per line.
	Offerings string   `json:"offerings" form:"offerings"`
	Features  []string `json:"features" form:"feature" validate:"dive,feature"`
}

func (ni *NewInstitution) Clean() {
	ni.Name = core.CleanString(ni.Name)
	ni.Type = Category(core.CleanString(string(ni.Type), true /* lower */))
	ni.Address = core.CleanString(ni.Address)
	ni.City = core.CleanString(ni.City)
	ni.State = core.CleanString(ni.State)
	ni.Pincode = core.CleanString(ni.Pincode)
	ni.ContactEmail = core.CleanString(ni.ContactEmail, true /* lower */)
	ni.ContactPhone = core.CleanString(ni.ContactPhone)
	ni.Board = core.CleanString(ni.Board)
	ni.FeeStructure = core.CleanString(ni.FeeStructure)
	ni.Features = core.CleanStrings(ni.Features)
}

func (ni *NewInstitution) Validate(validate *validator.Validate) error {
	ni.Clean()
	return validate.Struct(ni)
}

// OfferingList splits Offerings into trimmed, non-empty lines.
func (ni NewInstitution) OfferingList() []string {
	return core.CleanStrings(strings.Split(strings.ReplaceAll(ni.Offerings, "\r\n", "\n"), "\n"))
}

func (ni NewInstitution) FeatureMap() Features {
	f := make(Features, len(ni.Features))
	for _, k := range ni.Features {
		f[k] = true
	}
	return f
}
