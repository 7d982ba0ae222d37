package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
)

// NewValidator returns a validator with every custom validation registered, and its translator.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	institution.InitValidators(validate, translator)
	return validate, translator
}

// InstitutionOption customizes the institutions created by CreateInstitution.
type InstitutionOption func(inst *institution.Institution)

func Approved(inst *institution.Institution) { inst.IsApproved = true }

func WithBoard(board string) InstitutionOption {
	return func(inst *institution.Institution) { inst.Board = null.StringFrom(board) }
}

func WithFeatures(keys ...string) InstitutionOption {
	return func(inst *institution.Institution) {
		for _, k := range keys {
			inst.Features[k] = true
		}
	}
}

func WithOfferings(offerings ...string) InstitutionOption {
	return func(inst *institution.Institution) {
		switch inst.Type {
		case institution.CategorySchool:
			inst.ClassesOffered = offerings
		case institution.CategoryCoaching:
			inst.ExamsCoached = offerings
		case institution.CategoryCollege:
			inst.ProgramsOffered = offerings
		}
	}
}

func WithRatio(ratio int) InstitutionOption {
	return func(inst *institution.Institution) { inst.StudentTeacherRatio = null.IntFrom(ratio) }
}

func CreatedAt(t time.Time) InstitutionOption {
	return func(inst *institution.Institution) {
		inst.CreatedAt = t.UTC()
		inst.UpdatedAt = t.UTC()
	}
}

func CreateInstitution(
	t *testing.T,
	repo institution.Repository,
	name string,
	cat institution.Category,
	city string,
	opts ...InstitutionOption,
) institution.Institution {
	tstamp := time.Now().UTC()
	inst := institution.Institution{
		ID:              uuid.New().String(),
		Name:            name,
		Type:            cat,
		Address:         "1 " + name + " Road",
		City:            city,
		State:           "Maharashtra",
		Pincode:         "400001",
		ContactEmail:    "contact@" + uuid.New().String()[:8] + ".test.in",
		ClassesOffered:  []string{},
		ExamsCoached:    []string{},
		ProgramsOffered: []string{},
		Features:        institution.Features{},
		Images:          []string{},
		UserID:          "owner",
		CreatedAt:       tstamp,
		UpdatedAt:       tstamp,
	}
	for _, opt := range opts {
		opt(&inst)
	}
	inst, err := repo.Create(context.Background(), inst)
	if err != nil {
		t.Fatalf("CreateInstitution() failed: %v", err)
	}
	return inst
}
