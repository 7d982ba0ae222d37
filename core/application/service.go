package application

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
)

const (
	StatusSubmitted = "submitted"

	SubmittedMessage = "Application Submitted Successfully!"
)

var (
	ErrAlreadyApplied     = errors.New("You have already applied to this institution.")
	ErrInvalidInstitution = errors.New("Application failed: Invalid institution.")
)

type (
	Application struct {
		ID            string    `json:"id"`
		StudentID     string    `json:"student_id"`
		InstitutionID string    `json:"institution_id"`
		Status        string    `json:"status"`
		CreatedAt     time.Time `json:"created_at"` // UTC
	}

	// StudentApplication is an Application listed on the student's dashboard.
	StudentApplication struct {
		Application
		InstitutionName string               `json:"institution_name"`
		InstitutionType institution.Category `json:"institution_type"`
		InstitutionCity string               `json:"institution_city"`
	}

	Repository interface {
		Exists(ctx context.Context, studentID, institutionID string) (bool, error)
		// Create fails with ErrAlreadyApplied or ErrInvalidInstitution when the store rejects the row.
		Create(ctx context.Context, app Application) (Application, error)
		// QueryByStudent returns the student's applications, newest first.
		QueryByStudent(ctx context.Context, studentID string) ([]StudentApplication, error)
	}

	Institutions interface {
		GetApprovedByID(ctx context.Context, id string) (institution.Institution, error)
	}

	Service struct {
		repo         Repository
		institutions Institutions
		mail         core.EmailService
		events       core.EventPublisher
	}
)

func NewService(repo Repository, institutions Institutions, mail core.EmailService, events core.EventPublisher) *Service {
	return &Service{repo: repo, institutions: institutions, mail: mail, events: events}
}

// Apply submits the application of studentID to institutionID and notifies the institution.
func (svc *Service) Apply(ctx context.Context, studentID, institutionID string) (Application, error) {
	studentID = core.CleanString(studentID)
	institutionID = core.CleanString(institutionID)
	if institutionID == "" {
		return Application{}, ErrInvalidInstitution
	}

	inst, err := svc.institutions.GetApprovedByID(ctx, institutionID)
	if err != nil {
		if errors.Cause(err) == institution.ErrNotFound {
			return Application{}, ErrInvalidInstitution
		}
		return Application{}, errors.Wrap(err, "finding institution")
	}

	exists, err := svc.repo.Exists(ctx, studentID, institutionID)
	if err != nil {
		return Application{}, errors.Wrap(err, "checking existing application")
	}
	if exists {
		return Application{}, ErrAlreadyApplied
	}

	app, err := svc.repo.Create(ctx, Application{
		ID:            uuid.New().String(),
		StudentID:     studentID,
		InstitutionID: institutionID,
		Status:        StatusSubmitted,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		if cause := errors.Cause(err); cause == ErrAlreadyApplied || cause == ErrInvalidInstitution {
			return Application{}, cause
		}
		return Application{}, errors.Wrap(err, "creating application")
	}

	if inst.ContactEmail != "" {
		svc.mail.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: inst.Name, Address: inst.ContactEmail}},
			Subject:      "New application received",
			TemplateName: "application_submitted",
			TemplateData: map[string]interface{}{
				"InstitutionName": inst.Name,
				"ApplicationID":   app.ID,
				"SubmittedAt":     app.CreatedAt.Format(time.RFC1123),
			},
		})
	}
	svc.events.Publish(ctx, core.NewEvent(core.EventApplicationSubmitted, institutionID, map[string]interface{}{
		"application_id": app.ID,
		"student_id":     studentID,
	}))
	return app, nil
}

func (svc *Service) ListForStudent(ctx context.Context, studentID string) ([]StudentApplication, error) {
	apps, err := svc.repo.QueryByStudent(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying student applications")
	}
	if apps == nil {
		apps = []StudentApplication{}
	}
	return apps, nil
}
