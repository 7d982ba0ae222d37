package contact

import (
	"context"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core"
)

const ReceivedMessage = "Message received! Thank you."

var ErrMissingFields = errors.New("Please fill out all fields.")

type (
	Message struct {
		ID        string    `json:"id"`
		Name      string    `json:"name" validate:"required"`
		Email     string    `json:"email" validate:"required,email"`
		Subject   string    `json:"subject" validate:"required"`
		Message   string    `json:"message" validate:"required"`
		CreatedAt time.Time `json:"created_at"` // UTC
	}

	Repository interface {
		CreateMessage(ctx context.Context, msg Message) (Message, error)
	}

	Service struct {
		repo     Repository
		mail     core.EmailService
		events   core.EventPublisher
		validate *validator.Validate
	}
)

func (m *Message) Validate(validate *validator.Validate) error {
	m.Name = core.CleanString(m.Name)
	m.Email = core.CleanString(m.Email, true /* lower */)
	m.Subject = core.CleanString(m.Subject)
	m.Message = core.CleanString(m.Message)
	if m.Name == "" || m.Email == "" || m.Subject == "" || m.Message == "" {
		return core.NewValidationError(ErrMissingFields)
	}
	return validate.Struct(m)
}

func NewService(repo Repository, mail core.EmailService, events core.EventPublisher, validate *validator.Validate) *Service {
	return &Service{repo: repo, mail: mail, events: events, validate: validate}
}

// Submit saves msg and acknowledges it to its sender.
func (svc *Service) Submit(ctx context.Context, msg Message) (Message, error) {
	if err := msg.Validate(svc.validate); err != nil {
		return Message{}, err
	}
	msg.ID = uuid.New().String()
	msg.CreatedAt = time.Now().UTC()

	msg, err := svc.repo.CreateMessage(ctx, msg)
	if err != nil {
		return Message{}, errors.Wrap(err, "saving contact message")
	}

	svc.mail.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: msg.Name, Address: msg.Email}},
		Subject:      "We received your message",
		TemplateName: "contact_received",
		TemplateData: map[string]interface{}{"Name": msg.Name, "Subject": msg.Subject},
	})
	svc.events.Publish(ctx, core.NewEvent(core.EventContactReceived, msg.ID, map[string]interface{}{"subject": msg.Subject}))
	return msg, nil
}
