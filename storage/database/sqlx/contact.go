package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core/contact"
)

type contactRepository struct {
	db sqlx.ExtContext
}

var _ contact.Repository = (*contactRepository)(nil) // interface compliance check

func NewContactRepository(db sqlx.ExtContext) *contactRepository {
	return &contactRepository{db: db}
}

func (repo *contactRepository) CreateMessage(ctx context.Context, msg contact.Message) (contact.Message, error) {
	b := psql.Insert("contact_submissions").
		Columns("id", "name", "email", "subject", "message", "created_at").
		Values(msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, msg.CreatedAt.UTC())

	if _, err := execContext(ctx, repo.db, b); err != nil {
		return contact.Message{}, errors.Wrap(err, "inserting contact message")
	}
	return msg, nil
}
