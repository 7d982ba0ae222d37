package dummydb

import (
	"context"

	"github.com/trezcool/findgreatschool/core/contact"
)

type contactRepository struct {
	db *contactTable
}

var _ contact.Repository = (*contactRepository)(nil) // interface compliance check

func NewContactRepository(db *DB) contact.Repository {
	return &contactRepository{db: db.contact}
}

func (repo *contactRepository) CreateMessage(_ context.Context, msg contact.Message) (contact.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = append(repo.db.table, msg)
	return msg, nil
}

// ContactMessages returns every saved message, oldest first.
func (db *DB) ContactMessages() []contact.Message {
	db.contact.RLock()
	defer db.contact.RUnlock()
	return append([]contact.Message{}, db.contact.table...)
}
