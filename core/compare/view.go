package compare

import (
	"context"

	"github.com/pkg/errors"
)

// Statuses
const (
	StatusEmpty   Status = "empty"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const EmptyMessage = "No institutions selected for comparison."

type Status string

// Page is the state of the comparison view.
type Page struct {
	Status  Status `json:"status"`
	Matrix  Matrix `json:"matrix"`
	Message string `json:"message,omitempty"` // empty-state, missing-institutions or error message
}

// NewPage returns the page showing m.
func NewPage(m Matrix) Page {
	if m.Requested == 0 {
		return Page{Status: StatusEmpty, Matrix: m, Message: EmptyMessage}
	}
	return Page{Status: StatusSuccess, Matrix: m, Message: m.MissingNotice()}
}

// View is the comparison page: the selection of a Store rendered by an Assembler.
type View struct {
	store *Store
	asm   *Assembler
}

func NewView(store *Store, asm *Assembler) *View {
	return &View{store: store, asm: asm}
}

// Load assembles the current selection.
// Source failures are reported in the returned Page, never as an error.
func (v *View) Load(ctx context.Context) Page {
	ids := v.store.Items()
	if len(ids) == 0 {
		return Page{Status: StatusEmpty, Message: EmptyMessage}
	}
	m, err := v.asm.Assemble(ctx, ids)
	if err != nil {
		return Page{Status: StatusError, Message: errors.Cause(err).Error()}
	}
	return NewPage(m)
}

// Remove drops id from the selection and reloads the view.
func (v *View) Remove(ctx context.Context, id string) (Page, error) {
	if err := v.store.Remove(id); err != nil {
		return v.Load(ctx), err
	}
	return v.Load(ctx), nil
}

// Clear empties the selection.
func (v *View) Clear() (Page, error) {
	err := v.store.Clear()
	return Page{Status: StatusEmpty, Message: EmptyMessage}, err
}
