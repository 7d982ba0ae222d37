package compare

import (
	"context"
	"fmt"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
)

// Source fetches full records of approved institutions.
type Source interface {
	GetApproved(ctx context.Context, ids []string) ([]institution.Institution, error)
}

type (
	Column struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Cells []Cell `json:"cells"` // one per Matrix row
	}

	Header struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}

	Matrix struct {
		Rows      []Header `json:"rows"`
		Columns   []Column `json:"columns"`
		Requested int      `json:"requested"`
		Missing   int      `json:"missing"`
	}
)

// MissingNotice reports how many selected institutions could not be loaded, if any.
func (m Matrix) MissingNotice() string {
	if m.Missing <= 0 {
		return ""
	}
	return fmt.Sprintf("%d selected institution(s) could not be loaded.", m.Missing)
}

// Assembler builds comparison matrices.
type Assembler struct {
	src  Source
	rows []Row
}

// NewAssembler uses DefaultRows when no rows are given.
func NewAssembler(src Source, rows ...Row) *Assembler {
	if len(rows) == 0 {
		rows = DefaultRows
	}
	return &Assembler{src: src, rows: rows}
}

// Assemble fetches the approved institutions among ids and lays them out in the order of ids.
// Institutions that cannot be found are counted in Matrix.Missing.
func (a *Assembler) Assemble(ctx context.Context, ids []string) (Matrix, error) {
	ids = core.CleanStrings(ids)
	m := Matrix{
		Rows:      make([]Header, 0, len(a.rows)),
		Columns:   []Column{},
		Requested: len(ids),
	}
	for _, r := range a.rows {
		m.Rows = append(m.Rows, Header{Key: r.Key, Label: r.Label})
	}
	if len(ids) == 0 {
		return m, nil
	}

	insts, err := a.src.GetApproved(ctx, ids)
	if err != nil {
		return Matrix{}, err
	}
	byID := make(map[string]institution.Institution, len(insts))
	for _, inst := range insts {
		byID[inst.ID] = inst
	}

	for _, id := range ids {
		inst, ok := byID[id]
		if !ok {
			continue
		}
		col := Column{ID: inst.ID, Name: inst.Name, Cells: make([]Cell, 0, len(a.rows))}
		for _, r := range a.rows {
			col.Cells = append(col.Cells, r.render(inst))
		}
		m.Columns = append(m.Columns, col)
	}
	m.Missing = m.Requested - len(m.Columns)
	return m, nil
}
