package compare

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findgreatschool/core/institution"
)

// mapSource serves approved institutions, in map order, and counts its calls.
type mapSource struct {
	insts map[string]institution.Institution
	err   error
	calls [][]string
}

func (s *mapSource) GetApproved(_ context.Context, ids []string) ([]institution.Institution, error) {
	s.calls = append(s.calls, ids)
	if s.err != nil {
		return nil, s.err
	}
	var insts []institution.Institution
	for _, inst := range s.insts {
		for _, id := range ids {
			if inst.ID == id && inst.IsApproved {
				insts = append(insts, inst)
			}
		}
	}
	return insts, nil
}

func newSource() *mapSource {
	return &mapSource{insts: map[string]institution.Institution{
		"s1": {
			ID:                  "s1",
			Name:                "Sunrise Public School",
			Type:                institution.CategorySchool,
			City:                "Pune",
			State:               "Maharashtra",
			Address:             "1 MG Road",
			Board:               null.StringFrom("CBSE"),
			FeeStructure:        null.StringFrom("INR 60,000 / year"),
			StudentTeacherRatio: null.IntFrom(30),
			Features:            institution.Features{"science_lab": true, "library": true, "hostel": false},
			ContactEmail:        "office@sunrise.in",
			ContactPhone:        null.StringFrom("+91 20 1234 5678"),
			IsApproved:          true,
		},
		"c1": {
			ID:         "c1",
			Name:       "Kota Classes",
			Type:       institution.CategoryCoaching,
			City:       "Kota",
			Features:   institution.Features{},
			IsApproved: true,
		},
		"p1": {ID: "p1", Name: "Pending", Type: institution.CategoryCollege},
	}}
}

func cellTexts(col Column) map[string]string {
	texts := make(map[string]string, len(col.Cells))
	for i, r := range DefaultRows {
		texts[r.Key] = col.Cells[i].Text
	}
	return texts
}

func TestAssembler_Assemble(t *testing.T) {
	ctx := context.Background()

	t.Run("empty selection", func(t *testing.T) {
		src := newSource()
		m, err := NewAssembler(src).Assemble(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, m.Columns)
		assert.Len(t, m.Rows, len(DefaultRows))
		assert.Equal(t, 0, m.Requested)
		assert.Empty(t, m.MissingNotice())
		assert.Empty(t, src.calls, "nothing to fetch")
	})

	t.Run("selection order", func(t *testing.T) {
		m, err := NewAssembler(newSource()).Assemble(ctx, []string{"c1", "s1"})
		require.NoError(t, err)
		require.Len(t, m.Columns, 2)
		assert.Equal(t, "c1", m.Columns[0].ID)
		assert.Equal(t, "s1", m.Columns[1].ID)
		assert.Equal(t, 0, m.Missing)
	})

	t.Run("missing institutions", func(t *testing.T) {
		m, err := NewAssembler(newSource()).Assemble(ctx, []string{"gone", "s1", "p1"})
		require.NoError(t, err)
		require.Len(t, m.Columns, 1)
		assert.Equal(t, 3, m.Requested)
		assert.Equal(t, 2, m.Missing)
		assert.Equal(t, "2 selected institution(s) could not be loaded.", m.MissingNotice())
	})

	t.Run("cells", func(t *testing.T) {
		m, err := NewAssembler(newSource()).Assemble(ctx, []string{"s1", "c1"})
		require.NoError(t, err)

		s1 := cellTexts(m.Columns[0])
		assert.Equal(t, "Sunrise Public School", s1["name"])
		assert.Equal(t, "School", s1["type"])
		assert.Equal(t, "CBSE", s1["board"])
		assert.Equal(t, "INR 60,000 / year", s1["fee_structure"])
		assert.Equal(t, "30:1", s1["student_teacher_ratio"])
		assert.Equal(t, "Library, Science Lab", s1["features"])
		assert.Equal(t, "+91 20 1234 5678", s1["contact_phone"])
		assert.Equal(t, "/school/s1", m.Columns[0].Cells[0].Href)
		assert.Equal(t, "mailto:office@sunrise.in", m.Columns[0].Cells[9].Href)

		c1 := cellTexts(m.Columns[1])
		assert.Equal(t, "Coaching", c1["type"])
		assert.Equal(t, NotAvailable, c1["board"])
		assert.Equal(t, NotAvailable, c1["state"])
		assert.Equal(t, NotAvailable, c1["student_teacher_ratio"])
		assert.Equal(t, NotAvailable, c1["contact_email"])
		assert.Equal(t, "None listed", c1["features"])
	})

	t.Run("custom rows", func(t *testing.T) {
		rows := []Row{{Key: "city", Label: "City"}, {Key: "pincode", Label: "PIN"}}
		m, err := NewAssembler(newSource(), rows...).Assemble(ctx, []string{"s1"})
		require.NoError(t, err)
		assert.Equal(t, []Header{{Key: "city", Label: "City"}, {Key: "pincode", Label: "PIN"}}, m.Rows)
		assert.Equal(t, []Cell{{Text: "Pune"}, {Text: NotAvailable}}, m.Columns[0].Cells)
	})

	t.Run("source error", func(t *testing.T) {
		src := newSource()
		src.err = errors.New("connection refused")
		_, err := NewAssembler(src).Assemble(ctx, []string{"s1"})
		assert.EqualError(t, err, "connection refused")
	})
}

func TestCell_String(t *testing.T) {
	assert.Equal(t, "N/A", Cell{Text: NotAvailable}.String())
	assert.Equal(t, "Sunrise <mailto:a@b.in>", Cell{Text: "Sunrise", Href: "mailto:a@b.in"}.String())
}
