package sqlxrepos

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findgreatschool/core/institution"
)

func TestSearchQuery(t *testing.T) {
	const cols = "SELECT id, name, type, address, city, state, pincode, contact_email, contact_phone, board, " +
		"fee_structure, student_teacher_ratio, classes_offered, exams_coached, programs_offered, features, images, " +
		"user_id, is_approved, created_at, updated_at FROM institutions "

	tests := []struct {
		name     string
		filter   institution.FilterState
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "no filter",
			wantSQL:  cols + "WHERE is_approved = $1 ORDER BY name ASC, id ASC",
			wantArgs: []interface{}{true},
		},
		{
			name:     "name desc",
			filter:   institution.FilterState{Sort: institution.SortNameDesc},
			wantSQL:  cols + "WHERE is_approved = $1 ORDER BY name DESC, id ASC",
			wantArgs: []interface{}{true},
		},
		{
			name:     "city is escaped",
			filter:   institution.FilterState{City: "50%_off"},
			wantSQL:  cols + "WHERE is_approved = $1 AND city ILIKE $2 ORDER BY name ASC, id ASC",
			wantArgs: []interface{}{true, `%50\%\_off%`},
		},
		{
			name: "school with everything",
			filter: institution.FilterState{
				Category: institution.CategorySchool,
				Detail:   "Class 10",
				City:     "Pune",
				Boards:   []string{"ICSE", "CBSE"},
				Features: []string{"library"},
			},
			wantSQL: cols + "WHERE is_approved = $1 AND type = $2 AND city ILIKE $3 AND classes_offered @> $4 " +
				"AND board IN ($5,$6) AND features @> $7::jsonb ORDER BY name ASC, id ASC",
			wantArgs: []interface{}{
				true, "school", "%Pune%", pq.Array([]string{"Class 10"}), "CBSE", "ICSE", `{"library":true}`,
			},
		},
		{
			name:     "boards ignored outside schools",
			filter:   institution.FilterState{Category: institution.CategoryCollege, Boards: []string{"CBSE"}},
			wantSQL:  cols + "WHERE is_approved = $1 AND type = $2 ORDER BY name ASC, id ASC",
			wantArgs: []interface{}{true, "college"},
		},
		{
			name:     "detail without category ignored",
			filter:   institution.FilterState{Detail: "JEE"},
			wantSQL:  cols + "WHERE is_approved = $1 ORDER BY name ASC, id ASC",
			wantArgs: []interface{}{true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := SearchQuery(institution.BuildQuery(tt.filter))
			require.NoError(t, err)
			gotSQL, gotArgs, err := b.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, gotSQL)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}

func TestFeaturesJSON(t *testing.T) {
	var f featuresJSON
	require.NoError(t, f.Scan([]byte(`{"library":true,"hostel":false}`)))
	assert.Equal(t, featuresJSON{"library": true, "hostel": false}, f)

	require.NoError(t, f.Scan(nil))
	assert.Equal(t, featuresJSON{}, f)

	assert.Error(t, f.Scan(42))

	v, err := featuresJSON(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestValidIDs(t *testing.T) {
	id := "8c4d1e0a-3b5f-4c2e-9a7d-1f2e3d4c5b6a"
	assert.Equal(t, []string{id}, validIDs([]string{"nope", id, ""}))
}
