package institution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		fs   FilterState
		want string
	}{
		{name: "empty", fs: FilterState{}, want: ""},
		{name: "default sort omitted", fs: FilterState{Sort: SortRelevance}, want: ""},
		{
			name: "scalars",
			fs:   FilterState{Category: CategorySchool, Detail: "10", City: "Pune", Sort: SortNameDesc},
			want: "category=school&city=Pune&detail=10&sort=name_desc",
		},
		{
			name: "sets sorted and de-duplicated",
			fs:   FilterState{Boards: []string{"ICSE", "CBSE", "ICSE"}, Features: []string{"library", " hostel "}},
			want: "board=CBSE&board=ICSE&feature=hostel&feature=library",
		},
		{name: "blank fields omitted", fs: FilterState{Detail: "  ", City: "\t"}, want: ""},
		{name: "escaped", fs: FilterState{Detail: "JEE (Main/Advanced)"}, want: "detail=JEE+%28Main%2FAdvanced%29"},
		{name: "unknown category dropped", fs: FilterState{Category: "university", City: "Delhi"}, want: "city=Delhi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.fs))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FilterState
	}{
		{name: "empty", raw: "", want: FilterState{Sort: SortRelevance}},
		{name: "leading question mark", raw: "?city=Pune", want: FilterState{City: "Pune", Sort: SortRelevance}},
		{
			name: "all params",
			raw:  "category=coaching&detail=NEET&city=Kota&sort=name_asc&feature=hostel&feature=library",
			want: FilterState{
				Category: CategoryCoaching,
				Detail:   "NEET",
				City:     "Kota",
				Features: []string{"hostel", "library"},
				Sort:     SortNameAsc,
			},
		},
		{
			name: "repeated boards",
			raw:  "category=school&board=ICSE&board=CBSE&board=ICSE",
			want: FilterState{Category: CategorySchool, Boards: []string{"CBSE", "ICSE"}, Sort: SortRelevance},
		},
		{name: "category case-insensitive", raw: "category=College", want: FilterState{Category: CategoryCollege, Sort: SortRelevance}},
		{name: "unknown category absent", raw: "category=university&city=Goa", want: FilterState{City: "Goa", Sort: SortRelevance}},
		{name: "unknown sort defaulted", raw: "sort=rating", want: FilterState{Sort: SortRelevance}},
		{name: "unknown params ignored", raw: "page=2&q=abc", want: FilterState{Sort: SortRelevance}},
		{name: "empty values absent", raw: "city=&detail=%20&board=", want: FilterState{Sort: SortRelevance}},
		{name: "malformed escape skipped", raw: "city=%zz&detail=10", want: FilterState{Detail: "10", Sort: SortRelevance}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.raw))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	states := []FilterState{
		{},
		{Category: CategorySchool, Detail: "Nursery", City: "New Delhi", Boards: []string{"State Board", "CBSE"}},
		{Category: CategoryCoaching, Detail: "JEE (Main/Advanced)", Features: []string{"online_classes", "hostel"}, Sort: SortNameDesc},
		{Category: CategoryCollege, Detail: "B.Com (Hons)", City: "Kolkata & Howrah", Sort: SortNameAsc},
		{City: "Bengaluru", Features: []string{"a=b", "c&d"}},
	}
	for _, fs := range states {
		t.Run(Encode(fs), func(t *testing.T) {
			decoded := Decode(Encode(fs))
			assert.True(t, decoded.Equal(fs), "Decode(Encode(%+v)) = %+v", fs, decoded)
			assert.Equal(t, Encode(fs), Encode(decoded))
		})
	}
}

func TestEncodeEqualStates(t *testing.T) {
	a := FilterState{Boards: []string{"ICSE", "CBSE"}, Features: []string{"library", "hostel"}, City: " Pune "}
	b := FilterState{Boards: []string{"CBSE", "ICSE", "CBSE"}, Features: []string{"hostel", "library"}, City: "Pune", Sort: SortRelevance}
	assert.True(t, a.Equal(b))
	assert.Equal(t, Encode(a), Encode(b))
}
