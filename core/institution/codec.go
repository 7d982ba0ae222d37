package institution

import (
	"net/url"
	"strings"

	"github.com/trezcool/findgreatschool/core"
)

// Query string parameters
const (
	ParamCategory = "category"
	ParamDetail   = "detail"
	ParamCity     = "city"
	ParamSort     = "sort"
	ParamBoard    = "board"   // repeated
	ParamFeature  = "feature" // repeated
)

// Encode serializes fs as a query string (without the leading "?").
// Empty fields and the default sort are omitted; equal states encode to identical strings.
func Encode(fs FilterState) string {
	return EncodeValues(fs).Encode()
}

func EncodeValues(fs FilterState) url.Values {
	fs = fs.Canonical()
	v := make(url.Values)
	if fs.Category != "" {
		v.Set(ParamCategory, string(fs.Category))
	}
	if fs.Detail != "" {
		v.Set(ParamDetail, fs.Detail)
	}
	if fs.City != "" {
		v.Set(ParamCity, fs.City)
	}
	if fs.Sort != SortRelevance {
		v.Set(ParamSort, string(fs.Sort))
	}
	for _, b := range fs.Boards {
		v.Add(ParamBoard, b)
	}
	for _, f := range fs.Features {
		v.Add(ParamFeature, f)
	}
	return v
}

// Decode parses a query string (with or without the leading "?") into a FilterState.
// Unknown parameters are ignored and malformed values are treated as absent.
func Decode(raw string) FilterState {
	// ParseQuery keeps every well-formed pair even when it reports an error
	v, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return DecodeValues(v)
}

func DecodeValues(v url.Values) FilterState {
	fs := FilterState{
		Category: ParseCategory(v.Get(ParamCategory)),
		Detail:   core.CleanString(v.Get(ParamDetail)),
		City:     core.CleanString(v.Get(ParamCity)),
		Boards:   v[ParamBoard],
		Features: v[ParamFeature],
		Sort:     ParseSort(v.Get(ParamSort)),
	}
	return fs.Canonical()
}
