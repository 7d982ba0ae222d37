package institution

// Control is a checkbox of the filter panel.
type Control struct {
	Option
	Checked bool `json:"checked"`
}

// Section is a group of controls emitting ChangeEvents of a single FilterType.
type Section struct {
	Type     FilterType `json:"type"`
	Title    string     `json:"title"`
	Controls []Control  `json:"controls"`
}

type Panel struct {
	Category      Category  `json:"category,omitempty"`
	Sections      []Section `json:"sections"`
	DetailOptions []string  `json:"detail_options,omitempty"`
	SortOptions   []Option  `json:"sort_options"`
}

// RenderPanel lays out the filter controls for a category, checked according to current.
// The board section is only present for schools.
func RenderPanel(category Category, current FilterState) Panel {
	current = current.Canonical()
	category = ParseCategory(string(category))

	p := Panel{
		Category:      category,
		DetailOptions: DetailOptions(category),
		SortOptions:   SortOptions,
	}
	if category == CategorySchool {
		p.Sections = append(p.Sections, Section{
			Type:     FilterBoards,
			Title:    "Board",
			Controls: controls(BoardOptions, current.Boards),
		})
	}
	p.Sections = append(p.Sections, Section{
		Type:     FilterFeatures,
		Title:    "Features",
		Controls: controls(FeatureOptions, current.Features),
	})
	return p
}

// Toggle returns the ChangeEvent emitted by clicking the control with value in section typ.
func (p Panel) Toggle(typ FilterType, value string) (ChangeEvent, bool) {
	for _, s := range p.Sections {
		if s.Type != typ {
			continue
		}
		for _, c := range s.Controls {
			if c.Value == value {
				return ChangeEvent{Type: typ, Value: value, Checked: !c.Checked}, true
			}
		}
	}
	return ChangeEvent{}, false
}

func controls(opts []Option, selected []string) []Control {
	ctrls := make([]Control, 0, len(opts))
	for _, o := range opts {
		ctrls = append(ctrls, Control{Option: o, Checked: contains(selected, o.Value)})
	}
	return ctrls
}
