package institution

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FeatureGroup is a titled group of feature options.
type FeatureGroup struct {
	Title   string   `json:"title"`
	Options []Option `json:"options"`
}

// Hand-curated option lists. The remote store may hold values outside them.
var (
	BoardOptions = []Option{
		{Value: "CBSE", Label: "CBSE"},
		{Value: "ICSE", Label: "ICSE"},
		{Value: "State Board", Label: "State Board"},
		{Value: "IB", Label: "IB"},
		{Value: "Other", Label: "Other"},
	}

	// FeatureOptions are the features offered as search filters.
	FeatureOptions = []Option{
		{Value: "science_lab", Label: "Science Lab"},
		{Value: "computer_lab", Label: "Computer Lab"},
		{Value: "library", Label: "Library"},
		{Value: "auditorium", Label: "Auditorium"},
		{Value: "canteen", Label: "Canteen / Cafeteria"},
		{Value: "ac_classrooms", Label: "AC Classrooms"},
		{Value: "playground", Label: "Playground"},
		{Value: "sports_coaching", Label: "Sports Coaching"},
		{Value: "transport", Label: "Transport Facility"},
		{Value: "hostel", Label: "Hostel Facility"},
		{Value: "online_classes", Label: "Online Classes"},
	}

	// RegistrationFeatures are the features an institution can declare when registering.
	RegistrationFeatures = []FeatureGroup{
		{Title: "Academic", Options: []Option{
			{Value: "smart_classes", Label: "Smart Classes"},
			{Value: "science_lab", Label: "Science Lab"},
			{Value: "computer_lab", Label: "Computer Lab"},
			{Value: "library", Label: "Library"},
		}},
		{Title: "Infrastructure", Options: []Option{
			{Value: "ac_classrooms", Label: "AC Classrooms"},
			{Value: "auditorium", Label: "Auditorium"},
			{Value: "canteen", Label: "Canteen / Cafeteria"},
			{Value: "wifi_campus", Label: "Wi-Fi Campus"},
		}},
		{Title: "Sports & Activities", Options: []Option{
			{Value: "playground", Label: "Playground"},
			{Value: "sports_coaching", Label: "Sports Coaching"},
			{Value: "swimming_pool", Label: "Swimming Pool"},
			{Value: "music_room", Label: "Music Room"},
			{Value: "art_craft", Label: "Art & Craft"},
		}},
		{Title: "Services", Options: []Option{
			{Value: "transport", Label: "Transport Facility"},
			{Value: "hostel", Label: "Hostel Facility"},
			{Value: "day_care", Label: "Day Care / Creche"},
			{Value: "medical_room", Label: "Medical Room"},
		}},
		{Title: "Learning Modes", Options: []Option{
			{Value: "online_classes", Label: "Online Classes Available"},
			{Value: "weekend_batches", Label: "Weekend Batches (Coaching)"},
		}},
	}

	SchoolClasses = []string{"Nursery", "LKG", "UKG", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

	CoachingExams = []string{
		"JEE (Main/Advanced)", "NEET", "CUET", "UPSC CSE", "CAT", "GATE", "CLAT",
		"IBPS PO/Clerk", "SBI PO/Clerk", "SSC CGL", "NDA", "CA Foundation", "CS Foundation", "Other",
	}

	CollegePrograms = []string{
		"B.Tech CSE", "B.Tech ECE", "B.Tech Mechanical", "B.Tech Civil", "B.Tech EEE",
		"MBBS", "BDS", "B.Pharm", "B.Sc Nursing", "B.Com (Hons)", "B.Com (General)", "BBA", "BCA",
		"B.Sc Physics", "B.Sc Chemistry", "B.Sc Maths", "B.Sc Biology",
		"BA English", "BA History", "BA Political Science", "BA Economics",
		"LLB", "B.Arch", "Diploma Engineering", "MBA", "MCA", "Other",
	}

	SortOptions = []Option{
		{Value: string(SortRelevance), Label: "Relevance"},
		{Value: string(SortNameAsc), Label: "Name (A-Z)"},
		{Value: string(SortNameDesc), Label: "Name (Z-A)"},
	}

	registrationFeatureKeys = func() map[string]struct{} {
		keys := make(map[string]struct{})
		for _, g := range RegistrationFeatures {
			for _, o := range g.Options {
				keys[o.Value] = struct{}{}
			}
		}
		return keys
	}()
)

// DetailOptions returns the offerings a category can be narrowed down by.
func DetailOptions(c Category) []string {
	switch c {
	case CategorySchool:
		return SchoolClasses
	case CategoryCoaching:
		return CoachingExams
	case CategoryCollege:
		return CollegePrograms
	}
	return nil
}

// IsRegistrationFeature reports whether key can be declared when registering.
func IsRegistrationFeature(key string) bool {
	_, ok := registrationFeatureKeys[key]
	return ok
}
