package model

// AllCategories is the filter value meaning "no category filter".
const AllCategories = "All"

// categories is the closed set of post categories, in display order.
var categories = []string{
	"Technology",
	"Health & Medical",
	"Business",
	"Lifestyle",
	"Education",
	"Entertainment",
	"Sports",
	"Science",
	"Travel",
	"Food & Cooking",
	"Other",
}

// Categories returns a copy of the category enumeration.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether name is a member of the enumeration.
// Matching is exact and case-sensitive.
func IsCategory(name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}
