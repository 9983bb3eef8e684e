package place

import (
	"sort"
	"strings"
)

// DefaultIcon is shown for categories with no dedicated glyph.
const DefaultIcon = "📍"

// placeTypeIcons maps a lower-cased place type to its display glyph.
var placeTypeIcons = map[string]string{
	"restaurant":       "🍽️",
	"food":             "🍽️",
	"park":             "🌳",
	"natural_feature":  "🌳",
	"church":           "⛪",
	"mosque":           "⛪",
	"temple":           "⛪",
	"synagogue":        "⛪",
	"place_of_worship": "⛪",
	"hospital":         "🏥",
	"health":           "🏥",
	"school":           "🎓",
	"university":       "🎓",
	"education":        "🎓",
	"shopping_mall":    "🛍️",
	"store":            "🛍️",
	"commercial":       "🛍️",
	"hotel":            "🏨",
	"lodging":          "🏨",
	"bank":             "🏦",
	"finance":          "🏦",
	"gas_station":      "⛽",
	"route":            "🛣️",
	"street":           "🛣️",
}

// placeTypeLabels maps a place type to its human-readable label.
var placeTypeLabels = map[string]string{
	"establishment":     "Business",
	"point_of_interest": "Point of Interest",
	"restaurant":        "Restaurant",
	"food":              "Food Establishment",
	"park":              "Park",
	"natural_feature":   "Natural Feature",
	"church":            "Church",
	"mosque":            "Mosque",
	"temple":            "Temple",
	"synagogue":         "Synagogue",
	"place_of_worship":  "Religious Place",
	"hospital":          "Hospital",
	"health":            "Healthcare",
	"school":            "School",
	"university":        "University",
	"education":         "Educational Institution",
	"shopping_mall":     "Shopping Mall",
	"store":             "Store",
	"commercial":        "Commercial Area",
	"hotel":             "Hotel",
	"lodging":           "Lodging",
	"bank":              "Bank",
	"finance":           "Financial Institution",
	"gas_station":       "Gas Station",
	"route":             "Street",
	"street":            "Street",
	"locality":          "City Area",
	"sublocality":       "Neighborhood",
	"area":              "Area",
	"location":          "Location",
}

// Icon returns the glyph for a place type, or DefaultIcon.
func Icon(placeType string) string {
	if icon, ok := placeTypeIcons[strings.ToLower(placeType)]; ok {
		return icon
	}
	return DefaultIcon
}

// Label returns the display label for a place type. Unknown types are
// echoed back with the first letter capitalized.
func Label(placeType string) string {
	if label, ok := placeTypeLabels[placeType]; ok {
		return label
	}
	if placeType == "" {
		return ""
	}
	return strings.ToUpper(placeType[:1]) + placeType[1:]
}

// Category is one row of the combined icon/label tables.
type Category struct {
	Type  string `json:"type" example:"point_of_interest"`
	Icon  string `json:"icon" example:"📍"`
	Label string `json:"label" example:"Point of Interest"`
}

// Categories lists every type known to either table, sorted by type.
func Categories() []Category {
	seen := make(map[string]struct{}, len(placeTypeLabels)+len(placeTypeIcons))
	for t := range placeTypeLabels {
		seen[t] = struct{}{}
	}
	for t := range placeTypeIcons {
		seen[t] = struct{}{}
	}

	out := make([]Category, 0, len(seen))
	for t := range seen {
		out = append(out, Category{Type: t, Icon: Icon(t), Label: Label(t)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
