package mapview

import (
	"net/url"
	"strings"

	"wayguard/internal/types"
)

const (
	LiveZoom     = 15
	FallbackZoom = 12

	MarkerTitle = "Your Location"
	markerSize  = 24
)

const markerSVG = `<svg width="24" height="24" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg">
  <circle cx="12" cy="12" r="8" fill="#4285F4" stroke="white" stroke-width="2"/>
  <circle cx="12" cy="12" r="3" fill="white"/>
</svg>`

// Frame is everything needed to draw the map again without new lookups.
type Frame struct {
	Center types.Coords
	Zoom   int
}

// MapView is the map instance and its single marker, as handed to the
// browser SDK.
type MapView struct {
	ScriptURL        string       `json:"scriptUrl"`
	Center           types.Coords `json:"center"`
	Zoom             int          `json:"zoom"`
	MapTypeID        string       `json:"mapTypeId" example:"roadmap"`
	DisableDefaultUI bool         `json:"disableDefaultUI"`
	Styles           []Style      `json:"styles"`
	Marker           Marker       `json:"marker"`
}

type Style struct {
	FeatureType string   `json:"featureType"`
	ElementType string   `json:"elementType"`
	Stylers     []Styler `json:"stylers"`
}

type Styler struct {
	Visibility string `json:"visibility"`
}

type Marker struct {
	Position types.Coords `json:"position"`
	Title    string       `json:"title"`
	Icon     MarkerIcon   `json:"icon"`
}

type MarkerIcon struct {
	URL        string `json:"url"`
	ScaledSize Size   `json:"scaledSize"`
	Anchor     Point  `json:"anchor"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// hidePOILabels suppresses points-of-interest labels on the base map.
var hidePOILabels = []Style{
	{
		FeatureType: "poi",
		ElementType: "labels",
		Stylers:     []Styler{{Visibility: "off"}},
	},
}

// Build lays out a map for the frame with one marker at its center.
func Build(scriptURL string, frame Frame) *MapView {
	return &MapView{
		ScriptURL:        scriptURL,
		Center:           frame.Center,
		Zoom:             frame.Zoom,
		MapTypeID:        "roadmap",
		DisableDefaultUI: true,
		Styles:           append([]Style(nil), hidePOILabels...),
		Marker: Marker{
			Position: frame.Center,
			Title:    MarkerTitle,
			Icon: MarkerIcon{
				URL:        markerIconURL(),
				ScaledSize: Size{Width: markerSize, Height: markerSize},
				Anchor:     Point{X: markerSize / 2, Y: markerSize / 2},
			},
		},
	}
}

func markerIconURL() string {
	// encodeURIComponent leaves spaces as %20, unlike QueryEscape.
	return "data:image/svg+xml;charset=UTF-8," + strings.ReplaceAll(url.QueryEscape(markerSVG), "+", "%20")
}

// Clone returns a deep copy so callers cannot reach the owner's instance.
func (v *MapView) Clone() *MapView {
	if v == nil {
		return nil
	}
	c := *v
	c.Styles = make([]Style, len(v.Styles))
	for i, s := range v.Styles {
		s.Stylers = append([]Styler(nil), s.Stylers...)
		c.Styles[i] = s
	}
	return &c
}
