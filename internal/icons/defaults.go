package icons

// SolidPrefix is the prefix of the solid icon style.
const SolidPrefix = "fas"

// solid is the gallery's icon set: navigation, actions and album categories.
var solid = []struct{ name, codepoint string }{
	{"camera", "f030"},
	{"images", "f302"},
	{"clock", "f017"},
	{"star", "f005"},
	{"sync-alt", "f2f1"},
	{"plus", "f067"},
	{"chevron-down", "f078"},
	{"folder", "f07b"},
	{"times", "f00d"},
	{"times-circle", "f057"},
	{"mountain", "f6fc"},
	{"utensils", "f2e7"},
	{"birthday-cake", "f1fd"},
	{"user", "f007"},
	{"map-marker-alt", "f3c5"},
	{"calendar-alt", "f073"},
	{"cog", "f013"},
	{"edit", "f044"},
	{"share-alt", "f1e0"},
	{"trash-alt", "f2ed"},
	{"tags", "f02c"},
	{"image", "f03e"},
}

// DefaultSet returns the default icon definitions in registration order.
func DefaultSet() []Definition {
	defs := make([]Definition, len(solid))
	for i, s := range solid {
		defs[i] = Definition{Prefix: SolidPrefix, Name: s.name, Codepoint: s.codepoint}
	}
	return defs
}
