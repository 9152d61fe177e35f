package palette

import "sort"

var builtin = map[string]Palette{
	"originalLadybug": {
		{75, 107, 169}, {115, 147, 202}, {170, 200, 247}, {193, 213, 208},
		{245, 239, 103}, {252, 230, 74}, {239, 156, 21}, {234, 123, 0},
		{234, 74, 0}, {234, 38, 0},
	},
	"nuancedLadybug": {
		{49, 54, 149}, {69, 117, 180}, {116, 173, 209}, {171, 217, 233},
		{224, 243, 248}, {255, 255, 191}, {254, 224, 144}, {253, 174, 97},
		{244, 109, 67}, {215, 48, 39}, {165, 0, 38},
	},
	"multiColoredLadybug": {
		{4, 25, 145}, {7, 48, 224}, {7, 88, 255}, {1, 232, 255},
		{97, 246, 156}, {166, 249, 86}, {254, 244, 1}, {255, 121, 0},
		{239, 39, 0}, {138, 17, 0},
	},
	"cividis": {
		{0, 32, 81}, {60, 77, 110}, {127, 124, 117}, {187, 175, 113}, {253, 234, 69},
	},
}

var labels = map[string]string{
	"originalLadybug":     "Original Ladybug",
	"nuancedLadybug":      "Nuanced Ladybug",
	"multiColoredLadybug": "Multi-colored",
	"cividis":             "Cividis",
	"custom":              "Custom",
}

// Registry resolves palettes by name.
type Registry struct {
	palettes map[string]Palette
}

// NewRegistry returns the built-in palettes plus an optional "custom" one.
func NewRegistry(custom Palette) *Registry {
	r := &Registry{palettes: make(map[string]Palette, len(builtin)+1)}
	for name, p := range builtin {
		r.palettes[name] = p
	}
	if len(custom) >= 2 {
		r.palettes["custom"] = custom
	}
	return r
}

// Get returns the named palette, falling back to DefaultName.
func (r *Registry) Get(name string) Palette {
	if p, ok := r.palettes[name]; ok {
		return p
	}
	return r.palettes[DefaultName]
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.palettes[name]
	return ok
}

// Info describes a palette for pickers and legends.
type Info struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Stops    []RGB  `json:"stops"`
	Gradient string `json:"gradient"`
}

// List returns every palette sorted by name.
func (r *Registry) List() []Info {
	names := make([]string, 0, len(r.palettes))
	for name := range r.palettes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Info, len(names))
	for i, name := range names {
		p := r.palettes[name]
		out[i] = Info{
			Name:     name,
			Label:    labels[name],
			Stops:    p,
			Gradient: p.Gradient("to right"),
		}
	}
	return out
}
