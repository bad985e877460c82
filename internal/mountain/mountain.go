package mountain

// Key identifies a tracked ski resort.
type Key string

const (
	BigWhite Key = "big-white"
	SunPeaks Key = "sun-peaks"
	Panorama Key = "panorama"
)

// Coordinates is the forecast point for a resort.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Mountain is a static catalog entry.
type Mountain struct {
	Key         Key         `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

var catalog = []Mountain{
	{Key: BigWhite, Name: "Big White", Coordinates: Coordinates{Latitude: 49.7313, Longitude: -118.9439}},
	{Key: SunPeaks, Name: "Sun Peaks", Coordinates: Coordinates{Latitude: 50.884, Longitude: -119.885}},
	{Key: Panorama, Name: "Panorama", Coordinates: Coordinates{Latitude: 50.460, Longitude: -116.237}},
}

// All returns the catalog in display order. The first entry is the default
// selection.
func All() []Mountain {
	out := make([]Mountain, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a mountain by key.
func Lookup(key string) (Mountain, bool) {
	for _, m := range catalog {
		if string(m.Key) == key {
			return m, true
		}
	}
	return Mountain{}, false
}

// Default is the mountain selected when the dashboard first loads.
func Default() Mountain {
	return catalog[0]
}
