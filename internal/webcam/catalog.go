package webcam

import "github.com/i474232898/ski-tracker/internal/mountain"

// Dynamic tags cameras whose URL is synthesized from a publishing time grid.
type Dynamic string

const (
	Static          Dynamic = ""
	DynamicPanorama Dynamic = "panorama"
)

// Entry is a static camera descriptor. For dynamic cameras URL is the base
// the timestamp is appended to.
type Entry struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	CacheBust bool    `json:"cacheBust"`
	Dynamic   Dynamic `json:"dynamic,omitempty"`
}

// IsDynamic reports whether the entry is grid-addressed.
func (e Entry) IsDynamic() bool {
	return e.Dynamic != Static
}

const (
	bigWhiteCams = "https://www.bigwhite.com/images/webcams/full/"
	sunPeaksCams = "https://www.sunpeaksresort.com/sites/default/files/spr_website_data/webcams/"
	panoramaCams = "https://www.panoramaresort.com/assets/webcams/"
)

var catalog = map[mountain.Key][]Entry{
	mountain.BigWhite: {
		{ID: "village", Name: "The Village", URL: bigWhiteCams + "village.jpg", CacheBust: true},
		{ID: "cliff", Name: "The Cliff", URL: bigWhiteCams + "cliff.jpg", CacheBust: true},
		{ID: "hwy33", Name: "High Way 33", URL: bigWhiteCams + "hwy33.jpg", CacheBust: true},
		{ID: "powpow", Name: "Pow Cam", URL: bigWhiteCams + "powpow.jpg", CacheBust: true},
		{ID: "happyvalley", Name: "Happy Valley", URL: bigWhiteCams + "happyvalley.jpg", CacheBust: true},
		{ID: "snowghost", Name: "Snow Ghost", URL: bigWhiteCams + "snowghost.jpg", CacheBust: true},
		{ID: "bulletchair", Name: "Bullet Chair", URL: bigWhiteCams + "bullet.jpg", CacheBust: true},
		{ID: "tubepark", Name: "Tube Park", URL: bigWhiteCams + "tubepark.jpg", CacheBust: true},
		{ID: "teluspark", Name: "Telus Park", URL: bigWhiteCams + "teluspark.jpg", CacheBust: true},
		{ID: "blackforest", Name: "Black Forest", URL: bigWhiteCams + "blackforest.jpg", CacheBust: true},
		{ID: "westridge", Name: "West Ridge", URL: bigWhiteCams + "westridge.jpg", CacheBust: true},
	},
	mountain.SunPeaks: {
		{ID: "village", Name: "Village", URL: sunPeaksCams + "sundance.jpg", CacheBust: true},
		{ID: "mt-todd", Name: "View of Mt Todd", URL: sunPeaksCams + "view%20of%20mt%20todd.jpg", CacheBust: true},
		{ID: "westbowl", Name: "West Bowl", URL: sunPeaksCams + "westbowl-totw.jpg", CacheBust: true},
		{ID: "westbowl2", Name: "West Bowl 2", URL: sunPeaksCams + "westbowl.jpg", CacheBust: true},
		{ID: "morrisey", Name: "View of Morrisey", URL: sunPeaksCams + "ele_view_of_morrisey.jpg", CacheBust: true},
		{ID: "osv", Name: "View of OSV", URL: sunPeaksCams + "ele_view_of_OSV.jpg", CacheBust: true},
		{ID: "valley", Name: "Valley", URL: sunPeaksCams + "Valley.jpg", CacheBust: true},
		{ID: "village-day-lodge", Name: "Village Day Lodge Slopeside", URL: sunPeaksCams + "Village%20Day%20Lodge%20Slopeside.jpg", CacheBust: true},
		{ID: "village-clock-tower", Name: "Village Clock Tower", URL: sunPeaksCams + "Village%20Clock%20Tower.jpg", CacheBust: true},
	},
	mountain.Panorama: {
		{ID: "main", Name: "Summit Cam", URL: panoramaCams + "summit-west/summit-west", Dynamic: DynamicPanorama},
		{ID: "summit", Name: "Summit Cam West", URL: panoramaCams + "summit/summit", Dynamic: DynamicPanorama},
		{ID: "champagne", Name: "Champagne Express", URL: panoramaCams + "champagne/champagne", Dynamic: DynamicPanorama},
		{ID: "mile1quad", Name: "Mile 1 Quad", URL: panoramaCams + "mile1quad/mile1quad", Dynamic: DynamicPanorama},
		{ID: "plateau-e", Name: "Plateau E", URL: panoramaCams + "plateau-e/plateau-e", Dynamic: DynamicPanorama},
		{ID: "plateau-w", Name: "Plateau W", URL: panoramaCams + "plateau-w/plateau-w", Dynamic: DynamicPanorama},
		{ID: "plateau-s", Name: "Plateau S", URL: panoramaCams + "plateau-s/plateau-s", Dynamic: DynamicPanorama},
		{ID: "village", Name: "Village", URL: panoramaCams + "village/village", Dynamic: DynamicPanorama},
		{ID: "showoff", Name: "Showoff", URL: panoramaCams + "showoff/showoff", Dynamic: DynamicPanorama},
	},
}

// For returns a copy of the cameras configured for a mountain.
func For(key mountain.Key) []Entry {
	src := catalog[key]
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}
