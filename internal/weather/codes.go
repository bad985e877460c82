package weather

// Family is a normalized high-level weather condition.
type Family string

const (
	FamilyUnknown      Family = "unknown"
	FamilyClear        Family = "clear"
	FamilyClouds       Family = "clouds"
	FamilyFog          Family = "fog"
	FamilyDrizzle      Family = "drizzle"
	FamilyRain         Family = "rain"
	FamilySnow         Family = "snow"
	FamilyThunderstorm Family = "thunderstorm"
	FamilyWind         Family = "wind"
)

// Condition is the display form of a WMO weather code.
type Condition struct {
	Code        int    `json:"code"`
	Family      Family `json:"family"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// WMO weather interpretation codes as published by Open-Meteo.
var conditions = map[int]Condition{
	0:  {Family: FamilyClear, Description: "Clear sky", Icon: "☀️"},
	1:  {Family: FamilyClear, Description: "Mainly clear", Icon: "☀️"},
	2:  {Family: FamilyClouds, Description: "Partly cloudy", Icon: "⛅"},
	3:  {Family: FamilyClouds, Description: "Overcast", Icon: "☁️"},
	45: {Family: FamilyFog, Description: "Fog", Icon: "🌫️"},
	48: {Family: FamilyFog, Description: "Depositing rime fog", Icon: "🌫️"},
	51: {Family: FamilyDrizzle, Description: "Light drizzle", Icon: "🌧️"},
	53: {Family: FamilyDrizzle, Description: "Moderate drizzle", Icon: "🌧️"},
	55: {Family: FamilyDrizzle, Description: "Dense drizzle", Icon: "🌧️"},
	56: {Family: FamilyDrizzle, Description: "Light freezing drizzle", Icon: "🌧️"},
	57: {Family: FamilyDrizzle, Description: "Dense freezing drizzle", Icon: "🌧️"},
	61: {Family: FamilyRain, Description: "Slight rain", Icon: "🌧️"},
	63: {Family: FamilyRain, Description: "Moderate rain", Icon: "🌧️"},
	65: {Family: FamilyRain, Description: "Heavy rain", Icon: "🌧️"},
	66: {Family: FamilyRain, Description: "Light freezing rain", Icon: "🌧️"},
	67: {Family: FamilyRain, Description: "Heavy freezing rain", Icon: "🌧️"},
	71: {Family: FamilySnow, Description: "Slight snow fall", Icon: "❄️"},
	73: {Family: FamilySnow, Description: "Moderate snow fall", Icon: "❄️"},
	75: {Family: FamilySnow, Description: "Heavy snow fall", Icon: "❄️"},
	77: {Family: FamilySnow, Description: "Snow grains", Icon: "❄️"},
	80: {Family: FamilyRain, Description: "Slight rain showers", Icon: "🌧️"},
	81: {Family: FamilyRain, Description: "Moderate rain showers", Icon: "🌧️"},
	82: {Family: FamilyRain, Description: "Violent rain showers", Icon: "🌧️"},
	85: {Family: FamilySnow, Description: "Slight snow showers", Icon: "🌨️"},
	86: {Family: FamilySnow, Description: "Heavy snow showers", Icon: "🌨️"},
	95: {Family: FamilyThunderstorm, Description: "Thunderstorm", Icon: "⛈️"},
	96: {Family: FamilyThunderstorm, Description: "Thunderstorm with slight hail", Icon: "⛈️"},
	99: {Family: FamilyThunderstorm, Description: "Thunderstorm with heavy hail", Icon: "⛈️"},
}

// LookupCondition maps any integer code to a condition. Codes outside the
// table yield the Unknown family.
func LookupCondition(code int) Condition {
	c, ok := conditions[code]
	if !ok {
		return Condition{Code: code, Family: FamilyUnknown, Description: "Unknown conditions", Icon: "❓"}
	}
	c.Code = code
	return c
}
