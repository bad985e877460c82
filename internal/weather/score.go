package weather

import (
	"math"

	"github.com/i474232898/ski-tracker/internal/common"
)

const (
	freshSnowCeilingCm  = 30.0
	futureSnowCeilingCm = 45.0

	idealTempC       = -6.0
	coldFootTempC    = -20.0
	warmFootTempC    = 8.0
	rideableMaxTempC = 2.0
	tempFloorScore   = 10.0

	windCeilingKmh = 60.0

	// Each of the five components carries the same weight. The weights sum
	// to 2.0 and the total is clamped, not normalized.
	componentWeight = 0.4
)

// SnowTag is a qualitative snow-surface condition.
type SnowTag string

const (
	TagPowder          SnowTag = "Powder"
	TagPackedPowder    SnowTag = "Packed Powder"
	TagFreshOnGroomers SnowTag = "Fresh on Groomers"
	TagSpringSlushy    SnowTag = "Spring/Slushy"
	TagGroomers        SnowTag = "Groomers"
)

var tagEmoji = map[SnowTag]string{
	TagPowder:          "❄️",
	TagPackedPowder:    "🌨️",
	TagFreshOnGroomers: "⛷️",
	TagSpringSlushy:    "💧",
	TagGroomers:        "🎿",
}

// Emoji returns the display glyph of the tag.
func (t SnowTag) Emoji() string {
	return tagEmoji[t]
}

// SkiScore is the output of ComputeSkiScore.
type SkiScore struct {
	Score    int     `json:"score"`
	Label    string  `json:"label"`
	SubLabel string  `json:"subLabel"`
	Tag      SnowTag `json:"conditionTag"`
}

// ComputeSkiScore scores a day's skiing from 0 to 100. next72hSnowCm is the
// snowfall summed over the following three days.
func ComputeSkiScore(day DailyWeatherRecord, next72hSnowCm float64) SkiScore {
	avg := day.AvgTemperature()

	sum := freshSnowScore(day.SnowfallSum) +
		futureSnowScore(next72hSnowCm) +
		temperatureScore(avg) +
		windScore(day.WindSpeedMax) +
		precipitationScore(day.PrecipitationProbability, avg)

	score := int(common.Clamp(math.Round(sum*componentWeight), 0, 100))
	label, sub := scoreLabel(score)

	return SkiScore{
		Score:    score,
		Label:    label,
		SubLabel: sub,
		Tag:      snowTag(CmToIn(day.SnowfallSum), avg),
	}
}

func freshSnowScore(cm float64) float64 {
	return common.Clamp(cm/freshSnowCeilingCm*100, 0, 100)
}

func futureSnowScore(cm float64) float64 {
	return common.Clamp(cm/futureSnowCeilingCm*100, 0, 100)
}

// temperatureScore is a triangle peaking at idealTempC and reaching
// tempFloorScore at both feet, flat beyond them.
func temperatureScore(avg float64) float64 {
	var foot float64
	if avg <= idealTempC {
		foot = coldFootTempC
	} else {
		foot = warmFootTempC
	}
	slope := (100 - tempFloorScore) / math.Abs(foot-idealTempC)
	return common.Clamp(100-math.Abs(avg-idealTempC)*slope, tempFloorScore, 100)
}

func windScore(kmh float64) float64 {
	return common.Clamp(100-kmh/windCeilingKmh*100, 0, 100)
}

// Below freezing precipitation is snow and helps; above it is rain.
func precipitationScore(probability, avg float64) float64 {
	p := common.Clamp(probability, 0, 100)
	if avg <= 0 {
		return p
	}
	return 100 - p
}

func scoreLabel(score int) (string, string) {
	switch {
	case score >= 80:
		return "Excellent Conditions", "Get out there, it's a great day on the hill"
	case score >= 60:
		return "Good Conditions", "Worth the trip up the mountain"
	case score >= 0:
		return "Bad Conditions", "Expect marginal skiing"
	default:
		// Unreachable: scores are clamped to [0,100] before labelling.
		return "Poor Conditions", "Consider staying home"
	}
}

func snowTag(freshIn, avg float64) SnowTag {
	switch {
	case freshIn >= 8:
		return TagPowder
	case freshIn >= 4:
		return TagPackedPowder
	case freshIn >= 1:
		return TagFreshOnGroomers
	case avg > rideableMaxTempC:
		return TagSpringSlushy
	default:
		return TagGroomers
	}
}
