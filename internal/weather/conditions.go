package weather

// DerivedConditions is the dashboard summary for one reference day.
type DerivedConditions struct {
	Date           string `json:"date"`
	SkiScore       int    `json:"skiScore"`
	ScoreLabel     string `json:"scoreLabel"`
	ScoreSubLabel  string `json:"scoreSubLabel"`
	ConditionLabel string `json:"conditionLabel"`
	ConditionEmoji string `json:"conditionEmoji"`
	SnowSummary
	Past72Display string `json:"past72Display"`
}

// DeriveConditions scores the reference day and summarizes snowfall around
// it. When the reference day is missing the first available day stands in.
// An empty set scores a zero record and yields an empty Date; callers that
// can tell "no data" apart, like Service.Dashboard, return ErrNoData first.
func DeriveConditions(days []DailyWeatherRecord, reference string) DerivedConditions {
	w := windowsAround(days, reference)
	day, _ := referenceDay(days, reference)
	score := ComputeSkiScore(day, w.next72)
	summary := w.inches()

	return DerivedConditions{
		Date:           day.Date,
		SkiScore:       score.Score,
		ScoreLabel:     score.Label,
		ScoreSubLabel:  score.SubLabel,
		ConditionLabel: string(score.Tag),
		ConditionEmoji: score.Tag.Emoji(),
		SnowSummary:    summary,
		Past72Display:  summary.Past72Display(),
	}
}
