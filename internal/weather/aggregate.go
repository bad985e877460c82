package weather

import "sort"

const windowDays = 3

// SnowSummary holds snowfall windows around a reference day, in inches.
type SnowSummary struct {
	Fresh24     float64 `json:"fresh24"`
	Past72      float64 `json:"past72"`
	Next72      float64 `json:"next72"`
	Total7d     float64 `json:"total7d"`
	HasPastData bool    `json:"hasPastData"`
}

// Past72Display renders Past72, or "N/A" when no earlier day was available.
func (s SnowSummary) Past72Display() string {
	if !s.HasPastData {
		return "N/A"
	}
	return FormatInches(s.Past72)
}

// snowWindows is the centimeter form of SnowSummary.
type snowWindows struct {
	fresh24, past72, next72, total float64
	hasPast                        bool
}

func (w snowWindows) inches() SnowSummary {
	return SnowSummary{
		Fresh24:     CmToIn(w.fresh24),
		Past72:      CmToIn(w.past72),
		Next72:      CmToIn(w.next72),
		Total7d:     CmToIn(w.total),
		HasPastData: w.hasPast,
	}
}

// AggregateSnow sums snowfall around reference (YYYY-MM-DD). Total7d covers
// every day in the input, whatever its length.
func AggregateSnow(days []DailyWeatherRecord, reference string) SnowSummary {
	return windowsAround(days, reference).inches()
}

func windowsAround(days []DailyWeatherRecord, reference string) snowWindows {
	var (
		w      snowWindows
		past   []DailyWeatherRecord
		future []DailyWeatherRecord
	)

	for _, d := range days {
		w.total += nonNegative(d.SnowfallSum)
		switch {
		case d.Date < reference:
			past = append(past, d)
		case d.Date > reference:
			future = append(future, d)
		}
	}

	sort.SliceStable(past, func(i, j int) bool { return past[i].Date > past[j].Date })
	sort.SliceStable(future, func(i, j int) bool { return future[i].Date < future[j].Date })

	if day, ok := referenceDay(days, reference); ok {
		w.fresh24 = nonNegative(day.SnowfallSum)
	}
	w.past72 = sumSnow(past, windowDays)
	w.next72 = sumSnow(future, windowDays)
	w.hasPast = len(past) > 0

	return w
}

// referenceDay finds the reference date's record, falling back to the
// first day of the set.
func referenceDay(days []DailyWeatherRecord, reference string) (DailyWeatherRecord, bool) {
	for _, d := range days {
		if d.Date == reference {
			return d, true
		}
	}
	if len(days) == 0 {
		return DailyWeatherRecord{}, false
	}
	return days[0], true
}

func sumSnow(days []DailyWeatherRecord, limit int) float64 {
	var total float64
	for i := 0; i < len(days) && i < limit; i++ {
		total += nonNegative(days[i].SnowfallSum)
	}
	return total
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
