package solar

const hoursPerDay = 24

// AggregateForecastDays reduces hourly shortwave radiation into one ForecastDay per
// calendar day. Null samples are skipped; a day with no non-null samples is omitted.
// dates holds the daily date labels; when shorter than days the date is taken from
// the first hourly timestamp of that day. sunshine is in seconds.
func AggregateForecastDays(days int, times []string, shortwave []*float64, dates []string, sunshine []*float64) []ForecastDay {
	out := make([]ForecastDay, 0, days)

	for d := 0; d < days; d++ {
		start := d * hoursPerDay
		end := start + hoursPerDay
		if start >= len(shortwave) {
			break
		}
		if end > len(shortwave) {
			end = len(shortwave)
		}

		var (
			peak  float64
			sum   float64
			count int
		)
		for _, v := range shortwave[start:end] {
			if v == nil {
				continue
			}
			if count == 0 || *v > peak {
				peak = *v
			}
			sum += *v
			count++
		}
		if count == 0 {
			continue
		}

		var sunshineSec float64
		if d < len(sunshine) && sunshine[d] != nil {
			sunshineSec = *sunshine[d]
		}

		out = append(out, ForecastDay{
			Date:                  dayLabel(d, times, dates),
			PeakRadiationWm2:      peak,
			AvgRadiationWm2:       roundInt(sum / float64(count)),
			SunshineDurationHours: roundPlaces(sunshineSec/3600, 1),
		})
	}

	return out
}

func dayLabel(d int, times, dates []string) string {
	if d < len(dates) {
		return dates[d]
	}
	if i := d * hoursPerDay; i < len(times) {
		ts := times[i]
		if len(ts) >= len("2006-01-02") {
			return ts[:len("2006-01-02")]
		}
		return ts
	}
	return ""
}
