package series

import "time"

const secondsPerDay = 86400

// labelFormat picks the date layout for a series from its total span:
// up to a week of data keeps the clock time, anything longer drops it.
func labelFormat(first, last uint64) string {
	spanDays := (last - first) / secondsPerDay
	if spanDays <= 7 {
		return "2 Jan 15:04"
	}
	return "2 Jan"
}

func formatLabel(timestamp uint64, layout string) string {
	return time.Unix(int64(timestamp), 0).UTC().Format(layout)
}
