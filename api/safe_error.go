package api

import (
	"time"

	"serenicash/config"
)

// SafeErrorMessage hides internal error details from clients outside debug
// mode.
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// parseDateRange parses an inclusive "2006-01-02" date range; the end bound
// is extended to the last second of its day.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	startTime, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endTime, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endTime = endTime.Add(24*time.Hour - time.Second)
	return startTime, endTime, nil
}
