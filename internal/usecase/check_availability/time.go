package check_availability

import (
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// rangeOnDate строит моменты начала и конца интервала на заданной дате
func rangeOnDate(date time.Time, start, end types.TimeString) (time.Time, time.Time, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	startMin, err := start.Minutes()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := end.Minutes()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return day.Add(time.Duration(startMin) * time.Minute),
		day.Add(time.Duration(endMin) * time.Minute), nil
}

// weekBounds возвращает понедельник и воскресенье недели, содержащей дату
func weekBounds(date time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}

	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}
