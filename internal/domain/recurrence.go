package domain

import (
	"fmt"
	"time"
)

// RecurrencePattern represents the repetition pattern of a recurring booking
type RecurrencePattern string

const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// IsValid проверяет, что паттерн повторения поддерживается
func (p RecurrencePattern) IsValid() bool {
	switch p {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// ExpandOccurrences разворачивает паттерн повторения в список дат экземпляров
// после базовой даты (сама базовая дата в список не входит - это исходное
// бронирование) и не позже until включительно.
//
// Каждый экземпляр затем независимо проверяется на конфликты: занятая дата
// в середине серии не отменяет всю серию, вызывающая сторона собирает
// partial-success результат.
//
// Для monthly дата с числом, отсутствующим в следующем месяце (например, 31-е),
// пропускается, а не сдвигается на соседний день.
func ExpandOccurrences(base time.Time, pattern RecurrencePattern, until time.Time) ([]time.Time, error) {
	if !pattern.IsValid() {
		return nil, fmt.Errorf("unsupported recurrence pattern: %q", pattern)
	}

	baseDay := truncateToDay(base)
	untilDay := truncateToDay(until)

	if untilDay.Before(baseDay) {
		return nil, fmt.Errorf("recurrence end %s is before base date %s",
			untilDay.Format(DateFormat), baseDay.Format(DateFormat))
	}

	occurrences := make([]time.Time, 0)

	switch pattern {
	case RecurrenceDaily:
		for d := baseDay.AddDate(0, 0, 1); !d.After(untilDay); d = d.AddDate(0, 0, 1) {
			occurrences = append(occurrences, d)
			if len(occurrences) >= MaxRecurrenceInstances {
				break
			}
		}

	case RecurrenceWeekly:
		for d := baseDay.AddDate(0, 0, 7); !d.After(untilDay); d = d.AddDate(0, 0, 7) {
			occurrences = append(occurrences, d)
			if len(occurrences) >= MaxRecurrenceInstances {
				break
			}
		}

	case RecurrenceMonthly:
		for i := 1; i <= MaxRecurrenceInstances*2; i++ {
			d := addMonthsClamped(baseDay, i)
			if d == nil {
				continue
			}
			if d.After(untilDay) {
				break
			}
			occurrences = append(occurrences, *d)
			if len(occurrences) >= MaxRecurrenceInstances {
				break
			}
		}
	}

	return occurrences, nil
}

// addMonthsClamped возвращает дату через months месяцев с тем же числом
// или nil, если такого числа в целевом месяце нет
func addMonthsClamped(base time.Time, months int) *time.Time {
	year, month, day := base.Date()

	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, base.Location())
	if daysInMonth(target) < day {
		return nil
	}

	result := time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, base.Location())
	return &result
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
