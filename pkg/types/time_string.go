package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeString тип для хранения времени в формате "HH:MM"
// Используется для времени начала/окончания бронирования и границ рабочего дня.
// Граничное значение "24:00" допустимо только как конец интервала.
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String возвращает строковое представление времени
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero возвращает true, если время не задано
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет, что время соответствует формату "HH:MM"
func (ts TimeString) Validate() error {
	_, err := ts.Minutes()
	return err
}

// Minutes возвращает количество минут с начала дня
func (ts TimeString) Minutes() (int, error) {
	parts := strings.Split(string(ts), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time string format: %q, expected HH:MM", string(ts))
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time string format: %q, expected HH:MM", string(ts))
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time string format: %q, expected HH:MM", string(ts))
	}

	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time out of range: %q", string(ts))
	}

	// "24:00" допустимо как граница интервала, "24:01" и далее - нет
	if hours == 24 && minutes != 0 {
		return 0, fmt.Errorf("time out of range: %q", string(ts))
	}

	return hours*60 + minutes, nil
}

// AddMinutes возвращает новое время, смещенное на minutes минут вперед
// Возвращает ошибку, если результат выходит за пределы суток
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := ts.Minutes()
	if err != nil {
		return "", err
	}

	total += minutes
	if total < 0 || total > 24*60 {
		return "", fmt.Errorf("time out of day bounds: %s + %d minutes", string(ts), minutes)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// MinutesUntil возвращает количество минут между ts и other (other - ts)
func (ts TimeString) MinutesUntil(other TimeString) (int, error) {
	from, err := ts.Minutes()
	if err != nil {
		return 0, err
	}

	to, err := other.Minutes()
	if err != nil {
		return 0, err
	}

	return to - from, nil
}

// IsBefore возвращает true, если ts строго раньше other
// Некорректные значения считаются несравнимыми (false)
func (ts TimeString) IsBefore(other TimeString) bool {
	a, err := ts.Minutes()
	if err != nil {
		return false
	}
	b, err := other.Minutes()
	if err != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	a, err := ts.Minutes()
	if err != nil {
		return false
	}
	b, err := other.Minutes()
	if err != nil {
		return false
	}
	return a > b
}

// Value реализует driver.Valuer для записи в PostgreSQL (колонка TIME)
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return string(ts), nil
}

// Scan реализует sql.Scanner для чтения из PostgreSQL
// lib/pq возвращает TIME как []byte, для совместимости поддерживаем и time.Time
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	case []byte:
		return ts.scanString(string(v))
	case string:
		return ts.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}
}

func (ts *TimeString) scanString(s string) error {
	// PostgreSQL TIME приходит как "10:00:00", отбрасываем секунды
	if len(s) > 5 {
		s = s[:5]
	}

	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}

	*ts = parsed
	return nil
}
