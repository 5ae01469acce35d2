package domain

import "fmt"

// ConflictType классификация причин, по которым интервал недоступен
type ConflictType string

const (
	ConflictBookingOverlap  ConflictType = "booking_overlap"
	ConflictFacilityClosed  ConflictType = "facility_closed"
	ConflictOutsideHours    ConflictType = "outside_operating_hours"
	ConflictRuleViolation   ConflictType = "rule_violation"
)

// Conflict описывает одну причину недоступности запрошенного интервала
// ConflictingBookingID заполнен только для пересечений с бронированиями
type Conflict struct {
	ConflictingBookingID *int64
	Type                 ConflictType
	Message              string
}

// NewOverlapConflict создает конфликт пересечения с существующим бронированием
func NewOverlapConflict(b *Booking) Conflict {
	id := b.ID
	return Conflict{
		ConflictingBookingID: &id,
		Type:                 ConflictBookingOverlap,
		Message: fmt.Sprintf("пересекается с бронированием #%d (%s-%s)",
			b.ID, b.StartTime, b.EndTime),
	}
}

// NewRuleConflict создает конфликт нарушения правила бронирования
// Сообщение обязано называть конкретное сработавшее правило
func NewRuleConflict(message string) Conflict {
	return Conflict{
		Type:    ConflictRuleViolation,
		Message: message,
	}
}
