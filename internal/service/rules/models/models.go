package models

import "github.com/m04kA/SMC-FacilityBookingService/internal/domain"

// RulesScope источник действующих правил
type RulesScope string

const (
	ScopeFacility RulesScope = "facility" // Правила заданы для объекта
	ScopeGlobal   RulesScope = "global"   // Действует глобальная строка
	ScopeDefault  RulesScope = "default"  // Правил в БД нет, применяются встроенные значения
)

// EffectiveRules действующие правила объекта с указанием их источника
type EffectiveRules struct {
	Rules *domain.BookingRules
	Scope RulesScope
}

// UpdateRequest новые значения правил объекта
type UpdateRequest struct {
	UserID     int64
	FacilityID int64

	SlotGranularityMinutes  int
	MinNoticeMinutes        int
	MaxAdvanceDays          int
	MinDurationMinutes      int
	MaxDurationMinutes      int
	MaxBookingsPerDay       int
	MaxBookingsPerWeek      int
	CancellationCutoffHours int
}
