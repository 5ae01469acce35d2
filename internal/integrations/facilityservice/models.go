package facilityservice

import "time"

// FacilityStatus статус объекта в каталоге
type FacilityStatus string

const (
	FacilityActive      FacilityStatus = "active"
	FacilityInactive    FacilityStatus = "inactive"
	FacilityMaintenance FacilityStatus = "maintenance"
	FacilityClosed      FacilityStatus = "closed"
)

// Facility модель объекта из FacilityService
type Facility struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Status       FacilityStatus `json:"status"`
	Capacity     int            `json:"capacity"`
	PricePerHour float64        `json:"price_per_hour"`
	WorkingHours WeekSchedule   `json:"working_hours"`
	ManagerIDs   []int64        `json:"manager_ids"`
	Holidays     []string       `json:"holidays"` // Даты в формате YYYY-MM-DD
}

// WeekSchedule расписание работы объекта по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание работы на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "06:00"
	CloseTime *string `json:"close_time,omitempty"` // "22:00"
}

// IsActive возвращает true, если объект принимает новые бронирования
func (f *Facility) IsActive() bool {
	return f.Status == FacilityActive
}

// IsManager проверяет, что пользователь входит в список менеджеров объекта
func (f *Facility) IsManager(userID int64) bool {
	for _, id := range f.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsHoliday проверяет, что дата является праздничным (нерабочим) днем объекта
func (f *Facility) IsHoliday(date time.Time) bool {
	formatted := date.Format("2006-01-02")
	for _, h := range f.Holidays {
		if h == formatted {
			return true
		}
	}
	return false
}

// ScheduleFor возвращает расписание работы объекта на день недели даты
func (f *Facility) ScheduleFor(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return f.WorkingHours.Monday
	case time.Tuesday:
		return f.WorkingHours.Tuesday
	case time.Wednesday:
		return f.WorkingHours.Wednesday
	case time.Thursday:
		return f.WorkingHours.Thursday
	case time.Friday:
		return f.WorkingHours.Friday
	case time.Saturday:
		return f.WorkingHours.Saturday
	case time.Sunday:
		return f.WorkingHours.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// ErrorResponse модель ошибки от FacilityService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
