package domain

// Таблица переходов жизненного цикла бронирования.
// Переходы, которых нет в таблице, запрещены: попытка выполнить их
// должна завершаться ошибкой, а не тихо игнорироваться.
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled | no_show
//	completed | cancelled | no_show - терминальные состояния
//
// Дополнительные guards (время окончания для complete, время начала для
// no_show, непустая причина для cancel) проверяются на уровне сервисов.
var lifecycleTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransition проверяет, разрешен ли переход из состояния from в to
func CanTransition(from, to BookingStatus) bool {
	allowed, ok := lifecycleTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTransitions возвращает список состояний, достижимых из from
func AllowedTransitions(from BookingStatus) []BookingStatus {
	return lifecycleTransitions[from]
}

// TransitionSources возвращает состояния, из которых достижимо to.
// Используется хранилищем как предикат статуса в UPDATE, чтобы два
// конкурентных перехода не прошли проверку по одному устаревшему чтению
func TransitionSources(to BookingStatus) []BookingStatus {
	var sources []BookingStatus
	for _, from := range ValidStatuses {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// IsValidStatus проверяет, что строка является допустимым статусом
func IsValidStatus(s string) bool {
	for _, status := range ValidStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}
