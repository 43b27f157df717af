package clock

import "time"

// Формат календарной даты во всех документах
const DateLayout = "2006-01-02"

// Clock отдаёт текущее время; подменяется фиксированными часами в тестах,
// чтобы стрики и просрочка считались детерминированно
type Clock interface {
	Now() time.Time
	Today() string
}

// System системные часы; календарные дни считаются по UTC,
// чтобы переход на летнее время не ломал разницу дат
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

func (System) Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// Fixed часы, замороженные на заданном моменте
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}

func (f Fixed) Today() string {
	return f.T.Format(DateLayout)
}

// DaysBetween возвращает разницу между двумя датами в календарных днях
// (от полуночи до полуночи, a - b). Считается на датах, а не на
// таймстампах, как требует логика стриков
func DaysBetween(a, b string) (int, error) {
	ta, err := time.Parse(DateLayout, a)
	if err != nil {
		return 0, err
	}
	tb, err := time.Parse(DateLayout, b)
	if err != nil {
		return 0, err
	}
	return int(ta.Sub(tb).Hours() / 24), nil
}

// AddDays сдвигает дату на заданное число календарных дней
func AddDays(date string, days int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}

// WeekdayLabel короткая подпись дня недели для 7-дневной сетки привычек
func WeekdayLabel(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "??"
	}
	labels := [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	return labels[int(t.Weekday())]
}
