package tracker

import (
	"sort"
	"strings"
	"sync"

	"focus-tracker/internal/clock"
	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
)

// CalcStreak длина завершающей серии подряд идущих календарных дней,
// оканчивающейся на самой свежей дате отметки. Серия не обязана
// дотягиваться до сегодня: привычка, отмеченная вчера и позавчера,
// даёт стрик 2 и без сегодняшней отметки
func CalcStreak(dates []string) int {
	if len(dates) == 0 {
		return 0
	}

	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	streak := 1
	for i := 1; i < len(sorted); i++ {
		diff, err := clock.DaysBetween(sorted[i-1], sorted[i])
		if err != nil || diff != 1 {
			break
		}
		streak++
	}
	return streak
}

type HabitStore struct {
	// mu защищает коллекцию: cron-задачи читают её из другой горутины
	mu      sync.Mutex
	gateway DocumentGateway
	clock   clock.Clock
	habits  []models.Habit
	ids     idCounter
}

func NewHabitStore(gateway DocumentGateway, clk clock.Clock) (*HabitStore, error) {
	s := &HabitStore{gateway: gateway, clock: clk}
	if err := s.gateway.Read(storage.DocHabits, &s.habits); err != nil {
		return nil, err
	}
	for i := range s.habits {
		s.ids.observe(s.habits[i].ID)
		// стрик — производное поле: после загрузки пересчитываем,
		// сохранённому значению не доверяем
		s.habits[i].Streak = CalcStreak(s.habits[i].CompletedDates)
	}
	return s, nil
}

func (s *HabitStore) All() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

func (s *HabitStore) Get(id int) *models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.habits {
		if s.habits[i].ID == id {
			h := s.habits[i]
			return &h
		}
	}
	return nil
}

// Add создаёт привычку. Пустое имя молча отклоняется
func (s *HabitStore) Add(name string, frequency models.Frequency) *models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if frequency != models.Weekly {
		frequency = models.Daily
	}

	habit := models.Habit{
		ID:             s.ids.next(),
		Name:           name,
		Frequency:      frequency,
		CompletedDates: []string{},
		Streak:         0,
		CreatedAt:      s.clock.Today(),
	}
	s.habits = append(s.habits, habit)
	s.persist()
	return &habit
}

// ToggleDate снимает отметку, если дата уже есть, иначе добавляет.
// После каждой мутации стрик пересчитывается и перезаписывается.
// Двойное переключение возвращает и множество дат, и стрик к исходным.
// Отсутствующий id — no-op
func (s *HabitStore) ToggleDate(id int, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.habits {
		if s.habits[i].ID != id {
			continue
		}
		dates := s.habits[i].CompletedDates
		removed := false
		for j, d := range dates {
			if d == date {
				dates = append(dates[:j], dates[j+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			dates = append(dates, date)
		}
		s.habits[i].CompletedDates = dates
		s.habits[i].Streak = CalcStreak(dates)
		s.persist()
		return
	}
}

// Delete удаляет привычку; отсутствующий id — no-op
func (s *HabitStore) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.habits {
		if s.habits[i].ID == id {
			s.habits = append(s.habits[:i], s.habits[i+1:]...)
			s.persist()
			return
		}
	}
}

// BestStreak максимальный стрик по всем привычкам для дашборда
func (s *HabitStore) BestStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := 0
	for _, h := range s.habits {
		if h.Streak > best {
			best = h.Streak
		}
	}
	return best
}

// DayCell одна клетка недельной сетки привычки
type DayCell struct {
	Date    string
	Label   string
	Checked bool
	IsToday bool
}

// WeekRow фиксированное окно из 7 последних дней (сегодня и шесть
// предыдущих) для отображения; от расчёта стрика не зависит
func WeekRow(h models.Habit, today string) []DayCell {
	done := make(map[string]bool, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		done[d] = true
	}

	row := make([]DayCell, 0, 7)
	for i := 6; i >= 0; i-- {
		date := clock.AddDays(today, -i)
		row = append(row, DayCell{
			Date:    date,
			Label:   clock.WeekdayLabel(date),
			Checked: done[date],
			IsToday: i == 0,
		})
	}
	return row
}

func (s *HabitStore) persist() {
	s.gateway.Write(storage.DocHabits, s.habits)
}
