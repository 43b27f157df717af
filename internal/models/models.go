package models

import "time"

type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

var PriorityNames = map[Priority]string{
	Low:    "🟢 Низкий",
	Medium: "🟡 Средний",
	High:   "🔴 Высокий",
}

var PriorityEmojis = map[Priority]string{
	Low:    "🟢",
	Medium: "🟡",
	High:   "🔴",
}

// IsValid проверяет, что приоритет один из трёх допустимых
func (p Priority) IsValid() bool {
	return p == Low || p == Medium || p == High
}

type NoteColor string

const (
	Yellow NoteColor = "yellow"
	Green  NoteColor = "green"
	Blue   NoteColor = "blue"
	Pink   NoteColor = "pink"
)

var NoteColorEmojis = map[NoteColor]string{
	Yellow: "🟨",
	Green:  "🟩",
	Blue:   "🟦",
	Pink:   "🟪",
}

type Frequency string

const (
	Daily  Frequency = "daily"
	Weekly Frequency = "weekly"
)

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// DefaultCategory категория задачи, если не указана явно
const DefaultCategory = "General"

type Task struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	DueDate   string    `json:"dueDate,omitempty"` // YYYY-MM-DD, пустая строка = без срока
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Color     NoteColor `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type Habit struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Frequency      Frequency `json:"frequency"`
	CompletedDates []string  `json:"completedDates"` // YYYY-MM-DD, без дубликатов
	Streak         int       `json:"streak"`         // производное поле, пересчитывается при каждой мутации
	CreatedAt      string    `json:"createdAt"`
}

type PomodoroSession struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM:SS
}

type PomodoroState struct {
	Sessions     []PomodoroSession `json:"sessions"`
	TotalMinutes int               `json:"totalMinutes"`
}

type Settings struct {
	Theme                Theme `json:"theme"`
	PomodoroWorkMinutes  int   `json:"pomodoroWorkMinutes"`
	PomodoroBreakMinutes int   `json:"pomodoroBreakMinutes"`
}

const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

func DefaultSettings() Settings {
	return Settings{
		Theme:                Dark,
		PomodoroWorkMinutes:  DefaultWorkMinutes,
		PomodoroBreakMinutes: DefaultBreakMinutes,
	}
}

// Normalize приводит настройки к допустимым значениям: неположительные
// длительности заменяются значениями по умолчанию
func (s Settings) Normalize() Settings {
	if s.PomodoroWorkMinutes <= 0 {
		s.PomodoroWorkMinutes = DefaultWorkMinutes
	}
	if s.PomodoroBreakMinutes <= 0 {
		s.PomodoroBreakMinutes = DefaultBreakMinutes
	}
	if s.Theme != Light {
		s.Theme = Dark
	}
	return s
}
