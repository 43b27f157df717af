package tracker

import (
	"focus-tracker/internal/clock"
	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
)

// Manager владеет всеми коллекциями трекера. Пишет в них цикл
// событий бота, а cron-задачи читают из своих горутин, поэтому каждый
// store защищён собственным мьютексом, а сквозные агрегаты дашборда
// каждый раз пересчитываются из текущего состояния в памяти
type Manager struct {
	Tasks    *TaskStore
	Habits   *HabitStore
	Notes    *NoteStore
	Pomodoro *PomodoroEngine

	gateway  DocumentGateway
	clock    clock.Clock
	settings models.Settings
}

func NewManager(gateway DocumentGateway, clk clock.Clock) (*Manager, error) {
	var settings models.Settings
	if err := gateway.Read(storage.DocSettings, &settings); err != nil {
		return nil, err
	}
	settings = settings.Normalize()

	tasks, err := NewTaskStore(gateway, clk)
	if err != nil {
		return nil, err
	}
	habits, err := NewHabitStore(gateway, clk)
	if err != nil {
		return nil, err
	}
	notes, err := NewNoteStore(gateway, clk)
	if err != nil {
		return nil, err
	}
	pomodoro, err := NewPomodoroEngine(gateway, clk, nil, settings)
	if err != nil {
		return nil, err
	}

	return &Manager{
		Tasks:    tasks,
		Habits:   habits,
		Notes:    notes,
		Pomodoro: pomodoro,
		gateway:  gateway,
		clock:    clk,
		settings: settings,
	}, nil
}

// SetNotifier подключает отправителя уведомлений после создания бота
func (m *Manager) SetNotifier(n Notifier) {
	m.Pomodoro.SetNotifier(n)
}

func (m *Manager) Settings() models.Settings {
	return m.settings
}

// UpdatePomodoroSettings сохраняет длительности и передаёт их движку
func (m *Manager) UpdatePomodoroSettings(workMinutes, breakMinutes int) models.Settings {
	m.settings.PomodoroWorkMinutes = workMinutes
	m.settings.PomodoroBreakMinutes = breakMinutes
	m.settings = m.settings.Normalize()
	m.gateway.Write(storage.DocSettings, m.settings)
	m.Pomodoro.UpdateSettings(m.settings.PomodoroWorkMinutes, m.settings.PomodoroBreakMinutes)
	return m.settings
}

// ToggleTheme переключает тему dark/light и сохраняет настройки
func (m *Manager) ToggleTheme() models.Theme {
	if m.settings.Theme == models.Dark {
		m.settings.Theme = models.Light
	} else {
		m.settings.Theme = models.Dark
	}
	m.gateway.Write(storage.DocSettings, m.settings)
	return m.settings.Theme
}

// Dashboard сводные показатели дня
type Dashboard struct {
	Date           string
	TotalTasks     int
	CompletedTasks int
	OverdueTasks   int
	TodaySessions  int
	BestStreak     int
	NoteCount      int
	Percentage     float64
	Upcoming       []models.Task
}

// BuildDashboard пересчитывает сводку из текущего состояния.
// Счётчик просрочки использует тот же предикат, что и фильтр overdue
func (m *Manager) BuildDashboard() Dashboard {
	today := m.clock.Today()
	tasks := m.Tasks.All()

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	percentage := 0.0
	if len(tasks) > 0 {
		percentage = float64(completed) / float64(len(tasks)) * 100
	}

	return Dashboard{
		Date:           today,
		TotalTasks:     len(tasks),
		CompletedTasks: completed,
		OverdueTasks:   CountOverdue(tasks, today),
		TodaySessions:  m.Pomodoro.TodaySessions(today),
		BestStreak:     m.Habits.BestStreak(),
		NoteCount:      m.Notes.Count(),
		Percentage:     percentage,
		Upcoming:       UpcomingTasks(tasks, 5),
	}
}
