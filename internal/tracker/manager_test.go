package tracker

import (
	"fmt"
	"sync"
	"testing"

	"focus-tracker/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(newMemGateway(), fixedClock())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestManager_SettingsNormalizedOnLoad(t *testing.T) {
	m := newTestManager(t)

	s := m.Settings()
	if s.PomodoroWorkMinutes != 25 || s.PomodoroBreakMinutes != 5 {
		t.Fatalf("настройки не нормализованы: %+v", s)
	}
}

func TestManager_UpdatePomodoroSettingsClamps(t *testing.T) {
	m := newTestManager(t)

	s := m.UpdatePomodoroSettings(0, -3)
	if s.PomodoroWorkMinutes != 25 || s.PomodoroBreakMinutes != 5 {
		t.Fatalf("ожидались значения по умолчанию, получено %+v", s)
	}
}

func TestManager_ToggleTheme(t *testing.T) {
	m := newTestManager(t)

	if got := m.ToggleTheme(); got != models.Light {
		t.Fatalf("после первого переключения ожидалась light, получено %s", got)
	}
	if got := m.ToggleTheme(); got != models.Dark {
		t.Fatalf("после второго переключения ожидалась dark, получено %s", got)
	}
}

func TestBuildDashboard_Counts(t *testing.T) {
	m := newTestManager(t)
	today := fixedClock().Today()

	m.Tasks.Add("Просрочено", models.High, "2026-08-20", "")
	m.Tasks.Add("Сегодня", models.Medium, today, "")
	done := m.Tasks.Add("Сделано", models.Low, "", "")
	m.Tasks.Toggle(done.ID)
	habit := m.Habits.Add("Зарядка", models.Daily)
	m.Habits.ToggleDate(habit.ID, "2026-08-31")
	m.Habits.ToggleDate(habit.ID, today)
	m.Notes.Add("Заметка", models.Yellow)

	d := m.BuildDashboard()
	if d.TotalTasks != 3 || d.CompletedTasks != 1 {
		t.Fatalf("tasks: total=%d completed=%d", d.TotalTasks, d.CompletedTasks)
	}
	if d.OverdueTasks != 1 {
		t.Fatalf("overdue: получено %d", d.OverdueTasks)
	}
	if d.BestStreak != 2 {
		t.Fatalf("streak: получено %d", d.BestStreak)
	}
	if d.NoteCount != 1 {
		t.Fatalf("notes: получено %d", d.NoteCount)
	}
}

// Cron-задачи строят дашборд из своей горутины, пока цикл бота мутирует
// коллекции. Тест гоняет оба пути одновременно; под -race он падает,
// если доступ к store не сериализован
func TestManager_ConcurrentDashboardAndMutations(t *testing.T) {
	m := newTestManager(t)
	today := fixedClock().Today()
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.Tasks.Add(fmt.Sprintf("Задача %d", i), models.Medium, "2026-08-20", "")
			habit := m.Habits.Add(fmt.Sprintf("Привычка %d", i), models.Daily)
			m.Habits.ToggleDate(habit.ID, today)
			m.Notes.Add(fmt.Sprintf("Заметка %d", i), models.Yellow)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.BuildDashboard()
			m.Tasks.Query(Criteria{Status: StatusOverdue, Today: today})
			m.Habits.BestStreak()
		}
	}()

	wg.Wait()

	d := m.BuildDashboard()
	if d.TotalTasks != iterations {
		t.Fatalf("после гонки ожидалось %d задач, получено %d", iterations, d.TotalTasks)
	}
	if d.NoteCount != iterations {
		t.Fatalf("после гонки ожидалось %d заметок, получено %d", iterations, d.NoteCount)
	}
	if len(m.Habits.All()) != iterations {
		t.Fatalf("после гонки ожидалось %d привычек, получено %d", iterations, len(m.Habits.All()))
	}
}
