package tracker

import (
	"errors"
	"testing"
	"time"

	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
)

func newTestEngine(t *testing.T, gateway DocumentGateway, notifier Notifier, work, brk int) *PomodoroEngine {
	t.Helper()
	engine, err := NewPomodoroEngine(gateway, fixedClock(), notifier, models.Settings{
		PomodoroWorkMinutes:  work,
		PomodoroBreakMinutes: brk,
	})
	if err != nil {
		t.Fatalf("NewPomodoroEngine: %v", err)
	}
	return engine
}

func tickN(e *PomodoroEngine, n int) {
	for i := 0; i < n; i++ {
		e.Tick()
	}
}

func awaitNotification(t *testing.T, n *recordNotifier) string {
	t.Helper()
	select {
	case title := <-n.titles:
		return title
	case <-time.After(2 * time.Second):
		t.Fatal("уведомление не пришло")
		return ""
	}
}

func TestPomodoro_InitialState(t *testing.T) {
	engine := newTestEngine(t, newMemGateway(), nil, 25, 5)

	snap := engine.Snapshot()
	if snap.Phase != PhaseFocus || snap.Running || snap.RemainingSeconds != 25*60 {
		t.Errorf("начальное состояние = %+v, want Focus/стоит/1500", snap)
	}
}

func TestPomodoro_FocusCompletionRecordsSession(t *testing.T) {
	gateway := newMemGateway()
	notifier := newRecordNotifier()
	engine := newTestEngine(t, gateway, notifier, 25, 5)

	engine.Start()
	tickN(engine, 1500)

	snap := engine.Snapshot()
	if snap.Phase != PhaseBreak {
		t.Errorf("Phase = %s, want break", snap.Phase)
	}
	if snap.Running {
		t.Errorf("после завершения интервала таймер должен стоять")
	}
	if snap.RemainingSeconds != 5*60 {
		t.Errorf("RemainingSeconds = %d, want 300", snap.RemainingSeconds)
	}
	if snap.TotalMinutes != 25 {
		t.Errorf("TotalMinutes = %d, want 25", snap.TotalMinutes)
	}
	if len(snap.Sessions) != 1 {
		t.Fatalf("Sessions = %d, want 1", len(snap.Sessions))
	}
	if snap.Sessions[0].Date != "2026-09-01" {
		t.Errorf("дата сессии = %s, want 2026-09-01", snap.Sessions[0].Date)
	}

	if gateway.writes[storage.DocPomodoro] != 1 {
		t.Errorf("состояние помодоро должно быть записано ровно один раз")
	}
	if title := awaitNotification(t, notifier); title != "🍅 Фокус завершён!" {
		t.Errorf("уведомление = %q", title)
	}
}

func TestPomodoro_BreakCompletionReturnsToFocus(t *testing.T) {
	notifier := newRecordNotifier()
	engine := newTestEngine(t, newMemGateway(), notifier, 1, 1)

	engine.Start()
	tickN(engine, 60) // фокус завершён
	awaitNotification(t, notifier)

	engine.Start()
	tickN(engine, 60) // перерыв завершён

	snap := engine.Snapshot()
	if snap.Phase != PhaseFocus || snap.Running {
		t.Errorf("после перерыва: %+v, want Focus/стоит", snap)
	}
	if snap.RemainingSeconds != 60 {
		t.Errorf("RemainingSeconds = %d, want 60", snap.RemainingSeconds)
	}
	// перерыв не записывает сессий и не добавляет минут
	if snap.TotalMinutes != 1 || len(snap.Sessions) != 1 {
		t.Errorf("перерыв изменил статистику: %+v", snap)
	}
	if title := awaitNotification(t, notifier); title != "🎉 Перерыв окончен!" {
		t.Errorf("уведомление = %q", title)
	}
}

func TestPomodoro_TickIgnoredWhilePaused(t *testing.T) {
	engine := newTestEngine(t, newMemGateway(), nil, 25, 5)

	engine.Start()
	tickN(engine, 10)
	engine.Pause()
	tickN(engine, 100)

	snap := engine.Snapshot()
	if snap.RemainingSeconds != 1500-10 {
		t.Errorf("RemainingSeconds = %d, want 1490: пауза замораживает остаток", snap.RemainingSeconds)
	}
	if snap.Running {
		t.Errorf("Running = true, want false")
	}
}

func TestPomodoro_StartPauseIdempotent(t *testing.T) {
	engine := newTestEngine(t, newMemGateway(), nil, 25, 5)

	engine.Pause() // пауза на стоящем таймере — no-op
	engine.Start()
	engine.Start() // повторный старт — no-op
	tickN(engine, 1)

	if snap := engine.Snapshot(); snap.RemainingSeconds != 1499 {
		t.Errorf("RemainingSeconds = %d, want 1499", snap.RemainingSeconds)
	}
}

func TestPomodoro_ResetFromAnyState(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(e *PomodoroEngine)
	}{
		{"исходное", func(e *PomodoroEngine) {}},
		{"идёт фокус", func(e *PomodoroEngine) { e.Start(); tickN(e, 42) }},
		{"пауза в фокусе", func(e *PomodoroEngine) { e.Start(); tickN(e, 42); e.Pause() }},
		{"перерыв", func(e *PomodoroEngine) { e.Start(); tickN(e, 1500) }},
		{"идёт перерыв", func(e *PomodoroEngine) { e.Start(); tickN(e, 1500); e.Start(); tickN(e, 5) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestEngine(t, newMemGateway(), nil, 25, 5)
			tc.prepare(engine)

			engine.Reset()

			snap := engine.Snapshot()
			if snap.Phase != PhaseFocus || snap.Running || snap.RemainingSeconds != 1500 {
				t.Errorf("после Reset: %+v, want Focus/стоит/1500", snap)
			}
		})
	}
}

func TestPomodoro_UpdateSettingsWhileRunningDeferred(t *testing.T) {
	engine := newTestEngine(t, newMemGateway(), nil, 25, 5)

	engine.Start()
	tickN(engine, 100)
	engine.UpdateSettings(50, 10)

	snap := engine.Snapshot()
	if snap.RemainingSeconds != 1400 {
		t.Errorf("текущий отсчёт не должен меняться: %d, want 1400", snap.RemainingSeconds)
	}

	// изменение вступает в силу на следующем естественном переходе
	tickN(engine, 1400)
	snap = engine.Snapshot()
	if snap.Phase != PhaseBreak || snap.RemainingSeconds != 10*60 {
		t.Errorf("после перехода: %+v, want break/600", snap)
	}
	if snap.TotalMinutes != 50 {
		t.Errorf("TotalMinutes = %d, want 50: начисляется новая рабочая длительность", snap.TotalMinutes)
	}
}

func TestPomodoro_UpdateSettingsWhilePausedImmediate(t *testing.T) {
	engine := newTestEngine(t, newMemGateway(), nil, 25, 5)

	engine.UpdateSettings(30, 7)
	if snap := engine.Snapshot(); snap.RemainingSeconds != 30*60 {
		t.Errorf("в фазе Focus: %d, want 1800", snap.RemainingSeconds)
	}

	// перейти в перерыв и обновить на паузе
	engine.Start()
	tickN(engine, 30*60)
	engine.UpdateSettings(30, 12)
	if snap := engine.Snapshot(); snap.Phase != PhaseBreak || snap.RemainingSeconds != 12*60 {
		t.Errorf("в фазе Break: %+v, want break/720", engine.Snapshot())
	}
}

func TestPomodoro_UpdateSettingsClampsNonPositive(t *testing.T) {
	engine := newTestEngine(t, newMemGateway(), nil, 25, 5)

	engine.UpdateSettings(0, -3)
	if snap := engine.Snapshot(); snap.RemainingSeconds != models.DefaultWorkMinutes*60 {
		t.Errorf("RemainingSeconds = %d, want %d", snap.RemainingSeconds, models.DefaultWorkMinutes*60)
	}
}

func TestPomodoro_NotifierFailureDoesNotAlterState(t *testing.T) {
	notifier := newRecordNotifier()
	notifier.err = errors.New("чат недоступен")
	engine := newTestEngine(t, newMemGateway(), notifier, 1, 1)

	engine.Start()
	tickN(engine, 60)
	awaitNotification(t, notifier)

	snap := engine.Snapshot()
	if snap.Phase != PhaseBreak || len(snap.Sessions) != 1 || snap.TotalMinutes != 1 {
		t.Errorf("ошибка уведомления не должна влиять на состояние: %+v", snap)
	}
}

func TestPomodoro_NoAutoRestartAfterCompletion(t *testing.T) {
	engine := newTestEngine(t, newMemGateway(), nil, 1, 1)

	engine.Start()
	tickN(engine, 60)
	// интервал завершён, таймер стоит: тики без Start ничего не меняют
	tickN(engine, 30)

	if snap := engine.Snapshot(); snap.RemainingSeconds != 60 {
		t.Errorf("RemainingSeconds = %d, want 60", snap.RemainingSeconds)
	}
}

func TestPomodoro_RecentSessionsNewestFirst(t *testing.T) {
	engine := newTestEngine(t, newMemGateway(), nil, 1, 1)

	for i := 0; i < 3; i++ {
		engine.Start()
		tickN(engine, 60) // фокус
		engine.Start()
		tickN(engine, 60) // перерыв
	}

	if got := engine.TodaySessions("2026-09-01"); got != 3 {
		t.Errorf("TodaySessions = %d, want 3", got)
	}
	recent := engine.RecentSessions(2)
	if len(recent) != 2 {
		t.Errorf("RecentSessions = %d, want 2", len(recent))
	}
}

func TestPomodoro_StateLoadedFromGateway(t *testing.T) {
	gateway := newMemGateway()
	gateway.docs[storage.DocPomodoro] = []byte(`{"sessions":[{"date":"2026-08-31","time":"10:00:00"}],"totalMinutes":75}`)

	engine := newTestEngine(t, gateway, nil, 25, 5)

	snap := engine.Snapshot()
	if snap.TotalMinutes != 75 || len(snap.Sessions) != 1 {
		t.Errorf("загруженное состояние: %+v", snap)
	}
}
