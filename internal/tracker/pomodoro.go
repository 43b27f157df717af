package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"focus-tracker/internal/clock"
	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
)

// Notifier интерфейс для отправки уведомлений. Отправка не блокирует
// машину состояний, ошибки игнорируются
type Notifier interface {
	Notify(title, body string) error
}

type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

// PomodoroEngine машина состояний таймера. Движется только дискретными
// тиками Tick(); сама никаких горутин не держит, поэтому в тестах
// прогоняется вызовом Tick() нужное число раз
type PomodoroEngine struct {
	mu        sync.Mutex
	phase     Phase
	running   bool
	remaining int

	workMinutes  int
	breakMinutes int

	state    models.PomodoroState
	gateway  DocumentGateway
	clock    clock.Clock
	notifier Notifier
}

// PomodoroSnapshot копия наблюдаемого состояния для отрисовки
type PomodoroSnapshot struct {
	Phase            Phase
	Running          bool
	RemainingSeconds int
	TotalMinutes     int
	Sessions         []models.PomodoroSession
}

// SetNotifier подключает получателя уведомлений; допускает позднее
// связывание, так как бот создаётся после движка
func (e *PomodoroEngine) SetNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier = n
}

func NewPomodoroEngine(gateway DocumentGateway, clk clock.Clock, notifier Notifier, settings models.Settings) (*PomodoroEngine, error) {
	settings = settings.Normalize()
	e := &PomodoroEngine{
		phase:        PhaseFocus,
		running:      false,
		workMinutes:  settings.PomodoroWorkMinutes,
		breakMinutes: settings.PomodoroBreakMinutes,
		gateway:      gateway,
		clock:        clk,
		notifier:     notifier,
	}
	e.remaining = e.workMinutes * 60
	if err := gateway.Read(storage.DocPomodoro, &e.state); err != nil {
		return nil, err
	}
	return e, nil
}

// Start включает отсчёт; повторный вызов на работающем таймере — no-op
func (e *PomodoroEngine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
}

// Pause замораживает остаток; повторный вызов на стоящем таймере — no-op.
// После возврата ни один тик не изменит состояние
func (e *PomodoroEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// Reset принудительно возвращает машину в исходное состояние: фаза Focus,
// таймер стоит, остаток — полная рабочая длительность
func (e *PomodoroEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.phase = PhaseFocus
	e.running = false
	e.remaining = e.workMinutes * 60
}

// Tick один секундный шаг. Возвращает true, пока таймер продолжает идти;
// на стоящем таймере — no-op
func (e *PomodoroEngine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return false
	}

	e.remaining--
	if e.remaining > 0 {
		return true
	}

	// Интервал дошёл до нуля: перейти в следующую фазу и остановиться,
	// продолжение — только явным Start
	switch e.phase {
	case PhaseFocus:
		e.state.Sessions = append(e.state.Sessions, models.PomodoroSession{
			Date: e.clock.Today(),
			Time: e.clock.Now().Format("15:04:05"),
		})
		e.state.TotalMinutes += e.workMinutes
		e.gateway.Write(storage.DocPomodoro, e.state)

		e.phase = PhaseBreak
		e.remaining = e.breakMinutes * 60
		e.notify("🍅 Фокус завершён!", "Время перерыва!")
	case PhaseBreak:
		e.phase = PhaseFocus
		e.remaining = e.workMinutes * 60
		e.notify("🎉 Перерыв окончен!", "Готовы сосредоточиться?")
	}
	e.running = false
	return false
}

// UpdateSettings сохраняет новые длительности. На стоящем таймере остаток
// немедленно пересчитывается под текущую фазу; на работающем текущий
// отсчёт не трогается, изменение вступит в силу на следующем переходе
func (e *PomodoroEngine) UpdateSettings(workMinutes, breakMinutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if workMinutes <= 0 {
		workMinutes = models.DefaultWorkMinutes
	}
	if breakMinutes <= 0 {
		breakMinutes = models.DefaultBreakMinutes
	}
	e.workMinutes = workMinutes
	e.breakMinutes = breakMinutes

	if !e.running {
		if e.phase == PhaseBreak {
			e.remaining = e.breakMinutes * 60
		} else {
			e.remaining = e.workMinutes * 60
		}
	}
}

func (e *PomodoroEngine) Snapshot() PomodoroSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	sessions := make([]models.PomodoroSession, len(e.state.Sessions))
	copy(sessions, e.state.Sessions)

	return PomodoroSnapshot{
		Phase:            e.phase,
		Running:          e.running,
		RemainingSeconds: e.remaining,
		TotalMinutes:     e.state.TotalMinutes,
		Sessions:         sessions,
	}
}

// TodaySessions число сессий за дату
func (e *PomodoroEngine) TodaySessions(date string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, s := range e.state.Sessions {
		if s.Date == date {
			count++
		}
	}
	return count
}

// RecentSessions последние n сессий, новые первыми
func (e *PomodoroEngine) RecentSessions(n int) []models.PomodoroSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.PomodoroSession, 0, n)
	for i := len(e.state.Sessions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, e.state.Sessions[i])
	}
	return out
}

// notify уведомление в одну сторону: не ждём и не реагируем на ошибки.
// Вызывается только под мьютексом
func (e *PomodoroEngine) notify(title, body string) {
	n := e.notifier
	if n == nil {
		return
	}
	go func() {
		if err := n.Notify(title, body); err != nil {
			log.Printf("⚠️ Ошибка отправки уведомления: %v", err)
		}
	}()
}

// TickDriver источник реального времени для движка: раз в секунду
// вызывает Tick, пока таймер идёт. Одновременно активен максимум один
// источник — Start сперва гасит предыдущий
type TickDriver struct {
	engine *PomodoroEngine
	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewTickDriver(engine *PomodoroEngine) *TickDriver {
	return &TickDriver{engine: engine}
}

func (d *TickDriver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	go d.loop(ctx)
}

// Stop синхронно прекращает доставку тиков
func (d *TickDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *TickDriver) stopLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *TickDriver) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !d.engine.Tick() {
				// интервал завершился или таймер поставили на паузу
				return
			}
		}
	}
}
