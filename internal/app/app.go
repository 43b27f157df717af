package app

import (
	"context"
	"log"
	"time"

	"focus-tracker/internal/clock"
	"focus-tracker/internal/config"
	"focus-tracker/internal/storage"
	"focus-tracker/internal/telegram"
	"focus-tracker/internal/tracker"

	"github.com/robfig/cron/v3"
)

type Application struct {
	config     *config.Config
	gateway    *storage.Gateway
	bot        *telegram.Bot
	manager    *tracker.Manager
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config) (*Application, error) {
	gateway, err := storage.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	clk := clock.System{}
	manager, err := tracker.NewManager(gateway, clk)
	if err != nil {
		gateway.Close()
		return nil, err
	}

	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, manager, clk)
	if err != nil {
		gateway.Close()
		return nil, err
	}

	manager.SetNotifier(bot)
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:     cfg,
		gateway:    gateway,
		bot:        bot,
		manager:    manager,
		cron:       cron.New(),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	app.setupCronJobs()

	return app, nil
}

func (a *Application) Start() error {
	log.Println("🚀 Запуск приложения...")

	go a.bot.Start(a.ctx)

	a.cron.Start()
	time.Sleep(1 * time.Second)

	a.sendWelcomeMessage()

	log.Printf("✅ Приложение запущено. Бот: @%s", a.bot.GetUsername())

	return nil
}

func (a *Application) Stop() error {
	log.Println("🛑 Остановка приложения...")

	a.cancelFunc()
	a.cron.Stop()

	if err := a.gateway.Close(); err != nil {
		log.Printf("⚠️ Ошибка закрытия хранилища: %v", err)
	}

	log.Println("✅ Приложение остановлено")
	return nil
}

func (a *Application) setupCronJobs() {
	clk := clock.System{}

	// Утреннее напоминание о просроченных задачах в 6:00 UTC
	_, err := a.cron.AddFunc("0 6 * * *", func() {
		overdue := a.manager.Tasks.Query(tracker.Criteria{
			Status: tracker.StatusOverdue,
			Today:  clk.Today(),
		})
		if err := a.bot.SendOverdueReminder(overdue); err != nil {
			log.Printf("⚠️ Ошибка отправки напоминания: %v", err)
		}
	})
	if err != nil {
		panic(err)
	}

	// Сводка дня в 19:00 UTC
	_, err = a.cron.AddFunc("0 19 * * *", func() {
		d := a.manager.BuildDashboard()
		a.bot.SendDailySummary(d)
	})
	if err != nil {
		panic(err)
	}

	// Итоги по привычкам по воскресеньям в 17:00 UTC
	a.cron.AddFunc("0 17 * * 0", func() {
		a.bot.SendHabitRecap(a.manager.Habits.All())
	})
}

func (a *Application) sendWelcomeMessage() {
	message := `🎯 <b>Focus Tracker</b>

Ваш трекер успешно запущен!

Сегодня: ` + clock.System{}.Today() + `

Используйте команды:
/dashboard - сводка дня
/tasks - задачи
/habits - привычки
/notes - заметки
/pom - помодоро-таймер
/help - справка по командам`

	a.bot.SendMessageOrLogError(message)
}
