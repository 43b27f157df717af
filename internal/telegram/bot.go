package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"focus-tracker/internal/clock"
	"focus-tracker/internal/models"
	"focus-tracker/internal/tracker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	manager  *tracker.Manager
	driver   *tracker.TickDriver
	clock    clock.Clock
	handlers map[string]func(*tgbotapi.Message)
}

func NewBot(token string, chatID int64, manager *tracker.Manager, clk clock.Clock) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бота: %v", err)
	}

	bot := &Bot{
		bot:      botAPI,
		chatID:   chatID,
		manager:  manager,
		driver:   tracker.NewTickDriver(manager.Pomodoro),
		clock:    clk,
		handlers: make(map[string]func(*tgbotapi.Message)),
	}

	bot.registerHandlers()
	log.Printf("🤖 Бот инициализирован: %s", botAPI.Self.UserName)
	return bot, nil
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/help"] = b.handleStart
	b.handlers["/dashboard"] = b.handleDashboard
	b.handlers["/tasks"] = b.handleTasks
	b.handlers["/add"] = b.handleAddTask
	b.handlers["/done"] = b.handleDone
	b.handlers["/deltask"] = b.handleDeleteTask
	b.handlers["/edit"] = b.handleEditTask
	b.handlers["/clear"] = b.handleClearCompleted
	b.handlers["/habits"] = b.handleHabits
	b.handlers["/addhabit"] = b.handleAddHabit
	b.handlers["/delhabit"] = b.handleDeleteHabit
	b.handlers["/notes"] = b.handleNotes
	b.handlers["/addnote"] = b.handleAddNote
	b.handlers["/note"] = b.handleNoteBody
	b.handlers["/delnote"] = b.handleDeleteNote
	b.handlers["/pom"] = b.handlePomodoro
	b.handlers["/pomset"] = b.handlePomodoroSettings
	b.handlers["/pomstats"] = b.handlePomodoroStats
	b.handlers["/theme"] = b.handleTheme
}

func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.bot.Send(msg)
	return err
}

// Notify реализует tracker.Notifier: уведомление уходит сообщением в чат
func (b *Bot) Notify(title, body string) error {
	return b.SendMessage(fmt.Sprintf("🔔 <b>%s</b>\n\n%s", title, body))
}

func (b *Bot) GetUsername() string {
	return b.bot.Self.UserName
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	// все мутации коллекций выполняются в этом цикле, по одному событию за раз
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.Chat.ID != b.chatID {
		b.SendMessageOrLogError("⛔ Доступ запрещен")
		return
	}

	b.handleMessage(update.Message)
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	text := msg.Text
	if !strings.HasPrefix(text, "/") {
		return
	}

	command := strings.Fields(text)[0]
	if handler, exists := b.handlers[command]; exists {
		handler(msg)
	} else {
		b.SendMessageOrLogError("❌ Неизвестная команда. Используйте /help")
	}
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	// Message бывает nil, если исходное сообщение слишком старое
	if callback.Message == nil || callback.Message.Chat.ID != b.chatID {
		return
	}

	defer func(bot *tgbotapi.BotAPI, c tgbotapi.Chattable) {
		_, err := bot.Request(c)
		if err != nil {
			log.Printf("⚠️ Ошибка подтверждения callback: %v", err)
		}
	}(b.bot, tgbotapi.NewCallback(callback.ID, "✅"))

	data := callback.Data
	log.Printf("Received callback: %s", data)

	switch {
	case strings.HasPrefix(data, "done_"):
		b.callbackDone(data)
	case strings.HasPrefix(data, "deltask_"):
		b.callbackDeleteTask(data)
	case strings.HasPrefix(data, "habit_"):
		b.callbackHabitToggle(data)
	case data == "pom_start":
		b.manager.Pomodoro.Start()
		b.driver.Start()
		b.sendPomodoroStatus()
	case data == "pom_pause":
		b.driver.Stop()
		b.manager.Pomodoro.Pause()
		b.sendPomodoroStatus()
	case data == "pom_reset":
		b.driver.Stop()
		b.manager.Pomodoro.Reset()
		b.sendPomodoroStatus()
	}
}

func (b *Bot) callbackDone(data string) {
	id, err := strconv.Atoi(strings.TrimPrefix(data, "done_"))
	if err != nil {
		b.SendMessageOrLogError("❌ Ошибка обработки запроса")
		return
	}
	b.manager.Tasks.Toggle(id)
	b.SendMessageOrLogError("✅ Задача отмечена выполненной!")
}

func (b *Bot) callbackDeleteTask(data string) {
	id, err := strconv.Atoi(strings.TrimPrefix(data, "deltask_"))
	if err != nil {
		b.SendMessageOrLogError("❌ Ошибка обработки запроса")
		return
	}
	b.manager.Tasks.Delete(id)
	b.SendMessageOrLogError("🗑 Задача удалена")
}

// callbackHabitToggle формат: habit_<id>_<YYYY-MM-DD>
func (b *Bot) callbackHabitToggle(data string) {
	parts := strings.SplitN(strings.TrimPrefix(data, "habit_"), "_", 2)
	if len(parts) != 2 {
		b.SendMessageOrLogError("❌ Ошибка обработки запроса")
		return
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		b.SendMessageOrLogError("❌ Ошибка обработки запроса")
		return
	}

	b.manager.Habits.ToggleDate(id, parts[1])

	if habit := b.manager.Habits.Get(id); habit != nil {
		b.SendMessageOrLogError(fmt.Sprintf("🔥 <b>%s</b>: стрик %d", habit.Name, habit.Streak))
	}
}

// SendOverdueReminder напоминание о просроченных задачах с кнопками
func (b *Bot) SendOverdueReminder(overdue []models.Task) error {
	if len(overdue) == 0 {
		return nil
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("⏰ <b>ПРОСРОЧЕННЫЕ ЗАДАЧИ (%d)</b>\n\n", len(overdue)))

	var keyboardRows [][]tgbotapi.InlineKeyboardButton
	for i, t := range overdue {
		message.WriteString(fmt.Sprintf(
			"%d. %s <b>%s</b>\n   📅 Срок был: %s\n\n",
			i+1, models.PriorityEmojis[t.Priority], t.Title, t.DueDate,
		))
		keyboardRows = append(keyboardRows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✅ Выполнена? %s", t.Title),
				fmt.Sprintf("done_%d", t.ID),
			),
		))
	}

	if err := b.SendMessage(message.String()); err != nil {
		return err
	}

	keyboardMsg := tgbotapi.NewMessage(b.chatID, "Выберите действие:")
	keyboardMsg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboardRows...)
	keyboardMsg.ParseMode = "HTML"

	_, err := b.bot.Send(keyboardMsg)
	return err
}

// SendDailySummary вечерняя сводка дня
func (b *Bot) SendDailySummary(d tracker.Dashboard) {
	message := fmt.Sprintf(
		"📊 <b>Итоги дня %s</b>\n\n"+
			"✅ Выполнено: %d/%d (%.0f%%)\n"+
			"🍅 Сессий фокуса: %d\n"+
			"🔥 Лучший стрик: %d\n\n"+
			"Завтра будет новый день! 🌅",
		d.Date, d.CompletedTasks, d.TotalTasks, d.Percentage,
		d.TodaySessions, d.BestStreak,
	)
	b.SendMessageOrLogError(message)
}

// SendHabitRecap недельные итоги по привычкам
func (b *Bot) SendHabitRecap(habits []models.Habit) {
	if len(habits) == 0 {
		return
	}

	var message strings.Builder
	message.WriteString("🔥 <b>Стрики за неделю</b>\n\n")
	for _, h := range habits {
		message.WriteString(fmt.Sprintf("%s — стрик %d\n", h.Name, h.Streak))
	}
	b.SendMessageOrLogError(message.String())
}

// pomodoroKeyboard кнопки управления таймером
func (b *Bot) pomodoroKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶ Старт", "pom_start"),
			tgbotapi.NewInlineKeyboardButtonData("⏸ Пауза", "pom_pause"),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Сброс", "pom_reset"),
		),
	)
}
