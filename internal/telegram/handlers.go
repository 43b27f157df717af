package telegram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"focus-tracker/internal/models"
	"focus-tracker/internal/tracker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handlers.go - обработчики команд Telegram бота

var dateRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	message := `🎯 <b>Focus Tracker</b>

Задачи:
/tasks [active|completed|overdue] [!приоритет] [@категория] [поиск] - список
/add [задача] [!low|!medium|!high] [@категория] [YYYY-MM-DD] - добавить
/done [id] - выполнено / вернуть
/edit [id] [...] - изменить
/deltask [id] - удалить
/clear - убрать выполненные

Привычки:
/habits - неделя и стрики
/addhabit [название] - добавить
/delhabit [id] - удалить

Заметки:
/notes - список
/addnote [заголовок] - добавить
/note [id] [текст] - текст заметки
/delnote [id] - удалить

Помодоро:
/pom - таймер
/pomset [работа] [перерыв] - длительности в минутах
/pomstats - статистика

/dashboard - сводка дня
/theme - переключить тему

Пример:
/add Доделать отчёт !high @Работа 2026-09-05`

	b.SendMessageOrLogError(message)
}

func (b *Bot) handleDashboard(msg *tgbotapi.Message) {
	d := b.manager.BuildDashboard()
	theme := "🌙"
	if b.manager.Settings().Theme == models.Light {
		theme = "☀️"
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("%s 📊 <b>Сводка на %s</b>\n\n", theme, d.Date))
	message.WriteString(fmt.Sprintf(
		"📋 Всего задач: %d\n"+
			"✅ Выполнено: %d (%.0f%%)\n"+
			"⏰ Просрочено: %d\n"+
			"🍅 Сессий сегодня: %d\n"+
			"🔥 Лучший стрик: %d\n"+
			"📝 Заметок: %d\n",
		d.TotalTasks, d.CompletedTasks, d.Percentage,
		d.OverdueTasks, d.TodaySessions, d.BestStreak, d.NoteCount,
	))

	if len(d.Upcoming) > 0 {
		message.WriteString("\n<b>Ближайшие задачи:</b>\n")
		for _, t := range d.Upcoming {
			due := "без срока"
			if t.DueDate != "" {
				due = t.DueDate
			}
			message.WriteString(fmt.Sprintf("%s %s — %s\n", models.PriorityEmojis[t.Priority], t.Title, due))
		}
	}

	today := b.clock.Today()
	habits := b.manager.Habits.All()
	if len(habits) > 0 {
		message.WriteString("\n<b>Привычки сегодня:</b>\n")
		for _, h := range habits {
			mark := "⬜"
			for _, date := range h.CompletedDates {
				if date == today {
					mark = "✅"
					break
				}
			}
			message.WriteString(fmt.Sprintf("%s %s 🔥 %d\n", mark, h.Name, h.Streak))
		}
	}

	b.SendMessageOrLogError(message.String())
}

// parseTaskCriteria разбирает аргументы /tasks:
// active|completed|overdue|all, !приоритет, @категория, остальное — поиск
func (b *Bot) parseTaskCriteria(args []string) tracker.Criteria {
	criteria := tracker.Criteria{
		Status: tracker.StatusAll,
		Today:  b.clock.Today(),
	}

	var search []string
	for _, arg := range args {
		switch {
		case arg == "active" || arg == "completed" || arg == "overdue" || arg == "all":
			criteria.Status = tracker.StatusFilter(arg)
		case strings.HasPrefix(arg, "!"):
			criteria.Priority = strings.TrimPrefix(arg, "!")
		case strings.HasPrefix(arg, "@"):
			criteria.Category = strings.TrimPrefix(arg, "@")
		default:
			search = append(search, arg)
		}
	}
	criteria.Search = strings.Join(search, " ")
	return criteria
}

func (b *Bot) handleTasks(msg *tgbotapi.Message) {
	args := strings.Fields(msg.Text)[1:]
	criteria := b.parseTaskCriteria(args)
	tasks := b.manager.Tasks.Query(criteria)

	if len(tasks) == 0 {
		b.SendMessageOrLogError("📭 Ни одна задача не подходит под фильтры")
		return
	}

	today := b.clock.Today()
	var message strings.Builder
	message.WriteString(fmt.Sprintf("📋 <b>Задачи (%d)</b>\n\n", len(tasks)))

	for _, t := range tasks {
		message.WriteString(formatTaskLine(t, today))
	}

	b.SendMessageOrLogError(message.String())
}

// formatTaskLine строка списка для одной задачи: статус, заголовок и id,
// затем по строке на срок (если задан) и категорию
func formatTaskLine(t models.Task, today string) string {
	status := "⬜"
	if t.Completed {
		status = "✅"
	} else if tracker.IsOverdue(t, today) {
		status = "⚠️"
	}

	var line strings.Builder
	line.WriteString(fmt.Sprintf(
		"%s %s <b>%s</b> (id: %d)\n",
		status, models.PriorityEmojis[t.Priority], t.Title, t.ID,
	))
	if t.DueDate != "" {
		line.WriteString(fmt.Sprintf("   📅 %s\n", t.DueDate))
	}
	line.WriteString(fmt.Sprintf("   🏷 %s\n", t.Category))
	return line.String()
}

// parseTaskFields выделяет из аргументов приоритет, категорию и дату;
// остаток возвращается как заголовок
func parseTaskFields(args []string) (title string, priority models.Priority, due, category string) {
	var rest []string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "!"):
			priority = models.Priority(strings.TrimPrefix(arg, "!"))
		case strings.HasPrefix(arg, "@"):
			category = strings.TrimPrefix(arg, "@")
		case dateRe.MatchString(arg):
			due = arg
		default:
			rest = append(rest, arg)
		}
	}
	return strings.Join(rest, " "), priority, due, category
}

func (b *Bot) handleAddTask(msg *tgbotapi.Message) {
	args := strings.Fields(msg.Text)[1:]
	if len(args) == 0 {
		b.SendMessageOrLogError("❌ Формат: /add [задача] [!приоритет] [@категория] [YYYY-MM-DD]")
		return
	}

	title, priority, due, category := parseTaskFields(args)
	task := b.manager.Tasks.Add(title, priority, due, category)
	if task == nil {
		b.SendMessageOrLogError("❌ Заголовок задачи не может быть пустым")
		return
	}

	b.SendMessageOrLogError(fmt.Sprintf(
		"✅ Задача добавлена: <b>%s</b> (id: %d, %s)",
		task.Title, task.ID, models.PriorityNames[task.Priority],
	))
}

func (b *Bot) handleDone(msg *tgbotapi.Message) {
	id, ok := b.parseID(msg.Text, "/done [id]")
	if !ok {
		return
	}
	b.manager.Tasks.Toggle(id)
	b.SendMessageOrLogError(fmt.Sprintf("✅ Статус задачи id: %d переключён", id))
}

func (b *Bot) handleDeleteTask(msg *tgbotapi.Message) {
	id, ok := b.parseID(msg.Text, "/deltask [id]")
	if !ok {
		return
	}
	b.manager.Tasks.Delete(id)
	b.SendMessageOrLogError(fmt.Sprintf("🗑 Задача id: %d удалена", id))
}

func (b *Bot) handleEditTask(msg *tgbotapi.Message) {
	args := strings.Fields(msg.Text)[1:]
	if len(args) < 2 {
		b.SendMessageOrLogError("❌ Формат: /edit [id] [новый заголовок] [!приоритет] [@категория] [YYYY-MM-DD]")
		return
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		b.SendMessageOrLogError("❌ id должен быть числовой")
		return
	}

	title, priority, due, category := parseTaskFields(args[1:])

	edit := tracker.TaskEdit{}
	if title != "" {
		edit.Title = &title
	}
	if priority != "" {
		edit.Priority = &priority
	}
	if due != "" {
		edit.DueDate = &due
	}
	if category != "" {
		edit.Category = &category
	}

	b.manager.Tasks.Update(id, edit)
	b.SendMessageOrLogError(fmt.Sprintf("✏️ Задача id: %d обновлена", id))
}

func (b *Bot) handleClearCompleted(msg *tgbotapi.Message) {
	removed := b.manager.Tasks.ClearCompleted()
	b.SendMessageOrLogError(fmt.Sprintf("🧹 Удалено выполненных задач: %d", removed))
}

func (b *Bot) handleHabits(msg *tgbotapi.Message) {
	habits := b.manager.Habits.All()
	if len(habits) == 0 {
		b.SendMessageOrLogError("📭 Привычек пока нет. Добавьте первую: /addhabit [название]")
		return
	}

	today := b.clock.Today()

	for _, h := range habits {
		row := tracker.WeekRow(h, today)

		var message strings.Builder
		message.WriteString(fmt.Sprintf("<b>%s</b> 🔥 стрик %d (id: %d)\n", h.Name, h.Streak, h.ID))
		for _, cell := range row {
			mark := "⬜"
			if cell.Checked {
				mark = "✅"
			}
			message.WriteString(fmt.Sprintf("%s %s  ", mark, cell.Label))
		}

		// кнопка на каждый день окна: нажатие переключает отметку
		var buttons []tgbotapi.InlineKeyboardButton
		for _, cell := range row {
			label := cell.Label
			if cell.IsToday {
				label = "·" + label + "·"
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
				label, fmt.Sprintf("habit_%d_%s", h.ID, cell.Date),
			))
		}

		habitMsg := tgbotapi.NewMessage(b.chatID, message.String())
		habitMsg.ParseMode = "HTML"
		habitMsg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
		if _, err := b.bot.Send(habitMsg); err != nil {
			b.logSendError(err)
		}
	}
}

func (b *Bot) handleAddHabit(msg *tgbotapi.Message) {
	args := strings.Fields(msg.Text)[1:]

	frequency := models.Daily
	var rest []string
	for _, arg := range args {
		if arg == "weekly" || arg == "daily" {
			frequency = models.Frequency(arg)
			continue
		}
		rest = append(rest, arg)
	}

	habit := b.manager.Habits.Add(strings.Join(rest, " "), frequency)
	if habit == nil {
		b.SendMessageOrLogError("❌ Формат: /addhabit [название] [daily|weekly]")
		return
	}

	b.SendMessageOrLogError(fmt.Sprintf("✅ Привычка добавлена: <b>%s</b> (id: %d)", habit.Name, habit.ID))
}

func (b *Bot) handleDeleteHabit(msg *tgbotapi.Message) {
	id, ok := b.parseID(msg.Text, "/delhabit [id]")
	if !ok {
		return
	}
	b.manager.Habits.Delete(id)
	b.SendMessageOrLogError(fmt.Sprintf("🗑 Привычка id: %d удалена", id))
}

func (b *Bot) handleNotes(msg *tgbotapi.Message) {
	notes := b.manager.Notes.All()
	if len(notes) == 0 {
		b.SendMessageOrLogError("📭 Заметок пока нет. Создайте первую: /addnote [заголовок]")
		return
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("📝 <b>Заметки (%d)</b>\n\n", len(notes)))
	for _, n := range notes {
		message.WriteString(fmt.Sprintf(
			"%s <b>%s</b> (id: %d) — %s\n",
			models.NoteColorEmojis[n.Color], n.Title, n.ID, n.CreatedAt.Format("2006-01-02"),
		))
		if n.Body != "" {
			message.WriteString(fmt.Sprintf("<i>%s</i>\n", n.Body))
		}
		message.WriteString("\n")
	}

	b.SendMessageOrLogError(message.String())
}

func (b *Bot) handleAddNote(msg *tgbotapi.Message) {
	args := strings.Fields(msg.Text)[1:]

	color := models.Yellow
	var rest []string
	for _, arg := range args {
		if _, ok := models.NoteColorEmojis[models.NoteColor(arg)]; ok {
			color = models.NoteColor(arg)
			continue
		}
		rest = append(rest, arg)
	}

	note := b.manager.Notes.Add(strings.Join(rest, " "), color)
	if note == nil {
		b.SendMessageOrLogError("❌ Формат: /addnote [заголовок] [yellow|green|blue|pink]")
		return
	}

	b.SendMessageOrLogError(fmt.Sprintf("✅ Заметка создана: <b>%s</b> (id: %d)", note.Title, note.ID))
}

func (b *Bot) handleNoteBody(msg *tgbotapi.Message) {
	args := strings.SplitN(msg.Text, " ", 3)
	if len(args) < 3 {
		b.SendMessageOrLogError("❌ Формат: /note [id] [текст]")
		return
	}

	id, err := strconv.Atoi(args[1])
	if err != nil {
		b.SendMessageOrLogError("❌ id должен быть числовой")
		return
	}

	b.manager.Notes.UpdateBody(id, args[2])
	b.SendMessageOrLogError(fmt.Sprintf("✏️ Текст заметки id: %d обновлён", id))
}

func (b *Bot) handleDeleteNote(msg *tgbotapi.Message) {
	id, ok := b.parseID(msg.Text, "/delnote [id]")
	if !ok {
		return
	}
	b.manager.Notes.Delete(id)
	b.SendMessageOrLogError(fmt.Sprintf("🗑 Заметка id: %d удалена", id))
}

func (b *Bot) handlePomodoro(msg *tgbotapi.Message) {
	b.sendPomodoroStatus()
}

func (b *Bot) sendPomodoroStatus() {
	snap := b.manager.Pomodoro.Snapshot()

	phase := "🧠 Фокус"
	if snap.Phase == tracker.PhaseBreak {
		phase = "☕ Перерыв"
	}
	state := "⏸ на паузе"
	if snap.Running {
		state = "▶ идёт"
	}

	message := fmt.Sprintf(
		"🍅 <b>Помодоро</b>\n\n"+
			"%s — %s\n"+
			"⏳ Осталось: %02d:%02d",
		phase, state,
		snap.RemainingSeconds/60, snap.RemainingSeconds%60,
	)

	statusMsg := tgbotapi.NewMessage(b.chatID, message)
	statusMsg.ParseMode = "HTML"
	statusMsg.ReplyMarkup = b.pomodoroKeyboard()
	if _, err := b.bot.Send(statusMsg); err != nil {
		b.logSendError(err)
	}
}

func (b *Bot) handlePomodoroSettings(msg *tgbotapi.Message) {
	args := strings.Fields(msg.Text)[1:]
	if len(args) != 2 {
		b.SendMessageOrLogError("❌ Формат: /pomset [работа мин] [перерыв мин]")
		return
	}

	work, err1 := strconv.Atoi(args[0])
	brk, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		b.SendMessageOrLogError("❌ Длительности должны быть числовые")
		return
	}

	settings := b.manager.UpdatePomodoroSettings(work, brk)
	b.SendMessageOrLogError(fmt.Sprintf(
		"⚙️ Длительности сохранены: работа %d мин, перерыв %d мин",
		settings.PomodoroWorkMinutes, settings.PomodoroBreakMinutes,
	))
}

func (b *Bot) handlePomodoroStats(msg *tgbotapi.Message) {
	today := b.clock.Today()
	snap := b.manager.Pomodoro.Snapshot()
	recent := b.manager.Pomodoro.RecentSessions(8)

	var message strings.Builder
	message.WriteString("🍅 <b>Статистика помодоро</b>\n\n")
	message.WriteString(fmt.Sprintf("Сегодня сессий: %d\n", b.manager.Pomodoro.TodaySessions(today)))
	message.WriteString(fmt.Sprintf("Всего минут фокуса: %d\n", snap.TotalMinutes))

	if len(recent) > 0 {
		message.WriteString("\n<b>Последние сессии:</b>\n")
		for _, s := range recent {
			message.WriteString(fmt.Sprintf("🍅 %s %s\n", s.Date, s.Time))
		}
	}

	b.SendMessageOrLogError(message.String())
}

func (b *Bot) handleTheme(msg *tgbotapi.Message) {
	theme := b.manager.ToggleTheme()
	icon := "🌙"
	if theme == models.Light {
		icon = "☀️"
	}
	b.SendMessageOrLogError(fmt.Sprintf("%s Тема переключена: %s", icon, theme))
}

// parseID разбирает команды вида "/cmd [id]"
func (b *Bot) parseID(text, usage string) (int, bool) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		b.SendMessageOrLogError("❌ Формат: " + usage)
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		b.SendMessageOrLogError("❌ id должен быть числовой")
		return 0, false
	}
	return id, true
}
