package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// Имена документов хранилища
const (
	DocTasks    = "tasks"
	DocNotes    = "notes"
	DocHabits   = "habits"
	DocPomodoro = "pomodoro"
	DocSettings = "settings"
)

// Gateway хранилище именованных JSON-документов поверх SQLite.
// Каждый документ перезаписывается целиком, частичных обновлений нет.
// Записи выполняются одной фоновой горутиной в порядке поступления
type Gateway struct {
	db     *sql.DB
	writes chan writeRequest
	done   chan struct{}
}

type writeRequest struct {
	name string
	body []byte
	ack  chan error
}

func New(path string) (*Gateway, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %v", err)
	}

	g := &Gateway{
		db:     db,
		writes: make(chan writeRequest, 64),
		done:   make(chan struct{}),
	}
	if err := g.init(); err != nil {
		return nil, err
	}

	go g.writeLoop()

	log.Printf("✅ Хранилище документов инициализировано: %s", path)
	return g, nil
}

func (g *Gateway) init() error {
	query := `CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := g.db.Exec(query); err != nil {
		return fmt.Errorf("ошибка создания таблицы: %v", err)
	}

	return nil
}

// Read читает документ и декодирует его в out. Если документ ещё не
// записывался, декодируется значение по умолчанию
func (g *Gateway) Read(name string, out interface{}) error {
	var body string
	err := g.db.QueryRow("SELECT body FROM documents WHERE name = ?", name).Scan(&body)
	if err == sql.ErrNoRows {
		body = defaultBody(name)
	} else if err != nil {
		return fmt.Errorf("ошибка чтения документа %s: %v", name, err)
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("ошибка декодирования документа %s: %v", name, err)
	}
	return nil
}

// Write ставит полную замену документа в очередь на запись и возвращает
// канал завершения. Вызывающий волен не дожидаться: состояние в памяти
// остаётся источником истины, ошибки записи логируются
func (g *Gateway) Write(name string, v interface{}) <-chan error {
	ack := make(chan error, 1)

	body, err := json.Marshal(v)
	if err != nil {
		ack <- fmt.Errorf("ошибка кодирования документа %s: %v", name, err)
		return ack
	}

	select {
	case g.writes <- writeRequest{name: name, body: body, ack: ack}:
	case <-g.done:
		ack <- fmt.Errorf("хранилище закрыто, документ %s не записан", name)
	}
	return ack
}

func (g *Gateway) writeLoop() {
	for {
		select {
		case req := <-g.writes:
			_, err := g.db.Exec(
				"INSERT OR REPLACE INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
				req.name, string(req.body),
			)
			if err != nil {
				log.Printf("⚠️ Ошибка записи документа %s: %v", req.name, err)
			}
			req.ack <- err
		case <-g.done:
			return
		}
	}
}

// Close останавливает фоновую запись и закрывает БД. Невыполненные
// отложенные записи теряются — это принятое окно потери данных
func (g *Gateway) Close() error {
	close(g.done)
	return g.db.Close()
}

func defaultBody(name string) string {
	switch name {
	case DocTasks, DocNotes, DocHabits:
		return "[]"
	case DocPomodoro:
		return `{"sessions":[],"totalMinutes":0}`
	case DocSettings:
		return `{"theme":"dark","pomodoroWorkMinutes":25,"pomodoroBreakMinutes":5}`
	default:
		return "null"
	}
}
