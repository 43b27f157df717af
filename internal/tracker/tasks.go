package tracker

import (
	"strings"
	"sync"

	"focus-tracker/internal/clock"
	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
)

// DocumentGateway контракт хранилища документов. После каждой мутации
// store пишет коллекцию целиком; завершение записи не ожидается
type DocumentGateway interface {
	Read(name string, out interface{}) error
	Write(name string, v interface{}) <-chan error
}

type TaskStore struct {
	// mu защищает коллекцию: cron-задачи читают её из другой горутины
	mu      sync.Mutex
	gateway DocumentGateway
	clock   clock.Clock
	tasks   []models.Task
	ids     idCounter
}

func NewTaskStore(gateway DocumentGateway, clk clock.Clock) (*TaskStore, error) {
	s := &TaskStore{gateway: gateway, clock: clk}
	if err := s.gateway.Read(storage.DocTasks, &s.tasks); err != nil {
		return nil, err
	}
	for _, t := range s.tasks {
		s.ids.observe(t.ID)
	}
	return s, nil
}

// All копия коллекции для чистых производных представлений
func (s *TaskStore) All() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Add создаёт задачу. Пустой заголовок молча отклоняется
func (s *TaskStore) Add(title string, priority models.Priority, dueDate, category string) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	if !priority.IsValid() {
		priority = models.Medium
	}
	if category == "" {
		category = models.DefaultCategory
	}

	task := models.Task{
		ID:        s.ids.next(),
		Title:     title,
		Completed: false,
		Priority:  priority,
		DueDate:   dueDate,
		Category:  category,
		CreatedAt: s.clock.Now(),
	}
	s.tasks = append(s.tasks, task)
	s.persist()
	return &task
}

// TaskEdit изменяемые поля задачи; nil-поле означает «не трогать»
type TaskEdit struct {
	Title    *string
	DueDate  *string
	Priority *models.Priority
	Category *string
}

// Update правит задачу по id; отсутствующий id — no-op.
// Пустой новый заголовок сохраняет старый
func (s *TaskStore) Update(id int, edit TaskEdit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if edit.Title != nil && strings.TrimSpace(*edit.Title) != "" {
			s.tasks[i].Title = strings.TrimSpace(*edit.Title)
		}
		if edit.DueDate != nil {
			s.tasks[i].DueDate = *edit.DueDate
		}
		if edit.Priority != nil && edit.Priority.IsValid() {
			s.tasks[i].Priority = *edit.Priority
		}
		if edit.Category != nil && *edit.Category != "" {
			s.tasks[i].Category = *edit.Category
		}
		s.persist()
		return
	}
}

// Toggle переключает выполненность; отсутствующий id — no-op
func (s *TaskStore) Toggle(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.persist()
			return
		}
	}
}

// Delete удаляет задачу; отсутствующий id — no-op
func (s *TaskStore) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.persist()
			return
		}
	}
}

// ClearCompleted удаляет все выполненные задачи
func (s *TaskStore) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	if removed > 0 {
		s.persist()
	}
	return removed
}

// Query представление текущей коллекции по критериям
func (s *TaskStore) Query(c Criteria) []models.Task {
	return QueryTasks(s.All(), c)
}

func (s *TaskStore) persist() {
	s.gateway.Write(storage.DocTasks, s.tasks)
}
