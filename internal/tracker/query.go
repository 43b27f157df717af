package tracker

import (
	"sort"
	"strings"

	"focus-tracker/internal/models"
)

// query.go - чистый конвейер фильтрации и сортировки задач.
// Никогда не мутирует вход и не держит скрытого состояния: представление
// целиком выводится заново при каждом изменении критериев

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
	StatusOverdue   StatusFilter = "overdue"
)

// FilterAll сентинел «без фильтра» для приоритета и категории
const FilterAll = "all"

// Criteria критерии отбора задач. Today — опорная дата для просрочки
type Criteria struct {
	Search   string
	Status   StatusFilter
	Priority string
	Category string
	Today    string
}

// IsOverdue задача просрочена: есть срок, срок строго раньше опорной даты,
// задача не выполнена. Единственное определение просрочки — и фильтр,
// и счётчик дашборда обязаны совпадать с ним
func IsOverdue(t models.Task, today string) bool {
	return t.DueDate != "" && t.DueDate < today && !t.Completed
}

// CountOverdue количество просроченных задач для дашборда
func CountOverdue(tasks []models.Task, today string) int {
	count := 0
	for _, t := range tasks {
		if IsOverdue(t, today) {
			count++
		}
	}
	return count
}

// QueryTasks возвращает упорядоченное представление коллекции по критериям
func QueryTasks(tasks []models.Task, c Criteria) []models.Task {
	search := strings.ToLower(c.Search)

	filtered := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}

		switch c.Status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		case StatusOverdue:
			if !IsOverdue(t, c.Today) {
				continue
			}
		}

		if c.Priority != "" && c.Priority != FilterAll && string(t.Priority) != c.Priority {
			continue
		}
		if c.Category != "" && c.Category != FilterAll && t.Category != c.Category {
			continue
		}

		filtered = append(filtered, t)
	}

	sortTasks(filtered)
	return filtered
}

// UpcomingTasks первые limit активных задач в том же порядке, что и список
func UpcomingTasks(tasks []models.Task, limit int) []models.Task {
	upcoming := QueryTasks(tasks, Criteria{Status: StatusActive})
	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// sortTasks стабильный общий порядок: невыполненные раньше выполненных;
// внутри группы задачи со сроком по возрастанию даты, задачи без срока
// после всех датированных
func sortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.DueDate == "" {
			return false
		}
		if b.DueDate == "" {
			return true
		}
		return a.DueDate < b.DueDate
	})
}
