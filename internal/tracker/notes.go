package tracker

import (
	"strings"
	"sync"

	"focus-tracker/internal/clock"
	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
)

type NoteStore struct {
	// mu защищает коллекцию: cron-задачи читают её из другой горутины
	mu      sync.Mutex
	gateway DocumentGateway
	clock   clock.Clock
	notes   []models.Note
	ids     idCounter
}

func NewNoteStore(gateway DocumentGateway, clk clock.Clock) (*NoteStore, error) {
	s := &NoteStore{gateway: gateway, clock: clk}
	if err := s.gateway.Read(storage.DocNotes, &s.notes); err != nil {
		return nil, err
	}
	for _, n := range s.notes {
		s.ids.observe(n.ID)
	}
	return s, nil
}

func (s *NoteStore) All() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *NoteStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Add создаёт заметку. Пустой заголовок молча отклоняется
func (s *NoteStore) Add(title string, color models.NoteColor) *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	if _, ok := models.NoteColorEmojis[color]; !ok {
		color = models.Yellow
	}

	note := models.Note{
		ID:        s.ids.next(),
		Title:     title,
		Body:      "",
		Color:     color,
		CreatedAt: s.clock.Now(),
	}
	s.notes = append(s.notes, note)
	s.persist()
	return &note
}

// UpdateBody заменяет текст заметки; отсутствующий id — no-op
func (s *NoteStore) UpdateBody(id int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].Body = body
			s.persist()
			return
		}
	}
}

// Delete удаляет заметку; отсутствующий id — no-op
func (s *NoteStore) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			s.persist()
			return
		}
	}
}

func (s *NoteStore) persist() {
	s.gateway.Write(storage.DocNotes, s.notes)
}
