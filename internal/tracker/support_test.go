package tracker

import (
	"encoding/json"
	"sync"
)

// Фейки для тестов: хранилище в памяти и записывающий нотификатор

type memGateway struct {
	mu     sync.Mutex
	docs   map[string]json.RawMessage
	writes map[string]int
}

func newMemGateway() *memGateway {
	return &memGateway{
		docs:   make(map[string]json.RawMessage),
		writes: make(map[string]int),
	}
}

func (g *memGateway) Read(name string, out interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	body, ok := g.docs[name]
	if !ok {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (g *memGateway) Write(name string, v interface{}) <-chan error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ack := make(chan error, 1)
	body, err := json.Marshal(v)
	if err == nil {
		g.docs[name] = body
	}
	g.writes[name]++
	ack <- err
	return ack
}

type recordNotifier struct {
	titles chan string
	err    error
}

func newRecordNotifier() *recordNotifier {
	return &recordNotifier{titles: make(chan string, 16)}
}

func (n *recordNotifier) Notify(title, body string) error {
	n.titles <- title
	return n.err
}
