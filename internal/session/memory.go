package session

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// MemoryRepository keeps chat context in process memory. Used when no
// Redis is configured; context then lives only as long as the process.
type MemoryRepository struct {
	histories map[string]*History
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{histories: make(map[string]*History)}
}

func (m *MemoryRepository) Load(ctx context.Context, sessionID string) (*History, error) {
	if h, ok := m.histories[sessionID]; ok {
		return h, nil
	}
	return &History{Messages: []*schema.Message{}}, nil
}

func (m *MemoryRepository) AddMessage(ctx context.Context, sessionID string, message *schema.Message) error {
	h, ok := m.histories[sessionID]
	if !ok {
		h = &History{}
		m.histories[sessionID] = h
	}
	h.Messages = append(h.Messages, message)
	return nil
}
