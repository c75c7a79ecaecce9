package session

import (
	"fmt"
	"sync"
)

// Store keeps at most one session per conversation key.
type Store[T any] interface {
	Get(key string) (T, bool)
	Put(key string, value T)
	Remove(key string)
}

// MemoryStore is a process-local Store.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

var _ Store[*GallerySession] = (*MemoryStore[*GallerySession])(nil)

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{items: make(map[string]T)}
}

func (m *MemoryStore[T]) Get(key string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// Put replaces any existing session under key.
func (m *MemoryStore[T]) Put(key string, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *MemoryStore[T]) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

func (m *MemoryStore[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// ConversationKey identifies a channel; direct messages have no guild.
func ConversationKey(guildID, channelID string) string {
	if guildID == "" {
		return "dm:" + channelID
	}
	return fmt.Sprintf("guild:%s:%s", guildID, channelID)
}
