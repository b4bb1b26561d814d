package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bobsim/datawash/pkg/frame"
)

// Memory is an in-process Store. Frames are cloned on the way in and out.
type Memory struct {
	mu      sync.Mutex
	objects map[string]*frame.Frame
	saves   int
}

func NewMemory() *Memory { return &Memory{objects: map[string]*frame.Frame{}} }

// Put seeds an object without counting it as a save.
func (m *Memory) Put(key string, f *frame.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = f.Clone()
}

func (m *Memory) Fetch(ctx context.Context, key string) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return f.Clone(), nil
}

func (m *Memory) Save(ctx context.Context, key string, f *frame.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = f.Clone()
	m.saves++
	return nil
}

// Saves counts successful Save calls.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Keys lists stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
