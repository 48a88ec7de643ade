package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

// Memory keeps everything in process. Data is lost on restart.
type Memory struct {
	mu      sync.Mutex
	logs    map[string]CombatLog
	simRuns map[string]SimRun
}

func NewMemory() *Memory {
	return &Memory{
		logs:    make(map[string]CombatLog),
		simRuns: make(map[string]SimRun),
	}
}

func (m *Memory) SaveCombatLog(_ context.Context, name string, journal json.RawMessage) (CombatLog, error) {
	rec := CombatLog{ID: newID(), Name: name, CreatedAt: now(), Journal: slices.Clone(journal)}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[rec.ID] = rec
	return rec, nil
}

func (m *Memory) GetCombatLog(_ context.Context, id string) (CombatLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.logs[id]
	if !ok {
		return CombatLog{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListCombatLogs(_ context.Context, limit int) ([]CombatLogSummary, error) {
	m.mu.Lock()
	out := make([]CombatLogSummary, 0, len(m.logs))
	for _, rec := range m.logs {
		out = append(out, CombatLogSummary{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt})
	}
	m.mu.Unlock()

	slices.SortFunc(out, func(a, b CombatLogSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SaveSimRun(_ context.Context, run SimRun) (SimRun, error) {
	run.ID = newID()
	run.CreatedAt = now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simRuns[run.ID] = run
	return run, nil
}

func (m *Memory) GetSimRun(_ context.Context, id string) (SimRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.simRuns[id]
	if !ok {
		return SimRun{}, ErrNotFound
	}
	return run, nil
}

func (m *Memory) Close() error { return nil }
