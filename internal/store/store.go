// Package store persists uploaded combat logs and simulation runs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pefman/stfc-combat/internal/models"
)

var ErrNotFound = errors.New("not found")

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// CombatLog is a raw journal document as uploaded.
type CombatLog struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	Journal   json.RawMessage `json:"journal"`
}

type CombatLogSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SimRun is one finished simulator invocation with its input.
type SimRun struct {
	ID         string                       `json:"id"`
	CreatedAt  time.Time                    `json:"createdAt"`
	Iterations int                          `json:"iterations"`
	Seed       int64                        `json:"seed"`
	Input      models.CombatData            `json:"input"`
	Result     models.CombatSimulatorResult `json:"result"`
}

type Store interface {
	SaveCombatLog(ctx context.Context, name string, journal json.RawMessage) (CombatLog, error)
	GetCombatLog(ctx context.Context, id string) (CombatLog, error)
	// ListCombatLogs returns the newest logs first; limit <= 0 means all.
	ListCombatLogs(ctx context.Context, limit int) ([]CombatLogSummary, error)
	SaveSimRun(ctx context.Context, run SimRun) (SimRun, error)
	GetSimRun(ctx context.Context, id string) (SimRun, error)
	Close() error
}

// Open picks a backend by driver name. path is ignored for memory.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func newID() string { return uuid.NewString() }

func now() time.Time { return time.Now().UTC() }
