// Package api fetches game data from a remote data host.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pefman/stfc-combat/internal/gamedata"
)

var httpClient = &http.Client{Timeout: 8 * time.Second}

// Provider hands out the current game data. Implementations are safe for
// concurrent use and never return a nil GameData without an error.
type Provider interface {
	GameData(ctx context.Context) (*gamedata.GameData, error)
}

// Static serves a preloaded document.
type Static struct{ Data *gamedata.GameData }

func (s Static) GameData(context.Context) (*gamedata.GameData, error) {
	if s.Data == nil {
		return gamedata.Empty(), nil
	}
	return s.Data, nil
}

type Config struct {
	BaseURL string
	// TTL bounds how long a fetched document is reused; <= 0 means 5 minutes.
	TTL    time.Duration
	Logger *zap.Logger
}

// Client caches the last fetched document. Concurrent misses share one
// request. A failed refresh keeps serving the stale copy if there is one.
type Client struct {
	config Config
	group  singleflight.Group

	mu        sync.RWMutex
	cache     *gamedata.GameData
	cacheTime time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{config: cfg}
}

func (c *Client) GameData(ctx context.Context) (*gamedata.GameData, error) {
	c.mu.RLock()
	if c.cache != nil && time.Since(c.cacheTime) < c.config.TTL {
		gd := c.cache
		c.mu.RUnlock()
		return gd, nil
	}
	stale := c.cache
	c.mu.RUnlock()

	v, err, _ := c.group.Do("gamedata", func() (any, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if stale != nil {
			c.config.Logger.Warn("game data refresh failed, serving stale copy", zap.Error(err))
			return stale, nil
		}
		return nil, err
	}
	return v.(*gamedata.GameData), nil
}

func (c *Client) fetch(ctx context.Context) (*gamedata.GameData, error) {
	url := strings.TrimRight(c.config.BaseURL, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("game data request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	begin := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch game data: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch game data: api status %d", resp.StatusCode)
	}
	gd, err := gamedata.Decode(resp.Body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache = gd
	c.cacheTime = time.Now()
	c.mu.Unlock()
	c.config.Logger.Info("game data fetched",
		zap.String("url", url),
		zap.String("version", gd.Version),
		zap.Duration("took", time.Since(begin)))
	return gd, nil
}

// Invalidate drops the cached copy so the next call refetches.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cacheTime = time.Time{}
	c.mu.Unlock()
}
