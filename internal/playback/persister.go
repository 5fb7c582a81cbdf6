package playback

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"marquee/internal/db"
	"marquee/internal/logger"
	"marquee/internal/models"
)

// DefaultDebounce is how long the persister coalesces successive
// ScheduleSave calls for the same title before writing. Time updates can
// fire many times per second during playback; one write per window bounds
// I/O volume.
const DefaultDebounce = 1 * time.Second

// Persister reads and writes playback configs with write coalescing and
// redundant-write suppression. One logical owner (the open player) touches a
// given content ID at a time; last write wins.
type Persister struct {
	store    ConfigStore
	debounce time.Duration

	mu          sync.Mutex
	pending     map[string]*models.PlaybackConfig
	timers      map[string]*time.Timer
	lastWritten map[string]string
	closed      bool
}

// NewPersister creates a persister over the given store with the default
// debounce window.
func NewPersister(store ConfigStore) *Persister {
	return NewPersisterWithDebounce(store, DefaultDebounce)
}

// NewPersisterWithDebounce creates a persister with an explicit debounce
// window. Tests use short windows.
func NewPersisterWithDebounce(store ConfigStore, debounce time.Duration) *Persister {
	return &Persister{
		store:       store,
		debounce:    debounce,
		pending:     make(map[string]*models.PlaybackConfig),
		timers:      make(map[string]*time.Timer),
		lastWritten: make(map[string]string),
	}
}

// Load reads the stored config for contentID. A missing or unreadable record
// returns nil with no error: playback proceeds with defaults, never fails on
// a bad stored record.
func (p *Persister) Load(ctx context.Context, contentID string) (*models.PlaybackConfig, error) {
	config, err := p.store.Get(ctx, contentID)
	if err != nil {
		if !db.IsNotFound(err) {
			logger.Log.Warn().
				Err(err).
				Str("content_id", contentID).
				Msg("Unreadable playback config, falling back to defaults")
		}
		return nil, nil
	}

	logger.Log.Debug().
		Str("content_id", contentID).
		Float64("position_seconds", config.PositionSeconds).
		Msg("Loaded playback config")

	return config, nil
}

// Save writes the config immediately, bypassing the debounce window but
// still suppressing writes identical to the last one persisted.
func (p *Persister) Save(ctx context.Context, config *models.PlaybackConfig) error {
	p.mu.Lock()
	if timer, ok := p.timers[config.ContentID]; ok {
		timer.Stop()
		delete(p.timers, config.ContentID)
	}
	delete(p.pending, config.ContentID)
	p.mu.Unlock()

	return p.write(ctx, config)
}

// ScheduleSave queues a write for config.ContentID. Successive calls within
// the debounce window replace the queued config so a seek followed by a
// volume change lands as a single write.
func (p *Persister) ScheduleSave(config *models.PlaybackConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	contentID := config.ContentID
	p.pending[contentID] = config

	if timer, ok := p.timers[contentID]; ok {
		timer.Stop()
	}
	p.timers[contentID] = time.AfterFunc(p.debounce, func() {
		p.flushOne(contentID)
	})
}

// Flush writes all pending configs immediately. Called on shutdown so an
// in-flight debounce window does not lose the final position.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	configs := make([]*models.PlaybackConfig, 0, len(p.pending))
	for contentID, config := range p.pending {
		if timer, ok := p.timers[contentID]; ok {
			timer.Stop()
			delete(p.timers, contentID)
		}
		configs = append(configs, config)
		delete(p.pending, contentID)
	}
	p.mu.Unlock()

	var firstErr error
	for _, config := range configs {
		if err := p.write(ctx, config); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close flushes pending writes and stops accepting new ones.
func (p *Persister) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	return p.Flush(ctx)
}

// flushOne runs on timer expiry for a single content ID
func (p *Persister) flushOne(contentID string) {
	p.mu.Lock()
	config, ok := p.pending[contentID]
	delete(p.pending, contentID)
	delete(p.timers, contentID)
	p.mu.Unlock()

	if !ok {
		return
	}

	if err := p.write(context.Background(), config); err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", contentID).
			Msg("Failed to persist playback config")
	}
}

// write persists a config unless it is byte-identical to the last write for
// the same content ID.
func (p *Persister) write(ctx context.Context, config *models.PlaybackConfig) error {
	fp := fingerprint(config)

	p.mu.Lock()
	if p.lastWritten[config.ContentID] == fp {
		p.mu.Unlock()
		logger.Log.Debug().
			Str("content_id", config.ContentID).
			Msg("Playback config unchanged, write suppressed")
		return nil
	}
	p.mu.Unlock()

	config.SchemaVersion = models.ConfigSchemaVersion
	config.UpdatedAt = time.Now().UTC()

	if err := p.store.Put(ctx, config); err != nil {
		return err
	}

	p.mu.Lock()
	p.lastWritten[config.ContentID] = fp
	p.mu.Unlock()

	logger.Log.Debug().
		Str("content_id", config.ContentID).
		Float64("position_seconds", config.PositionSeconds).
		Msg("Persisted playback config")

	return nil
}

// fingerprint serializes the persistable fields of a config for equality
// checks. UpdatedAt is excluded so a no-op tick does not look like a change.
func fingerprint(config *models.PlaybackConfig) string {
	c := *config
	c.UpdatedAt = time.Time{}
	data, err := json.Marshal(c)
	if err != nil {
		// Marshal of a plain struct cannot fail; treat as always-dirty
		return ""
	}
	return string(data)
}
