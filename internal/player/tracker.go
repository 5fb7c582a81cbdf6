package player

import (
	"context"

	"marquee/internal/logger"
	"marquee/internal/models"
	"marquee/internal/playback"
)

// Tracker binds a player session to the playback persister for one title. It
// restores the stored config when the session opens, folds player events
// into a live config, and hands every change to the persister, which owns
// debouncing and write suppression.
type Tracker struct {
	player    Player
	persister *playback.Persister
	contentID string
	config    *models.PlaybackConfig
}

// NewTracker creates a tracker for the given title
func NewTracker(p Player, persister *playback.Persister, contentID string) *Tracker {
	return &Tracker{
		player:    p,
		persister: persister,
		contentID: contentID,
	}
}

// Restore loads the stored config for the title and applies it to the
// player. With no stored record the player is left at defaults.
func (t *Tracker) Restore(ctx context.Context) error {
	stored, err := t.persister.Load(ctx, t.contentID)
	if err != nil {
		return err
	}
	if stored == nil {
		t.config = models.DefaultPlaybackConfig(t.contentID)
		return nil
	}
	t.config = stored

	if err := t.player.Seek(stored.PositionSeconds); err != nil {
		return err
	}
	if err := t.player.SetVolume(stored.Volume); err != nil {
		return err
	}
	if err := t.player.SetMuted(stored.Muted); err != nil {
		return err
	}
	if err := t.player.SetRate(stored.PlaybackRate); err != nil {
		return err
	}
	if stored.Quality != "" {
		if err := t.player.SelectQuality(stored.Quality); err != nil {
			return err
		}
	}
	if stored.AudioTrackID != "" {
		if err := t.player.SelectAudioTrack(stored.AudioTrackID); err != nil {
			return err
		}
	}
	if err := t.player.SelectSubtitle(stored.SubtitleID); err != nil {
		return err
	}

	logger.Log.Info().
		Str("content_id", t.contentID).
		Float64("position_seconds", stored.PositionSeconds).
		Msg("Restored playback state")

	return nil
}

// Run consumes player events until the event stream closes or ctx is
// cancelled, then saves the final state immediately.
func (t *Tracker) Run(ctx context.Context) error {
	if t.config == nil {
		t.config = models.DefaultPlaybackConfig(t.contentID)
	}

	for {
		select {
		case <-ctx.Done():
			return t.persister.Save(context.Background(), t.config)
		case event, ok := <-t.player.Events():
			if !ok {
				return t.persister.Save(context.Background(), t.config)
			}
			t.apply(event)
		}
	}
}

// apply folds one event into the live config and queues a save
func (t *Tracker) apply(event Event) {
	switch event.Type {
	case EventTimeUpdate:
		t.config.PositionSeconds = event.PositionSeconds
	case EventVolumeChange:
		t.config.Volume = event.Volume
		t.config.Muted = event.Muted
	case EventTrackChange:
		if event.Quality != "" {
			t.config.Quality = event.Quality
		}
		if event.Language != "" {
			t.config.Language = event.Language
		}
		if event.AudioTrackID != "" {
			t.config.AudioTrackID = event.AudioTrackID
		}
		t.config.SubtitleID = event.SubtitleID
	case EventRateChange:
		t.config.PlaybackRate = event.PlaybackRate
	case EventFullscreenChange:
		// Fullscreen is session-local, nothing to persist
		return
	}

	snapshot := *t.config
	t.persister.ScheduleSave(&snapshot)
}
