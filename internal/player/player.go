// Package player defines the boundary to the actual media player. The engine
// never drives playback directly; the player is the sole mutator of live
// playback and the sole source of the current time used for persistence.
package player

// EventType classifies player state-change notifications
type EventType string

const (
	// EventTimeUpdate carries the current playback position
	EventTimeUpdate EventType = "time_update"

	// EventVolumeChange carries volume and mute state
	EventVolumeChange EventType = "volume_change"

	// EventTrackChange carries quality, language, subtitle, and audio track
	// selections
	EventTrackChange EventType = "track_change"

	// EventRateChange carries the playback rate
	EventRateChange EventType = "rate_change"

	// EventFullscreenChange carries fullscreen state; observed but never
	// persisted
	EventFullscreenChange EventType = "fullscreen_change"
)

// Event is a player state-change notification. Only the fields relevant to
// the event type are populated.
type Event struct {
	Type            EventType
	PositionSeconds float64
	Volume          float64
	Muted           bool
	Quality         string
	Language        string
	SubtitleID      *string
	AudioTrackID    string
	PlaybackRate    float64
	Fullscreen      bool
}

// Player is the imperative control surface of the media element. Decoding
// and rendering are outside this subsystem; implementations wrap whatever
// pipeline actually plays the stream.
type Player interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetVolume(volume float64) error
	SetMuted(muted bool) error
	SetRate(rate float64) error
	CurrentTime() float64
	Duration() float64
	SelectAudioTrack(id string) error
	SelectQuality(label string) error
	SelectSubtitle(id *string) error

	// Events streams state-change notifications until the player closes
	Events() <-chan Event
}
