package audio

import (
	"context"
	"sync"

	"echodrop/internal/models"
	"echodrop/internal/observability"
)

// Player plays one sound at a time. Starting a new clip tears down
// whatever was playing before; finished clips unload themselves.
type Player struct {
	loader Loader
	log    *observability.AudioLogger

	mu         sync.Mutex
	current    Sound
	currentURL string
	playing    bool
}

// NewPlayer creates a Player over the given loader.
func NewPlayer(loader Loader) *Player {
	return &Player{
		loader: loader,
		log:    observability.NewAudioLogger("player"),
	}
}

// CurrentURL returns the URL of the loaded clip, empty when none.
func (p *Player) CurrentURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentURL
}

// IsPlaying reports whether a clip is actively playing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Play starts playback of url. Any current clip is unloaded before the
// new one loads, so the session never holds two resources at once.
func (p *Player) Play(ctx context.Context, url string) error {
	if url == "" {
		return models.NewValidationError("audio URL is required")
	}

	p.mu.Lock()
	p.teardownLocked()
	p.mu.Unlock()

	sound, err := p.loader.Load(ctx, url)
	if err != nil {
		observability.PlaybackSessionsTotal.WithLabelValues("failed").Inc()
		p.log.LogError(ctx, err, "load")
		return models.NewPlaybackError(err)
	}

	p.mu.Lock()
	// A concurrent Play may have loaded something while the lock was
	// released.
	p.teardownLocked()
	p.current = sound
	p.currentURL = url
	p.mu.Unlock()

	sound.SetOnComplete(func() { p.onComplete(sound) })

	if err := sound.Play(); err != nil {
		p.mu.Lock()
		p.teardownLocked()
		p.mu.Unlock()
		observability.PlaybackSessionsTotal.WithLabelValues("failed").Inc()
		p.log.LogError(ctx, err, "play")
		return models.NewPlaybackError(err)
	}

	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()

	observability.PlaybackSessionsTotal.WithLabelValues("started").Inc()
	p.log.LogEvent(ctx, "play", map[string]interface{}{"url": url})
	return nil
}

// Pause pauses the current clip, keeping it loaded.
func (p *Player) Pause(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || !p.playing {
		return nil
	}
	if err := p.current.Pause(); err != nil {
		return models.NewPlaybackError(err)
	}
	p.playing = false
	p.log.LogEvent(ctx, "pause", map[string]interface{}{"url": p.currentURL})
	return nil
}

// Resume restarts a paused clip.
func (p *Player) Resume(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.playing {
		return nil
	}
	if err := p.current.Play(); err != nil {
		return models.NewPlaybackError(err)
	}
	p.playing = true
	p.log.LogEvent(ctx, "resume", map[string]interface{}{"url": p.currentURL})
	return nil
}

// Toggle plays url, or pauses/resumes when url is already loaded.
func (p *Player) Toggle(ctx context.Context, url string) error {
	p.mu.Lock()
	sameClip := p.currentURL == url && p.current != nil
	playing := p.playing
	p.mu.Unlock()

	switch {
	case sameClip && playing:
		return p.Pause(ctx)
	case sameClip:
		return p.Resume(ctx)
	default:
		return p.Play(ctx, url)
	}
}

// Stop tears down the current clip, if any.
func (p *Player) Stop(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		observability.PlaybackSessionsTotal.WithLabelValues("stopped").Inc()
	}
	p.teardownLocked()
}

// onComplete runs when a clip finishes on its own.
func (p *Player) onComplete(sound Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A newer clip may already have replaced this one.
	if p.current != sound {
		return
	}
	observability.PlaybackSessionsTotal.WithLabelValues("completed").Inc()
	p.teardownLocked()
}

// teardownLocked unloads the current sound. Caller holds p.mu.
func (p *Player) teardownLocked() {
	if p.current != nil {
		_ = p.current.Unload()
	}
	p.current = nil
	p.currentURL = ""
	p.playing = false
}
