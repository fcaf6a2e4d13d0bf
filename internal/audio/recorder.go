package audio

import (
	"context"
	"errors"
	"sync"
	"time"

	"echodrop/internal/models"
	"echodrop/internal/observability"
)

// Clip is a finished recording ready for upload.
type Clip struct {
	Path   string
	Millis int64
	// Duration is Millis floored to whole seconds.
	Duration int
}

// Recorder drives a single recording session at a time. Start while
// recording is a validation error; Stop while idle returns an empty
// result. The device is never touched in either case.
type Recorder struct {
	device Device
	log    *observability.AudioLogger

	// OnTick, when set, receives the elapsed whole seconds once per
	// second while recording.
	OnTick func(seconds int)

	now          func() time.Time
	tickInterval time.Duration

	mu        sync.Mutex
	session   Session
	startedAt time.Time
	stopTick  chan struct{}
}

// NewRecorder creates a Recorder over the given device.
func NewRecorder(device Device) *Recorder {
	return &Recorder{
		device:       device,
		log:          observability.NewAudioLogger("recorder"),
		now:          time.Now,
		tickInterval: time.Second,
	}
}

// IsRecording reports whether a session is in progress.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

// Elapsed returns how long the current session has been running.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return 0
	}
	return r.now().Sub(r.startedAt)
}

// Start begins a new recording session.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return models.NewValidationError("recording already in progress")
	}

	session, err := r.device.Start(ctx)
	if err != nil {
		observability.RecordingsTotal.WithLabelValues("failed").Inc()
		r.log.LogError(ctx, err, "start")
		return wrapDeviceError(err)
	}

	r.session = session
	r.startedAt = r.now()
	r.stopTick = make(chan struct{})
	if r.OnTick != nil {
		go r.runTicker(r.stopTick)
	}

	r.log.LogEvent(ctx, "record_start", nil)
	return nil
}

// runTicker reports elapsed whole seconds until the session ends.
func (r *Recorder) runTicker(stop <-chan struct{}) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			active := r.session != nil
			elapsed := r.now().Sub(r.startedAt)
			onTick := r.OnTick
			r.mu.Unlock()
			if !active {
				return
			}
			if onTick != nil {
				onTick(FlooredSeconds(elapsed.Milliseconds()))
			}
		}
	}
}

// Stop finalizes the current session and returns the captured clip with
// its duration floored to whole seconds. Stopping while idle returns a
// nil clip, not an error.
func (r *Recorder) Stop(ctx context.Context) (*Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil, nil
	}

	close(r.stopTick)
	session := r.session
	r.session = nil

	path, err := session.Stop()
	if err != nil {
		observability.RecordingsTotal.WithLabelValues("failed").Inc()
		r.log.LogError(ctx, err, "stop")
		return nil, wrapDeviceError(err)
	}

	millis := r.now().Sub(r.startedAt).Milliseconds()
	clip := &Clip{
		Path:     path,
		Millis:   millis,
		Duration: FlooredSeconds(millis),
	}

	observability.RecordingsTotal.WithLabelValues("saved").Inc()
	r.log.LogEvent(ctx, "record_stop", map[string]interface{}{
		"path":     clip.Path,
		"duration": clip.Duration,
	})
	return clip, nil
}

// Cancel aborts the current session and discards any captured audio.
// Cancelling while idle is a no-op.
func (r *Recorder) Cancel(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil
	}

	close(r.stopTick)
	session := r.session
	r.session = nil

	if err := session.Discard(); err != nil {
		r.log.LogError(ctx, err, "cancel")
		return wrapDeviceError(err)
	}

	observability.RecordingsTotal.WithLabelValues("cancelled").Inc()
	r.log.LogEvent(ctx, "record_cancel", nil)
	return nil
}

// wrapDeviceError keeps error codes the device raised itself, such as a
// permission refusal, and wraps everything else as a device failure.
func wrapDeviceError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewDeviceError(err)
}
