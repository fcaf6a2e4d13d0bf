package audio

import "context"

// Device abstracts the platform recording device.
type Device interface {
	// Start begins capturing audio and returns the active session.
	Start(ctx context.Context) (Session, error)
}

// Session is a single in-progress recording.
type Session interface {
	// Stop finalizes the recording and returns the path of the
	// captured file.
	Stop() (path string, err error)

	// Discard aborts the recording and removes any partial file.
	Discard() error
}

// Sound is a loaded, playable audio object.
type Sound interface {
	Play() error
	Pause() error

	// Unload releases the underlying resources. A sound is unusable
	// after Unload.
	Unload() error

	// SetOnComplete registers a callback fired when playback reaches
	// the end of the clip.
	SetOnComplete(func())
}

// Loader loads a remote or local audio source into a playable Sound.
type Loader interface {
	Load(ctx context.Context, url string) (Sound, error)
}
