package adapter

import "context"

// FetchedAudio describes an asset acquired from an external source.
type FetchedAudio struct {
	Title    string
	Duration float64 // seconds, full source duration
	Path     string
}

// AudioFetcher downloads the audio track of a remote URL into the media
// store under the given asset ID.
type AudioFetcher interface {
	Fetch(ctx context.Context, url, audioID string) (*FetchedAudio, error)
}
