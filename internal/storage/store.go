// Package storage persists generated audio and, where the backend supports
// it, the metadata of the memos that own it.
package storage

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/nikhilbhutani/memocast/internal/models"
)

const contentTypeMPEG = "audio/mpeg"

// Capability names an optional operation a Store may offer.
type Capability string

const (
	CapabilityGet    Capability = "get"
	CapabilityList   Capability = "list"
	CapabilityDelete Capability = "delete"
)

// Audio is a stored artifact ready to be served.
type Audio struct {
	Filename    string
	Data        []byte
	ContentType string
	// TTL is the remaining validity window; zero means no expiry.
	TTL time.Duration
}

// Store is the artifact store contract. Implementations that lack a
// capability return an apperr.KindUnsupported error from the matching method.
type Store interface {
	Name() string
	// URL returns the public retrieval URL for filename.
	URL(filename string) string
	// Save persists audio under memo.Audio.Filename and records memo where an
	// index exists. A failed Save leaves nothing behind.
	Save(ctx context.Context, memo *models.Memo, audio []byte) error
	Audio(ctx context.Context, filename string) (*Audio, error)
	Get(ctx context.Context, id string) (*models.Memo, error)
	List(ctx context.Context, limit, offset int) (*models.MemoPage, error)
	Delete(ctx context.Context, id string) error
	Supports(c Capability) bool
}

// OrphanReporter receives audio files whose removal failed so that they can
// be swept later.
type OrphanReporter interface {
	ReportOrphan(ctx context.Context, path string) error
}

var filenamePattern = regexp.MustCompile(`^memo_[A-Za-z0-9-]+\.mp3$`)

// Filename returns the artifact name for a memo id.
func Filename(id string) string {
	return "memo_" + id + ".mp3"
}

// ValidFilename reports whether name has the shape produced by Filename.
func ValidFilename(name string) bool {
	return filenamePattern.MatchString(name)
}

func audioURL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + "/audio/" + filename
}
