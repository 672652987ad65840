// Package resolver turns an external media reference into playable stream
// metadata: identity, chosen audio stream, duration and expiry. Results are
// cached; a broken cache degrades to live resolution.
package resolver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pyraxo/haru/internal/cache"
)

const (
	cacheKeyPrefix = "haru:track:"

	// Signed stream URLs are considered stale this long before their
	// embedded expiry, so playback never starts on a dying link.
	expirySafetyMargin = 900 * time.Second

	// Cache window for streams whose URL carries no expiry signal.
	defaultCacheTTL = 2 * time.Hour
)

var (
	ErrResolutionFailed = errors.New("resolution failed")
	ErrNoMediaFound     = errors.New("no media found for reference")
	ErrNoPlayableAudio  = errors.New("no playable audio stream")
)

// InfoFetcher is the external lookup backend.
type InfoFetcher interface {
	FetchInfo(ctx context.Context, ref string) (*RawInfo, error)
}

type Resolver struct {
	backend InfoFetcher
	cache   cache.Store
}

func New(backend InfoFetcher, store cache.Store) *Resolver {
	return &Resolver{backend: backend, cache: store}
}

// CacheKey computes the stable cache key for a normalized reference.
func CacheKey(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Resolve returns trimmed stream metadata for a reference, served from cache
// when possible.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*StreamMetadata, error) {
	meta, _, err := r.resolve(ctx, ref, false)
	return meta, err
}

// ResolveFull always performs a live lookup and returns the raw backend info
// alongside the trimmed metadata.
func (r *Resolver) ResolveFull(ctx context.Context, ref string) (*StreamMetadata, *RawInfo, error) {
	return r.resolve(ctx, ref, true)
}

func (r *Resolver) resolve(ctx context.Context, ref string, fetchAll bool) (*StreamMetadata, *RawInfo, error) {
	ref = strings.TrimSpace(ref)
	key := CacheKey(ref)

	if !fetchAll && r.cache != nil {
		if cached, err := r.cache.Get(ctx, key); err == nil {
			var meta StreamMetadata
			if jerr := json.Unmarshal([]byte(cached), &meta); jerr == nil && meta.ID != "" {
				return &meta, nil, nil
			}
			// corrupt entry, fall through to live resolution
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Printf("[Resolver] Cache read failed, resolving live: %v", err)
		}
	}

	raw, err := r.backend.FetchInfo(ctx, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}
	if raw == nil || raw.ID == "" {
		return nil, nil, ErrNoMediaFound
	}

	chosen, family, err := pickBestAudio(raw.Formats)
	if err != nil {
		return nil, nil, err
	}
	if chosen.URL == "" {
		return nil, nil, ErrNoPlayableAudio
	}

	meta := &StreamMetadata{
		ID:        raw.ID,
		Title:     raw.Title,
		Thumbnail: raw.Thumbnail,
		URL:       canonicalWatchURL(raw.ID),
		AudioURL:  chosen.URL,
		Container: containerOf(chosen.MimeType),
		Itag:      chosen.ItagNo,
		Family:    family,
		Expiry:    expiryFromURL(chosen.URL),
		Duration:  raw.Duration,
	}

	r.writeCache(ctx, key, meta)

	if fetchAll {
		return meta, raw, nil
	}
	return meta, nil, nil
}

// writeCache is best-effort; failures are logged and forgotten.
func (r *Resolver) writeCache(ctx context.Context, key string, meta *StreamMetadata) {
	if r.cache == nil {
		return
	}

	ttl := defaultCacheTTL
	if !meta.Expiry.IsZero() {
		if d := time.Until(meta.Expiry); d > 0 {
			ttl = d
		}
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, string(data), ttl); err != nil {
		log.Printf("[Resolver] Cache write failed: %v", err)
	}
}

// expiryFromURL derives an absolute expiry from the signed stream URL's
// "expire" query parameter, minus the safety margin. Zero when absent.
func expiryFromURL(streamURL string) time.Time {
	u, err := url.Parse(streamURL)
	if err != nil {
		return time.Time{}
	}
	raw := u.Query().Get("expire")
	if raw == "" {
		return time.Time{}
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).Add(-expirySafetyMargin)
}

func canonicalWatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
