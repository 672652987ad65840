package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyraxo/haru/internal/cache"
)

type fakeFetcher struct {
	info  *RawInfo
	err   error
	calls int
}

func (f *fakeFetcher) FetchInfo(ctx context.Context, ref string) (*RawInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

type fakeCache struct {
	entries map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value
	f.ttls[key] = ttl
	return nil
}

func rawInfoFixture(streamURL string) *RawInfo {
	return &RawInfo{
		ID:       "dQw4w9WgXcQ",
		Title:    "Test Track",
		Duration: 212,
		Formats: []Format{
			{ItagNo: 251, MimeType: "audio/webm; codecs=opus", Bitrate: 160, AudioChannels: 2, URL: streamURL},
		},
	}
}

func TestResolveLiveSuccess(t *testing.T) {
	expireAt := time.Now().Add(6 * time.Hour).Unix()
	streamURL := fmt.Sprintf("https://cdn.example.com/audio?expire=%d&sig=abc", expireAt)
	fetcher := &fakeFetcher{info: rawInfoFixture(streamURL)}

	r := New(fetcher, nil)
	meta, err := r.Resolve(context.Background(), "  dQw4w9WgXcQ  ")
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	assert.Equal(t, "Test Track", meta.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", meta.URL)
	assert.Equal(t, streamURL, meta.AudioURL)
	assert.Equal(t, FamilyWebm, meta.Family)
	assert.Equal(t, "webm", meta.Container)
	assert.Equal(t, 212, meta.Duration)

	// Expiry is the URL's expire param minus the safety margin.
	want := time.Unix(expireAt, 0).Add(-expirySafetyMargin)
	assert.True(t, meta.Expiry.Equal(want))
	assert.False(t, meta.Expired())
}

func TestResolveCacheHitSkipsBackend(t *testing.T) {
	fetcher := &fakeFetcher{info: rawInfoFixture("https://cdn.example.com/audio")}
	store := newFakeCache()

	cached := StreamMetadata{ID: "cached-id", Title: "Cached", AudioURL: "https://cdn.example.com/cached"}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	store.entries[CacheKey("some-ref")] = string(data)

	r := New(fetcher, store)
	meta, err := r.Resolve(context.Background(), "some-ref")
	require.NoError(t, err)

	assert.Equal(t, "cached-id", meta.ID)
	assert.Equal(t, 0, fetcher.calls)
}

func TestResolveCacheErrorFallsBackToLive(t *testing.T) {
	fetcher := &fakeFetcher{info: rawInfoFixture("https://cdn.example.com/audio")}
	store := newFakeCache()
	store.getErr = errors.New("connection refused")

	r := New(fetcher, store)
	meta, err := r.Resolve(context.Background(), "some-ref")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	assert.Equal(t, 1, fetcher.calls)
}

func TestResolveCorruptCacheEntryFallsBackToLive(t *testing.T) {
	fetcher := &fakeFetcher{info: rawInfoFixture("https://cdn.example.com/audio")}
	store := newFakeCache()
	store.entries[CacheKey("some-ref")] = "{not json"

	r := New(fetcher, store)
	meta, err := r.Resolve(context.Background(), "some-ref")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	assert.Equal(t, 1, fetcher.calls)
}

func TestResolveBackendError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}

	r := New(fetcher, nil)
	_, err := r.Resolve(context.Background(), "some-ref")
	assert.ErrorIs(t, err, ErrResolutionFailed)
}

func TestResolveEmptyID(t *testing.T) {
	fetcher := &fakeFetcher{info: &RawInfo{}}

	r := New(fetcher, nil)
	_, err := r.Resolve(context.Background(), "some-ref")
	assert.ErrorIs(t, err, ErrNoMediaFound)
}

func TestResolveNoPlayableURL(t *testing.T) {
	info := rawInfoFixture("")
	fetcher := &fakeFetcher{info: info}

	r := New(fetcher, nil)
	_, err := r.Resolve(context.Background(), "some-ref")
	assert.ErrorIs(t, err, ErrNoPlayableAudio)
}

func TestResolveWritesCacheWithExpiryTTL(t *testing.T) {
	expireAt := time.Now().Add(6 * time.Hour).Unix()
	streamURL := fmt.Sprintf("https://cdn.example.com/audio?expire=%d", expireAt)
	fetcher := &fakeFetcher{info: rawInfoFixture(streamURL)}
	store := newFakeCache()

	r := New(fetcher, store)
	_, err := r.Resolve(context.Background(), "some-ref")
	require.NoError(t, err)

	key := CacheKey("some-ref")
	require.Contains(t, store.entries, key)

	// TTL tracks the stream expiry, not the default window.
	ttl := store.ttls[key]
	assert.Greater(t, ttl, 4*time.Hour)
	assert.LessOrEqual(t, ttl, 6*time.Hour)

	var meta StreamMetadata
	require.NoError(t, json.Unmarshal([]byte(store.entries[key]), &meta))
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
}

func TestResolveDefaultTTLWithoutExpiry(t *testing.T) {
	fetcher := &fakeFetcher{info: rawInfoFixture("https://cdn.example.com/audio")}
	store := newFakeCache()

	r := New(fetcher, store)
	meta, err := r.Resolve(context.Background(), "some-ref")
	require.NoError(t, err)

	assert.True(t, meta.Expiry.IsZero())
	assert.False(t, meta.Expired())
	assert.Equal(t, defaultCacheTTL, store.ttls[CacheKey("some-ref")])
}

func TestResolveFullBypassesCache(t *testing.T) {
	fetcher := &fakeFetcher{info: rawInfoFixture("https://cdn.example.com/audio")}
	store := newFakeCache()

	cached := StreamMetadata{ID: "cached-id", AudioURL: "x"}
	data, _ := json.Marshal(cached)
	store.entries[CacheKey("some-ref")] = string(data)

	r := New(fetcher, store)
	meta, raw, err := r.ResolveFull(context.Background(), "some-ref")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	require.NotNil(t, raw)
	assert.Equal(t, "Test Track", raw.Title)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCacheKeyStable(t *testing.T) {
	k1 := CacheKey("https://www.youtube.com/watch?v=abc")
	k2 := CacheKey("https://www.youtube.com/watch?v=abc")
	k3 := CacheKey("https://www.youtube.com/watch?v=def")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "haru:track:")
	assert.Len(t, k1, len("haru:track:")+64)
}

func TestExpiryFromURL(t *testing.T) {
	assert.True(t, expiryFromURL("https://cdn.example.com/audio").IsZero())
	assert.True(t, expiryFromURL("https://cdn.example.com/audio?expire=notanumber").IsZero())

	got := expiryFromURL("https://cdn.example.com/audio?expire=1700000000")
	want := time.Unix(1700000000, 0).Add(-expirySafetyMargin)
	assert.True(t, got.Equal(want))
}
