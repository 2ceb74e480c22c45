package app_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherchat/internal/app"
	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/relay"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CIPHERCHAT_USERNAME", "alice")
	t.Setenv("CIPHERCHAT_BLOB_THRESHOLD", "4096")

	v := app.NewViper(app.ClientConfigName, app.ClientEnvPrefix)
	app.SetClientDefaults(v)
	cfg, err := app.LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.RelayURL)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, crypto.DefaultRSABits, cfg.KeyBits)
	assert.Equal(t, 4096, cfg.BlobThreshold)
	assert.EqualValues(t, relay.DefaultMaxFrameBytes, cfg.MaxFrameBytes)
}

func TestConfig_Validate(t *testing.T) {
	ok := app.Config{RelayURL: "http://relay:8080", KeyBits: 2048}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.KeyBits = 512
	require.ErrorIs(t, bad.Validate(), crypto.ErrKeySize)

	bad = ok
	bad.RelayURL = "ftp://relay"
	require.Error(t, bad.Validate())

	bad = ok
	bad.BlobThreshold = -1
	require.Error(t, bad.Validate())

	bad = ok
	bad.MaxFrameBytes = -1
	require.Error(t, bad.Validate())
}

func TestLoadRelayConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CIPHERCHAT_RELAY_LISTEN", "127.0.0.1:9999")

	v := app.NewViper(app.RelayConfigName, app.RelayEnvPrefix)
	app.SetRelayDefaults(v)
	cfg, err := app.LoadRelayConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, "uploads", cfg.BlobDir)
}

type nopRenderer struct{}

func (nopRenderer) Render(domain.RenderedMessage) {}
func (nopRenderer) Notice(string)                 {}

func TestNewWire_AgainstRelay(t *testing.T) {
	r, err := app.NewRelay(app.RelayConfig{
		Listen:        "127.0.0.1:0",
		BlobDir:       filepath.Join(t.TempDir(), "blobs"),
		MaxBlobBytes:  1 << 20,
		MaxFrameBytes: 1 << 20,
	}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(r.Server.Handler)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	w, err := app.NewWire(ctx, app.Config{RelayURL: ts.URL, KeyBits: crypto.MinRSABits, HTTP: ts.Client()}, nopRenderer{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	_, err = w.Session.Join(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StateJoinedUnkeyed, w.Session.State())

	url, err := w.Blobs.Put(ctx, []byte("ciphertext"))
	require.NoError(t, err)
	got, err := w.Blobs.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext"), got)
}

type imageSink struct {
	mu     sync.Mutex
	images [][]byte
}

func (s *imageSink) Render(m domain.RenderedMessage) {
	if m.Origin != domain.OriginOther || m.Type != domain.EnvelopeImage {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append(s.images, m.Image)
}

func (*imageSink) Notice(string) {}

func TestNewWire_LargeImageFitsRelayFrame(t *testing.T) {
	const frameLimit = 8 << 10
	r, err := app.NewRelay(app.RelayConfig{
		Listen:        "127.0.0.1:0",
		BlobDir:       filepath.Join(t.TempDir(), "blobs"),
		MaxBlobBytes:  1 << 20,
		MaxFrameBytes: frameLimit,
	}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(r.Server.Handler)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cfg := app.Config{RelayURL: ts.URL, KeyBits: crypto.MinRSABits, MaxFrameBytes: frameLimit, HTTP: ts.Client()}

	alice, err := app.NewWire(ctx, cfg, nopRenderer{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = alice.Close() })
	sink := &imageSink{}
	bob, err := app.NewWire(ctx, cfg, sink, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bob.Close() })

	bobPEM, err := bob.Session.Join(ctx, "bob")
	require.NoError(t, err)
	alicePEM, err := alice.Session.Join(ctx, "alice")
	require.NoError(t, err)
	_, err = alice.Session.SetPeerKey(bobPEM.String())
	require.NoError(t, err)
	_, err = bob.Session.SetPeerKey(alicePEM.String())
	require.NoError(t, err)

	img := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x5a}, 16<<10)...)
	require.NoError(t, alice.Session.SendImage(ctx, img))

	// Bob sees alice's join, then the image.
	for i := 0; i < 2; i++ {
		select {
		case f, ok := <-bob.Relay.Frames():
			require.True(t, ok, "bob's connection closed")
			require.NoError(t, bob.Session.HandleFrame(ctx, f))
		case <-ctx.Done():
			t.Fatal("timed out waiting for frame")
		}
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.images, 1)
	assert.Equal(t, img, sink.images[0])
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
