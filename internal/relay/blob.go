package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"cipherchat/internal/domain"
)

// ErrForeignBlobURL is returned by Get for references that do not name a blob
// on the configured relay.
var ErrForeignBlobURL = errors.New("blob url does not point at the relay")

// DefaultMaxFetchBytes caps how much HTTPBlobStore.Get reads.
const DefaultMaxFetchBytes = 32 << 20

// HTTPBlobStore is the client side of the relay's blob endpoints.
type HTTPBlobStore struct {
	Base     string
	HTTP     *http.Client
	MaxFetch int64
}

// NewHTTPBlobStore targets the relay at base (http://host:port). A nil client
// selects http.DefaultClient.
func NewHTTPBlobStore(base string, hc *http.Client) *HTTPBlobStore {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPBlobStore{Base: base, HTTP: hc, MaxFetch: DefaultMaxFetchBytes}
}

// Put uploads data and returns the URL path the relay assigned.
func (b *HTTPBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	u, err := b.resolve("/blobs")
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := b.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("relay post %s: %s", u, resp.Status)
	}
	var out blobResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode blob response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("relay post %s: empty url", u)
	}
	return out.URL, nil
}

// Get downloads the blob at ref, which may be relative to Base. Only
// /blobs/<uuid> on Base's own scheme and host is fetched.
func (b *HTTPBlobStore) Get(ctx context.Context, ref string) ([]byte, error) {
	u, err := b.blobURL(ref)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("relay get %s: %s", u, resp.Status)
	}

	limit := b.MaxFetch
	if limit <= 0 {
		limit = DefaultMaxFetchBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("relay get %s: blob larger than %d bytes", u, limit)
	}
	return data, nil
}

func (b *HTTPBlobStore) resolve(ref string) (string, error) {
	base, err := url.Parse(b.Base)
	if err != nil {
		return "", fmt.Errorf("relay url: %w", err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("blob url: %w", err)
	}
	return base.ResolveReference(r).String(), nil
}

func (b *HTTPBlobStore) blobURL(ref string) (string, error) {
	u, err := b.resolve(ref)
	if err != nil {
		return "", err
	}
	base, _ := url.Parse(b.Base)
	got, _ := url.Parse(u)
	if got.Scheme != base.Scheme || got.Host != base.Host || got.User != nil {
		return "", fmt.Errorf("%w: %s", ErrForeignBlobURL, ref)
	}
	id, ok := strings.CutPrefix(got.Path, "/blobs/")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrForeignBlobURL, ref)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %s", ErrForeignBlobURL, ref)
	}
	got.RawQuery, got.Fragment = "", ""
	return got.String(), nil
}

var _ domain.BlobStore = (*HTTPBlobStore)(nil)
