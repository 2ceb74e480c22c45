package commands

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cipherchat/internal/domain"
)

// terminal renders chat output as lines of text. Received images are saved
// to files and their paths printed.
type terminal struct {
	mu       sync.Mutex
	w        io.Writer
	imageDir string
}

func newTerminal(w io.Writer, imageDir string) *terminal {
	if imageDir == "" {
		imageDir = filepath.Join(os.TempDir(), "cipherchat")
	}
	return &terminal{w: w, imageDir: imageDir}
}

// Write lets the REPL share the terminal without interleaving lines.
func (t *terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Write(p)
}

func (t *terminal) Notice(text string) {
	fmt.Fprintf(t, "** %s\n", text)
}

func (t *terminal) Render(m domain.RenderedMessage) {
	if m.Origin == domain.OriginUpdate {
		fmt.Fprintf(t, "-- %s\n", m.Text)
		return
	}

	who := m.Username.String()
	if m.Origin == domain.OriginMine {
		who = "You"
	}
	tag := ""
	if !m.Verified {
		tag = " [unverified]"
	}

	if m.Type != domain.EnvelopeImage {
		fmt.Fprintf(t, "%s%s: %s\n", who, tag, m.Text)
		return
	}
	if m.Origin == domain.OriginMine {
		fmt.Fprintf(t, "%s sent an image (%s, %d bytes)\n", who, m.MIMEType, len(m.Image))
		return
	}
	path, err := t.saveImage(m)
	if err != nil {
		fmt.Fprintf(t, "%s%s sent an image (%s) that could not be saved: %v\n", who, tag, m.MIMEType, err)
		return
	}
	fmt.Fprintf(t, "%s%s sent an image (%s): %s\n", who, tag, m.MIMEType, path)
}

func (t *terminal) saveImage(m domain.RenderedMessage) (string, error) {
	if err := os.MkdirAll(t.imageDir, 0o700); err != nil {
		return "", err
	}
	ext := ".bin"
	if exts, _ := mime.ExtensionsByType(m.MIMEType); len(exts) > 0 {
		ext = exts[0]
	}
	name := fmt.Sprintf("%s-%d%s", safeName(m.Username.String()), time.Now().UnixNano(), ext)
	path := filepath.Join(t.imageDir, name)
	if err := os.WriteFile(path, m.Image, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// safeName keeps letters, digits, dash and underscore from a username.
func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "peer"
	}
	return s
}
