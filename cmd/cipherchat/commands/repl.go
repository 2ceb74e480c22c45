package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"cipherchat/internal/services/chat"
)

const helpText = `Commands:
  /join <name>    join the conversation
  /key            paste the peer's public key (end with its -----END line)
  /image <path>   send an image file
  /fingerprint    show key fingerprints
  /help           show this help
  /exit           leave and discard keys
Anything else is sent as a message.`

// repl turns terminal input into session events.
type repl struct {
	sc       *bufio.Scanner
	out      io.Writer
	readFile func(string) ([]byte, error)
	status   func() string
}

// feed sends events until input ends or ctx is done. Closing events tells
// the session to exit.
func (r *repl) feed(ctx context.Context, username string, events chan<- chat.Event) {
	defer close(events)
	send := func(ev chat.Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	if strings.TrimSpace(username) != "" && !send(chat.JoinEvent{Username: username}) {
		return
	}
	for {
		ev, ok := r.next()
		if !ok || !send(ev) {
			return
		}
		if _, exit := ev.(chat.ExitEvent); exit {
			return
		}
	}
}

// next reads lines until one produces an event. Local commands are answered
// on out directly. It returns false at end of input.
func (r *repl) next() (chat.Event, bool) {
	for r.sc.Scan() {
		line := r.sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "/") {
			return chat.TextEvent{Text: trimmed}, true
		}

		name, arg, _ := strings.Cut(trimmed, " ")
		arg = strings.TrimSpace(arg)
		switch name {
		case "/join":
			if arg == "" {
				fmt.Fprintln(r.out, "usage: /join <name>")
				continue
			}
			return chat.JoinEvent{Username: arg}, true
		case "/key":
			pem, ok := r.readPEM(arg)
			if !ok {
				return nil, false
			}
			return chat.PeerKeyEvent{PEM: pem}, true
		case "/image":
			if arg == "" {
				fmt.Fprintln(r.out, "usage: /image <path>")
				continue
			}
			data, err := r.readFile(arg)
			if err != nil {
				fmt.Fprintf(r.out, "cannot read image: %v\n", err)
				continue
			}
			return chat.ImageEvent{Data: data}, true
		case "/fingerprint":
			fmt.Fprintln(r.out, r.status())
		case "/help":
			fmt.Fprintln(r.out, helpText)
		case "/exit", "/quit":
			return chat.ExitEvent{}, true
		default:
			fmt.Fprintf(r.out, "unknown command %s (try /help)\n", name)
		}
	}
	return nil, false
}

// readPEM collects a pasted key up to and including its END line. first is
// whatever followed /key on the same line.
func (r *repl) readPEM(first string) (string, bool) {
	var b strings.Builder
	add := func(line string) bool {
		b.WriteString(line)
		b.WriteByte('\n')
		return strings.HasPrefix(strings.TrimSpace(line), "-----END ")
	}
	if first != "" && add(first) {
		return b.String(), true
	}
	fmt.Fprintln(r.out, "Paste the peer's public key, ending with its -----END line:")
	for r.sc.Scan() {
		if add(r.sc.Text()) {
			return b.String(), true
		}
	}
	return "", false
}
