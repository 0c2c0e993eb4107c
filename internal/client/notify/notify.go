// Package notify delivers short user-facing notices, the terminal version of
// toast messages.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console writes notices to w, one per line.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console { return &Console{w: w} }

func (c *Console) Success(msg string) { c.write("✔ ", msg) }

func (c *Console) Error(msg string) { c.write("✖ ", msg) }

func (c *Console) write(prefix, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, prefix+msg)
}

type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

type Notice struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notice in memory. Tests use it to count side effects.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Kind: k, Message: msg})
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Count returns how many notices carried msg.
func (r *Recorder) Count(msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.notices {
		if x.Message == msg {
			n++
		}
	}
	return n
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Success(string) {}

func (Discard) Error(string) {}
