// Package notify delivers user-visible sync notices.
package notify

import (
	"sync"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/models"
)

// Sink receives notices. Implementations must not block the caller.
type Sink interface {
	Notify(n models.Notice)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(n models.Notice)

func (f SinkFunc) Notify(n models.Notice) { f(n) }

// LogSink writes every notice to the logger.
type LogSink struct {
	logger *logger.Logger
}

func NewLogSink(l *logger.Logger) *LogSink {
	return &LogSink{logger: l}
}

func (s *LogSink) Notify(n models.Notice) {
	event := s.logger.Info()
	if n.IsError() {
		event = s.logger.Warn()
	}

	event.Str("func", "LogSink.Notify").
		Str("kind", string(n.Kind)).
		Time("at", n.At).
		Msg(n.Message)
}

// FanOut forwards each notice to all of its sinks.
type FanOut []Sink

func (f FanOut) Notify(n models.Notice) {
	for _, s := range f {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Feed buffers notices for a single consumer such as the terminal UI.
// When the buffer is full the oldest notice is dropped.
type Feed struct {
	mu sync.Mutex
	ch chan models.Notice
}

// NewFeed returns a Feed holding up to size notices.
func NewFeed(size int) *Feed {
	if size < 1 {
		size = 1
	}
	return &Feed{ch: make(chan models.Notice, size)}
}

func (f *Feed) Notify(n models.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		select {
		case f.ch <- n:
			return
		default:
		}

		select {
		case <-f.ch:
		default:
		}
	}
}

// C returns the receive side of the feed.
func (f *Feed) C() <-chan models.Notice {
	return f.ch
}
