package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// DefaultSpinnerInterval is the redraw period.
const DefaultSpinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated label with elapsed time while a request walks
// the provider chain. A nil *Spinner is a no-op.
type Spinner struct {
	writer   io.Writer
	interval time.Duration

	mu      sync.Mutex
	label   string
	started time.Time
	frame   int
	width   int
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{writer: w, interval: DefaultSpinnerInterval}
}

// Start begins drawing label. Starting a running spinner only changes the label.
func (s *Spinner) Start(label string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.label = label
	if s.stop != nil {
		return
	}
	s.started = time.Now()
	s.frame = 0
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.render()

	go s.loop(s.stop, s.done)
}

// Stop erases the spinner line. It is safe to call more than once.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", s.width))
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.render()
			s.mu.Unlock()
		}
	}
}

// render draws the current frame. Callers hold s.mu.
func (s *Spinner) render() {
	line := fmt.Sprintf("%s %s (%.1fs)", spinnerFrames[s.frame], s.label, time.Since(s.started).Seconds())
	pad := ""
	if n := len(line); n < s.width {
		pad = strings.Repeat(" ", s.width-n)
	} else {
		s.width = n
	}
	fmt.Fprintf(s.writer, "\r%s%s", line, pad)
}
