package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// Spinner shows that a render or generate step is running. Frames are only
// drawn when stderr is a terminal; piped output sees just the final status
// line. The spinner stops early when its command context ends.
type Spinner struct {
	message string
	animate bool

	ctx      context.Context
	cancel   context.CancelFunc
	finished chan struct{} // closed when the drawing goroutine exits
	stopOnce sync.Once
	mu       sync.Mutex // guards writes to uiOut
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message:  message,
		animate:  isTerminal(os.Stderr),
		ctx:      ctx,
		cancel:   cancel,
		finished: make(chan struct{}),
	}
}

// Start launches the drawing goroutine. Call it once.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.finished)
	if !s.animate {
		<-s.ctx.Done()
		return
	}
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.draw(fmt.Sprintf("\r%s %s",
				styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]),
				StyleDim.Render(s.message)))
		}
	}
}

func (s *Spinner) draw(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(uiOut, line)
}

// Stop halts the spinner and blanks its line. It is safe to call more than
// once, and after the context was cancelled.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.finished
		if s.animate {
			s.draw("\r" + strings.Repeat(" ", len(s.message)+4) + "\r")
		}
	})
}

// StopWithSuccess stops the spinner and prints message as a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints message as an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context has ended, either through
// Stop or because the command was interrupted.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
