package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 80 * time.Millisecond

type stepState int

const (
	stepWaiting stepState = iota
	stepActive
	stepOK
	stepFailed
	stepSkipped
)

type step struct {
	name  string
	note  string
	state stepState
}

// Progress draws a list of steps that is redrawn in place while it is
// live. The final frame carries the title, the elapsed time and the
// note of each finished step.
type Progress struct {
	w     io.Writer
	title string

	mu    sync.Mutex
	steps []*step
	frame int
	drawn int
	began time.Time
	stop  chan struct{}
	done  chan struct{}
}

func NewProgress(w io.Writer, title string) *Progress {
	return &Progress{w: w, title: title, began: time.Now()}
}

// Add appends a waiting step and returns its index.
func (p *Progress) Add(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, &step{name: name})
	return len(p.steps) - 1
}

func (p *Progress) set(i int, state stepState, note string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.steps) {
		return
	}
	p.steps[i].state = state
	p.steps[i].note = note
}

// Do runs fn as step i. The string fn returns is shown next to the step
// once it has finished.
func (p *Progress) Do(i int, fn func() (string, error)) error {
	p.set(i, stepActive, "")
	note, err := fn()
	if err != nil {
		p.set(i, stepFailed, err.Error())
		return err
	}
	p.set(i, stepOK, note)
	return nil
}

func (p *Progress) Skip(i int, reason string) { p.set(i, stepSkipped, reason) }

func (p *Progress) Failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.steps {
		if s.state == stepFailed {
			return true
		}
	}
	return false
}

// Start animates the active steps until Stop.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return
	}
	p.began = time.Now()
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.animate(p.stop, p.done)
}

func (p *Progress) animate(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(frameInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			p.mu.Lock()
			p.frame = (p.frame + 1) % len(frames)
			p.redraw(false)
			p.mu.Unlock()
		}
	}
}

// Stop ends the animation and draws the final frame. It is safe to call
// without Start.
func (p *Progress) Stop() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop = nil
	p.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.redraw(true)
	p.drawn = 0
}

// redraw must be called with mu held.
func (p *Progress) redraw(final bool) {
	var b strings.Builder
	b.WriteString(strings.Repeat("\033[A\033[K", p.drawn))

	lines := 0
	if final && p.title != "" {
		elapsed := time.Since(p.began).Round(time.Millisecond)
		fmt.Fprintf(&b, "%s %s\n", Title.Render(p.title), Dim.Render("("+elapsed.String()+")"))
		lines++
	}
	for _, s := range p.steps {
		b.WriteString(p.line(s, final))
		b.WriteByte('\n')
		lines++
	}
	p.drawn = lines
	fmt.Fprint(p.w, b.String())
}

func (p *Progress) line(s *step, final bool) string {
	state := s.state
	if final && state == stepActive {
		state = stepWaiting
	}

	var mark, name, note string
	switch state {
	case stepWaiting:
		mark, name = Muted.Render("○"), StepPending.Render(s.name)
	case stepActive:
		mark, name = Secondary.Render(frames[p.frame]), StepRunning.Render(s.name)
	case stepOK:
		mark, name = GetCheckMark(), StepComplete.Render(s.name)
		if s.note != "" {
			note = Dim.Render("→ " + s.note)
		}
	case stepFailed:
		mark, name = GetCrossMark(), StepFailed.Render(s.name)
		if s.note != "" {
			note = Error.Render("→ " + s.note)
		}
	case stepSkipped:
		mark, name = Warning.Render("⊘"), StepSkipped.Render(s.name)
		if s.note != "" {
			note = Warning.Render("→ " + s.note)
		}
	}
	if note == "" {
		return mark + " " + name
	}
	return mark + " " + name + " " + note
}

// Spinner is a single untitled step. The final line replaces the
// message with the outcome.
type Spinner struct {
	p *Progress
	i int
}

func NewSpinner(w io.Writer, message string) *Spinner {
	p := NewProgress(w, "")
	i := p.Add(message)
	p.set(i, stepActive, "")
	return &Spinner{p: p, i: i}
}

func (s *Spinner) Start() { s.p.Start() }

func (s *Spinner) Stop(ok bool, message string) {
	state := stepOK
	if !ok {
		state = stepFailed
		message = Error.Render(message)
	}
	s.p.mu.Lock()
	s.p.steps[s.i].name = message
	s.p.steps[s.i].state = state
	s.p.mu.Unlock()
	s.p.Stop()
}
