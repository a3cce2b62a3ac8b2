package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/idlab-discover/neckgen-cli/internal/engine"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

var ErrStopped = errors.New("orchestrator loop stopped")

// Timer is a pending callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks; tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock schedules callbacks with time.AfterFunc.
func RealClock() Clock { return realClock{} }

// Snapshot is a read-only view of the machine after an event.
type Snapshot struct {
	State        State
	Values       registry.ValueSet
	Derived      map[registry.Key]engine.DerivedValue
	CoreMetrics  map[registry.Key]engine.DerivedValue
	Messages     []Message
	Warnings     []string
	Views        map[string]string
	Calculations int
	Dropped      int
}

func snapshot(m *Machine) Snapshot {
	return Snapshot{
		State:        m.State(),
		Values:       m.Values(),
		Derived:      m.Derived(),
		CoreMetrics:  m.CoreMetrics(),
		Messages:     m.Messages(),
		Warnings:     m.Warnings(),
		Views:        m.Views(),
		Calculations: m.Calculations(),
		Dropped:      m.Dropped(),
	}
}

// Loop drives a Machine from a single goroutine. Edits, timer callbacks and
// calculation completions are all serialised through one channel, so the
// machine is only ever touched by the loop.
type Loop struct {
	m     *Machine
	calc  engine.Calculator
	clock Clock

	// OnChange, if set, receives a snapshot after every processed event.
	// It runs on the loop goroutine and must not block for long.
	OnChange func(Snapshot)
	// Timeout bounds each calculation call; zero means none.
	Timeout time.Duration

	events   chan func()
	done     chan struct{}
	stopOnce sync.Once

	recompute Timer
	dismiss   Timer
	ctx       context.Context
}

func NewLoop(m *Machine, calc engine.Calculator, clock Clock) *Loop {
	if clock == nil {
		clock = RealClock()
	}
	return &Loop{
		m:      m,
		calc:   calc,
		clock:  clock,
		events: make(chan func(), 64),
		done:   make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.ctx = ctx
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.events:
			f()
			if l.OnChange != nil {
				l.OnChange(snapshot(l.m))
			}
		}
	}
}

func (l *Loop) stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		if l.recompute != nil {
			l.recompute.Stop()
		}
		if l.dismiss != nil {
			l.dismiss.Stop()
		}
	})
}

// post queues f for the loop goroutine.
func (l *Loop) post(f func()) bool {
	select {
	case l.events <- f:
		return true
	case <-l.done:
		return false
	}
}

// call runs f on the loop goroutine and waits for it.
func (l *Loop) call(f func() error) error {
	errc := make(chan error, 1)
	if !l.post(func() { errc <- f() }) {
		return ErrStopped
	}
	select {
	case err := <-errc:
		return err
	case <-l.done:
		return ErrStopped
	}
}

// Edit applies a user edit.
func (l *Loop) Edit(key registry.Key, value any) error {
	return l.call(func() error {
		effects, err := l.m.Edit(key, value)
		if err != nil {
			return err
		}
		l.run(effects)
		return nil
	})
}

// Load replaces all values.
func (l *Loop) Load(values registry.ValueSet) error {
	return l.call(func() error {
		l.run(l.m.Load(values))
		return nil
	})
}

// Snapshot returns the current machine state.
func (l *Loop) Snapshot() (Snapshot, error) {
	var s Snapshot
	err := l.call(func() error {
		s = snapshot(l.m)
		return nil
	})
	return s, err
}

// Do runs f against the machine on the loop goroutine.
func (l *Loop) Do(f func(m *Machine)) error {
	return l.call(func() error {
		f(l.m)
		return nil
	})
}

// run executes effects. Timer and calculation callbacks re-enter the loop
// through post.
func (l *Loop) run(effects []Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case ScheduleRecompute:
			if l.recompute != nil {
				l.recompute.Stop()
			}
			l.recompute = l.clock.AfterFunc(e.Delay, func() {
				l.post(func() { l.run(l.m.TimerFired(e.Token)) })
			})
		case ScheduleDismiss:
			if l.dismiss != nil {
				l.dismiss.Stop()
			}
			l.dismiss = l.clock.AfterFunc(e.Delay, func() {
				l.post(func() { l.m.DismissValidation(e.Token) })
			})
		case StartCalculation:
			go l.calculate(e.Request)
		}
	}
}

func (l *Loop) calculate(req engine.Request) {
	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	res, err := SafeCalculate(ctx, l.calc, req)
	l.post(func() { l.run(l.m.CalculationDone(req.ID, res, err)) })
}

// SafeCalculate runs c and turns an engine panic into an error for that
// request only.
func SafeCalculate(ctx context.Context, c engine.Calculator, req engine.Request) (res *engine.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("engine panic: %v", r)
		}
	}()
	return c.Calculate(ctx, req)
}
