package session

import (
	"context"
	"sync"
	"time"

	"mermaid-live/internal/tui/state"
)

// Session is a headless editor: one goroutine owns the EditorState, applies
// events to it in order and runs the resulting effects. Async results come
// back as events on the same queue, so the state is never shared.
type Session struct {
	reducer state.Reducer
	exec    *Executor
	events  chan state.Event

	// OnChange is called on the loop goroutine after every event that
	// changed the state. It must not block for long.
	OnChange func(prev, next state.EditorState)

	initial state.EditorState
	done    chan struct{}
	wg      sync.WaitGroup
}

// New returns a session starting from initial. Call Run to start it.
func New(reducer state.Reducer, exec *Executor, initial state.EditorState) *Session {
	return &Session{
		reducer: reducer,
		exec:    exec,
		events:  make(chan state.Event, 64),
		initial: initial,
		done:    make(chan struct{}),
	}
}

// Post queues an event. It never blocks once the session has stopped.
func (s *Session) Post(ev state.Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Run processes events until ctx is cancelled and returns the final state.
// In-flight renders are cancelled with ctx and their results dropped.
func (s *Session) Run(ctx context.Context) state.EditorState {
	cur := s.initial
	var debounce, expiry *time.Timer
	defer func() {
		stop(debounce)
		stop(expiry)
		close(s.done)
		s.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return cur
		case ev := <-s.events:
			next, effs := s.reducer.Apply(cur, ev)
			if next != cur && s.OnChange != nil {
				s.OnChange(cur, next)
			}
			cur = next
			for _, eff := range effs {
				switch e := eff.(type) {
				case state.ScheduleDebounce:
					// A newer edit replaces the pending timer; the Seq check
					// in the reducer covers timers that already fired.
					stop(debounce)
					debounce = s.after(e.After, state.DebounceElapsed{Seq: e.Seq})
				case state.ScheduleStatusExpiry:
					stop(expiry)
					expiry = s.after(e.After, state.StatusExpired{Seq: e.Seq})
				default:
					s.perform(ctx, eff)
				}
			}
		}
	}
}

func (s *Session) after(d time.Duration, ev state.Event) *time.Timer {
	return time.AfterFunc(d, func() { s.Post(ev) })
}

func (s *Session) perform(ctx context.Context, eff state.Effect) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if ev := s.exec.Perform(ctx, eff); ev != nil {
			s.Post(ev)
		}
	}()
}

func stop(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
