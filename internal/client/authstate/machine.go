// Package authstate tracks the progress of the current authentication
// operation for the UI.
//
// A Machine moves Idle → Pending → Succeeded | Failed. Only one operation
// can be in flight: Dispatch while Pending is ignored, which is what stops
// a double-clicked "Log in" from submitting twice. Reset returns to Idle
// from any phase without touching the session.
package authstate

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
)

type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a Machine.
type State struct {
	Phase Phase
	// Operation is the name of the last dispatched operation.
	Operation string
	// Error is the failure message, set only in the Failed phase.
	Error   string
	Session *models.Session
}

// Succeeded reports whether the last operation finished successfully.
func (s State) Succeeded() bool { return s.Phase == Succeeded }

// LoggedIn reports whether a session is held.
func (s State) LoggedIn() bool { return s.Session != nil }

// Operation is one auth call. Run's session result replaces the machine's
// session on success; logout returns (nil, nil).
type Operation struct {
	Name string
	Run  func(ctx context.Context) (*models.Session, error)
}

type Machine struct {
	mu    sync.Mutex
	state State
	// generation is bumped by Reset so results of operations that were
	// reset away do not resurrect the phase
	generation uint64

	subs   map[int]chan State
	nextID int
	wg     sync.WaitGroup
}

// New creates an Idle machine holding the session restored from storage
// (nil when logged out).
func New(current *models.Session) *Machine {
	return &Machine{
		state: State{Phase: Idle, Session: current},
		subs:  make(map[int]chan State),
	}
}

// State returns the current snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch starts op unless another operation is Pending, in which case it
// returns false and changes nothing. op runs on its own goroutine with a
// context that keeps ctx values but is never cancelled.
func (m *Machine) Dispatch(ctx context.Context, op Operation) bool {
	m.mu.Lock()
	if m.state.Phase == Pending {
		m.mu.Unlock()
		return false
	}
	m.state = State{Phase: Pending, Operation: op.Name, Session: m.state.Session}
	gen := m.generation
	m.publishLocked()
	m.wg.Add(1)
	m.mu.Unlock()

	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer m.wg.Done()
		session, err := op.Run(runCtx)
		m.resolve(gen, session, err)
	}()
	return true
}

func (m *Machine) resolve(gen uint64, session *models.Session, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		// reset while in flight: the store already changed, the phase did not
		if err == nil {
			m.state.Session = session
			m.publishLocked()
		}
		return
	}

	if err != nil {
		m.state.Phase = Failed
		m.state.Error = err.Error()
	} else {
		m.state.Phase = Succeeded
		m.state.Error = ""
		m.state.Session = session
	}
	m.publishLocked()
}

// Reset moves to Idle and clears the error. The session is kept.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.state.Phase = Idle
	m.state.Error = ""
	m.publishLocked()
}

// Subscribe returns a channel that always holds the latest state (older
// undelivered states are dropped) and a func that unsubscribes and closes
// the channel. The current state is delivered immediately.
func (m *Machine) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan State, 1)
	ch <- m.state
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
}

func (m *Machine) publishLocked() {
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- m.state
	}
}

// Await blocks until the machine is not Pending and returns that state, or
// returns ctx.Err() if ctx ends first.
func (m *Machine) Await(ctx context.Context) (State, error) {
	ch, cancel := m.Subscribe()
	defer cancel()

	for {
		select {
		case s := <-ch:
			if s.Phase != Pending {
				return s, nil
			}
		case <-ctx.Done():
			return m.State(), ctx.Err()
		}
	}
}

// Wait blocks until every dispatched operation has returned.
func (m *Machine) Wait() {
	m.wg.Wait()
}
