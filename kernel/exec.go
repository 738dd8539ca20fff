// Package kernel implements the cooperative real-time executive.
//
// Tasks live in a fixed arena of TasksMax records threaded onto three
// index-linked lists: free, pending-add and active. TaskAdd may be called
// from interrupt context; it moves one record from free to pending-add inside
// a short masked section. Every other list operation happens in the single
// foreground context that calls RunOnce.
//
// Each sweep merges pending tasks into the active list in priority order,
// decrements timers once per Tick, fires every task whose timer is zero, and
// finally reaps tasks flagged for removal.
package kernel

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"

	"ember/cpu"
	"ember/fault"
)

// TaskID indexes the task arena.
type TaskID uint8

const (
	// TasksMax is the arena size. It must not exceed 254.
	TasksMax = 32

	// EOL terminates the index-linked lists.
	EOL TaskID = 255

	// NotFound is returned by lookups that find no task. It is never a
	// valid id.
	NotFound TaskID = TasksMax + 1

	// NameCompareMax bounds the name comparison in TaskExists.
	NameCompareMax = 16
)

// Task priorities. Lower values run first; zero is illegal.
const (
	PriorityHighest         uint8 = 1
	PriorityADC             uint8 = 10  // sample processing before anything else
	PriorityReport          uint8 = 30  // reports before monitor output
	PriorityModuleTest      uint8 = 80
	PriorityNonCritical     uint8 = 128 // room above and below
	PriorityInstrumentation uint8 = 250 // after all other tasks
	PriorityLowest          uint8 = 255
)

// Values for the once argument of TaskAdd.
const (
	RunOnce    = true
	RunForever = false
)

// Task is the body of a scheduled task.
type Task interface {
	Run(id TaskID, param any)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(id TaskID, param any)

func (f TaskFunc) Run(id TaskID, param any) { f(id, param) }

type record struct {
	name     string
	interval uint16
	timer    uint16
	task     Task
	param    any
	priority uint8
	once     bool
	remove   bool
	next     TaskID
}

// Stats are running counters, readable from any context.
type Stats struct {
	Ticks    uint32 // Tick calls
	Sweeps   uint32 // RunOnce calls
	Fired    uint32 // task invocations
	Overruns uint32 // ticks tolerated while suspended with a sweep outstanding
}

// Executive is the task scheduler. The zero value is not usable; call New.
type Executive struct {
	tl [TasksMax]record

	activeHead TaskID
	addHead    TaskID
	freeHead   TaskID

	newTick       atomic.Bool
	suspended     atomic.Bool
	resumePending atomic.Bool

	ticks    atomic.Uint32
	sweeps   atomic.Uint32
	fired    atomic.Uint32
	overruns atomic.Uint32

	log  zerolog.Logger
	idle func()
}

// Option configures an Executive.
type Option func(*Executive)

// WithLogger sets the logger for list maintenance and suspend/resume events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executive) { e.log = l }
}

// WithIdle sets the function Run calls between sweeps. The default yields
// the processor.
func WithIdle(fn func()) Option {
	return func(e *Executive) { e.idle = fn }
}

// New returns an initialized executive.
func New(opts ...Option) *Executive {
	e := &Executive{
		log:  zerolog.Nop(),
		idle: runtime.Gosched,
	}
	for _, o := range opts {
		o(e)
	}
	e.Init()
	return e
}

// Init empties every list and returns all records to the free list. It must
// not race TaskAdd.
func (e *Executive) Init() {
	defer cpu.Lock().Unlock()
	e.newTick.Store(false)
	e.activeHead = EOL
	e.addHead = EOL
	e.freeHead = 0
	for i := range e.tl {
		e.tl[i] = record{next: TaskID(i + 1)}
	}
	e.tl[TasksMax-1].next = EOL
}

// TaskAdd schedules task and returns its id. The task first runs after delay
// ticks, or on the next sweep when delay is zero, and then every interval
// ticks; an interval of zero runs it on every sweep. A once task is removed
// after its first run.
//
// TaskAdd is safe to call from interrupt context. Adding more than TasksMax
// tasks is fatal.
func (e *Executive) TaskAdd(name string, priority uint8, delay, interval uint16, task Task, param any, once bool) TaskID {
	fault.Require(priority != 0, fault.ErrPriority, "task %q", name)
	id := e.claim(record{
		name:     name,
		interval: interval,
		timer:    delay,
		task:     task,
		param:    param,
		priority: priority,
		once:     once,
	})
	fault.Require(id != EOL, fault.ErrArenaFull, "%d tasks", TasksMax)
	return id
}

// claim pops a free record, fills it and pushes it onto the pending-add list.
func (e *Executive) claim(r record) TaskID {
	defer cpu.Lock().Unlock()
	id := e.freeHead
	if id == EOL {
		return EOL
	}
	e.freeHead = e.tl[id].next
	r.next = e.addHead
	e.tl[id] = r
	e.addHead = id
	return id
}

// TaskRemove flags id for removal at the end of the current sweep. It must
// only be called from foreground context, typically by the task removing
// itself. Removing from an empty active list is fatal.
func (e *Executive) TaskRemove(id TaskID) {
	fault.Require(e.activeHead != EOL, fault.ErrRemoveEmpty, "id %d", id)
	fault.Require(id < TasksMax, fault.ErrTaskID, "id %d", id)
	e.tl[id].remove = true
}

// TaskExists returns the id of the first active task whose name matches,
// or NotFound. Names are cut to NameCompareMax bytes and the cut names must
// be equal, unlike a prefix match: searching for "blin" or "blinker" does not
// find a task named "blink".
func (e *Executive) TaskExists(name string) TaskID {
	want := truncate(name)
	for id := e.activeHead; id != EOL; id = e.tl[id].next {
		if truncate(e.tl[id].name) == want {
			return id
		}
	}
	return NotFound
}

func truncate(s string) string {
	if len(s) > NameCompareMax {
		return s[:NameCompareMax]
	}
	return s
}

// Tick marks a new timer period. It is called from the tick interrupt.
// A tick that arrives before the previous one was consumed by a sweep is a
// fatal overrun unless the executive is suspended.
func (e *Executive) Tick() {
	e.ticks.Add(1)
	if e.suspended.Load() {
		if !e.newTick.CompareAndSwap(false, true) {
			e.overruns.Add(1)
		}
	} else {
		fault.Require(e.newTick.CompareAndSwap(false, true), fault.ErrTickOverrun, "tick %d", e.ticks.Load())
	}
	if e.resumePending.Load() {
		fault.Require(e.suspended.Load(), fault.ErrResumeState, "resume without suspend")
		e.resumePending.Store(false)
		e.suspended.Store(false)
	}
}

// Suspend stops overrun checking immediately, for work that may hold the
// processor across several ticks.
func (e *Executive) Suspend() {
	e.suspended.Store(true)
	e.log.Info().Msg("exec suspended")
}

// Resume re-enables overrun checking from the next Tick on.
func (e *Executive) Resume() {
	e.resumePending.Store(true)
	e.log.Info().Msg("exec resume pending")
}

// Suspended reports whether overrun checking is off.
func (e *Executive) Suspended() bool { return e.suspended.Load() }

// Stats returns a snapshot of the counters.
func (e *Executive) Stats() Stats {
	return Stats{
		Ticks:    e.ticks.Load(),
		Sweeps:   e.sweeps.Load(),
		Fired:    e.fired.Load(),
		Overruns: e.overruns.Load(),
	}
}

// RunOnce performs one sweep of the task list.
func (e *Executive) RunOnce() {
	e.sweeps.Add(1)
	e.merge()

	if e.newTick.Load() {
		for id := e.activeHead; id != EOL; id = e.tl[id].next {
			if e.tl[id].timer != 0 {
				e.tl[id].timer--
			}
		}
		e.newTick.Store(false)
	}

	for id := e.activeHead; id != EOL; id = e.tl[id].next {
		t := &e.tl[id]
		if t.timer != 0 {
			continue
		}
		t.timer = t.interval
		t.task.Run(id, t.param)
		e.fired.Add(1)
		if t.once {
			t.remove = true
		}
	}

	e.reap()
}

// RunForever sweeps the task list and never returns.
func (e *Executive) RunForever() {
	for {
		e.RunOnce()
	}
}

// Run sweeps the task list until ctx is done, calling the idle function
// between sweeps.
func (e *Executive) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		e.RunOnce()
		e.idle()
	}
}

func (e *Executive) popPending() TaskID {
	defer cpu.Lock().Unlock()
	id := e.addHead
	if id != EOL {
		e.addHead = e.tl[id].next
	}
	return id
}

// merge drains the pending-add stack into the active list. A task goes
// after every active task of equal or higher precedence.
func (e *Executive) merge() {
	for {
		id := e.popPending()
		if id == EOL {
			return
		}
		pri := e.tl[id].priority
		p := &e.activeHead
		for *p != EOL && pri >= e.tl[*p].priority {
			p = &e.tl[*p].next
		}
		e.tl[id].next = *p
		*p = id
		e.log.Debug().Uint8("id", uint8(id)).Str("task", e.tl[id].name).Uint8("priority", pri).Msg("task merged")
	}
}

func (e *Executive) pushFree(id TaskID) {
	defer cpu.Lock().Unlock()
	e.tl[id].next = e.freeHead
	e.freeHead = id
}

// reap unlinks flagged tasks from the active list and frees them.
func (e *Executive) reap() {
	p := &e.activeHead
	for *p != EOL {
		id := *p
		if !e.tl[id].remove {
			p = &e.tl[id].next
			continue
		}
		*p = e.tl[id].next
		name := e.tl[id].name
		e.tl[id].task = nil
		e.tl[id].param = nil
		e.pushFree(id)
		e.log.Debug().Uint8("id", uint8(id)).Str("task", name).Msg("task reaped")
	}
}
