package status

import "sync"

// Channel is an unbounded in-process FIFO between one producer and one
// consumer. Send never blocks, so a slow presenter cannot stall the
// pipeline. The stream closes after the first terminal event; later sends
// are dropped.
type Channel struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool
}

func NewChannel() *Channel {
	c := &Channel{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *Channel) Send(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.queue = append(c.queue, e)
	if e.Kind().Terminal() {
		c.closed = true
	}
	c.cond.Signal()
}

// Close ends the stream without a terminal event. Queued events are still
// delivered.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cond.Broadcast()
}

func (c *Channel) Recv() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.queue) == 0 && !c.closed {
		c.cond.Wait()
	}
	if len(c.queue) == 0 {
		return nil, false
	}
	e := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	return e, true
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Send(e Event) { f(e) }

// Recorder is a Sink that keeps every event. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Send(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Kinds() []Kind {
	events := r.Events()
	kinds := make([]Kind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind()
	}
	return kinds
}
