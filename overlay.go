package hgraph

// Overlay is the modification-time and subscriber bookkeeping attached to
// every time-series position, kept separate from the Value bytes it
// describes exactly as the teacher keeps ComponentStore's bytes separate from
// basicScheduler's tick/notify discipline (storage_provider.go vs
// scheduler_impl.go).
type Overlay struct {
	lastModified EngineTime
	parent       *Overlay

	subscribers []Subscriber
	pendingSubs *Pending[subscriberEdit]

	delta Delta // nil for scalar/reference positions
}

// Subscriber is notified when the overlay it is attached to advances past a
// cycle boundary. Implemented by TSLink (C5).
type Subscriber interface {
	Notify(t EngineTime)
}

type subscriberEdit struct {
	add bool
	sub Subscriber
}

// NewOverlay constructs an overlay with no modification history, optionally
// rooted under parent (nil for a graph's root positions).
func NewOverlay(parent *Overlay) *Overlay {
	return &Overlay{lastModified: MinEngineTime, parent: parent}
}

// SetDelta attaches a delta tracker; called once at arena-build time for
// set/map/list/bundle positions.
func (o *Overlay) SetDelta(d Delta) { o.delta = d }

// DeltaTracker returns the attached delta tracker, or nil for scalar and
// reference positions.
func (o *Overlay) DeltaTracker() Delta { return o.delta }

// ModifiedAt reports whether this overlay last changed exactly at t.
func (o *Overlay) ModifiedAt(t EngineTime) bool { return o.lastModified == t }

// Valid reports whether this overlay has ever been modified.
func (o *Overlay) Valid() bool { return o.lastModified != MinEngineTime }

// LastModifiedTime returns the overlay's last modification stamp.
func (o *Overlay) LastModifiedTime() EngineTime { return o.lastModified }

// MarkModified stamps this overlay at t, bubbles the stamp up through every
// ancestor overlay (max, per spec.md §4.3), and fans the notification out to
// subscribers at every position touched — this overlay and any ancestor that
// was not already stamped at t this cycle. A subscriber bound to a bundle's
// whole position (elementIndex -1) is subscribed to the bundle's own
// overlay, not any one field's, so it only ever fires through this ancestor
// path; the `p.lastModified == t` guard that stops the climb also stops the
// ancestor from being notified twice when two fields change in the same
// cycle (spec.md §8 S6's "exactly one notification"). Fan-out itself iterates
// safely over concurrent subscribe/unsubscribe by draining edits queued
// during the previous iteration before starting a new one, and buffering
// edits raised mid-iteration into pendingSubs — the same buffer-during-
// iterate discipline as the teacher's CommandBuffer (command_buffer.go),
// generalized by Pending[T].
func (o *Overlay) MarkModified(t EngineTime) {
	o.lastModified = t
	o.notify(t)
	for p := o.parent; p != nil; p = p.parent {
		if p.lastModified == t {
			break
		}
		p.lastModified = t
		p.notify(t)
	}
}

// Invalidate resets the modification stamp to MinEngineTime. Legal only on
// positions that are not aggregate roots with live children — callers in
// view.go enforce that precondition.
func (o *Overlay) Invalidate() { o.lastModified = MinEngineTime }

// Subscribe adds sub to this overlay's notification list. Safe to call while
// MarkModified is mid-fan-out: the edit buffers and applies once that
// fan-out completes.
func (o *Overlay) Subscribe(sub Subscriber) {
	if o.pendingSubs != nil && o.pendingSubs.Draining() {
		o.pendingSubs.Push(subscriberEdit{add: true, sub: sub})
		return
	}
	o.subscribers = append(o.subscribers, sub)
}

// Unsubscribe removes sub from this overlay's notification list, buffering
// the edit the same way Subscribe does if called mid-fan-out.
func (o *Overlay) Unsubscribe(sub Subscriber) {
	if o.pendingSubs != nil && o.pendingSubs.Draining() {
		o.pendingSubs.Push(subscriberEdit{add: false, sub: sub})
		return
	}
	o.removeSubscriber(sub)
}

func (o *Overlay) removeSubscriber(sub Subscriber) {
	for i, s := range o.subscribers {
		if s == sub {
			o.subscribers = append(o.subscribers[:i], o.subscribers[i+1:]...)
			return
		}
	}
}

func (o *Overlay) notify(t EngineTime) {
	if o.pendingSubs == nil {
		o.pendingSubs = NewPending[subscriberEdit]()
	}
	o.pendingSubs.BeginDrain()
	for _, s := range o.subscribers {
		s.Notify(t)
	}
	edits := o.pendingSubs.EndDrain()
	for _, e := range edits {
		if e.add {
			o.subscribers = append(o.subscribers, e.sub)
		} else {
			o.removeSubscriber(e.sub)
		}
	}
}
