package hgraph

import (
	"math"
	"time"
)

// EngineTime is a monotonic, microsecond-resolution logical instant. It is
// the stamp every overlay, delta, and scheduler entry is keyed by.
type EngineTime int64

const (
	// MinEngineTime is the "never" sentinel — the value an overlay carries
	// before it has ever been modified.
	MinEngineTime EngineTime = math.MinInt64
	// MaxEngineTime is the "no scheduled work" sentinel.
	MaxEngineTime EngineTime = math.MaxInt64
)

// FromTime converts a wall-clock instant to an EngineTime at microsecond
// resolution.
func FromTime(t time.Time) EngineTime {
	return EngineTime(t.UnixMicro())
}

// Time converts back to a wall-clock instant; meaningless for the two
// sentinels.
func (t EngineTime) Time() time.Time {
	return time.UnixMicro(int64(t))
}

// Valid reports whether t is neither sentinel.
func (t EngineTime) Valid() bool {
	return t != MinEngineTime && t != MaxEngineTime
}

func (t EngineTime) String() string {
	switch t {
	case MinEngineTime:
		return "MIN_DT"
	case MaxEngineTime:
		return "MAX_DT"
	default:
		return t.Time().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
}

// EngineClock is the single source of time for a Graph. In simulation mode
// Now() is always evaluationTime; in real-time mode Now() reads the wall
// clock. AdvanceTo never blocks: the real-time wait happens in
// Engine.waitUntil before AdvanceTo is called.
type EngineClock struct {
	evaluationTime EngineTime
	pushPending    bool
	realtime       bool
}

// NewEngineClock constructs a clock starting at the given time.
func NewEngineClock(start EngineTime, realtime bool) *EngineClock {
	return &EngineClock{evaluationTime: start, realtime: realtime}
}

// EvaluationTime is the time of the cycle currently being evaluated.
func (c *EngineClock) EvaluationTime() EngineTime { return c.evaluationTime }

// TimePointer returns a pointer to the clock's live evaluation-time field, so
// every TSView built against this clock reads the same advancing "now"
// without each view recomputing or caching a stale copy.
func (c *EngineClock) TimePointer() *EngineTime { return &c.evaluationTime }

// Now is evaluationTime in simulation mode, or the wall clock in real-time
// mode — the reference a caller passes to NodeScheduler.ScheduleRelative
// for a wall-clock entry.
func (c *EngineClock) Now() EngineTime {
	if c.realtime {
		return FromTime(time.Now())
	}
	return c.evaluationTime
}

// RequestPushScheduling sets the push-scheduling flag. The engine loop reads
// and clears it via PushPending at the start of its next cycle, making
// SourcePush nodes eligible in that cycle; the flag does not by itself cause
// a cycle to run.
func (c *EngineClock) RequestPushScheduling() { c.pushPending = true }

// PushPending reports and clears the push-scheduling flag.
func (c *EngineClock) PushPending() bool {
	pending := c.pushPending
	c.pushPending = false
	return pending
}

// AdvanceTo moves evaluationTime forward. Callers must never move it
// backward — doing so is an InvariantViolation.
func (c *EngineClock) AdvanceTo(t EngineTime) error {
	if t < c.evaluationTime {
		return wrapFatal(ErrInvariantViolation, "engine clock moved backward")
	}
	c.evaluationTime = t
	return nil
}
