package internal

// TrackingState holds the process-wide (here: per-Runtime) tracking flags:
// which effect is currently running, whether reads should record
// dependencies, and how deep inside a pauseScheduling region we are.
type TrackingState struct {
	activeEffect *Effect
	shouldTrack  bool
	trackStack   []bool

	pauseScheduleDepth int
}

// NewTrackingState returns a tracking state with tracking enabled by default.
func NewTrackingState() *TrackingState {
	return &TrackingState{shouldTrack: true}
}

// ActiveEffect returns the effect currently running, or nil.
func (t *TrackingState) ActiveEffect() *Effect {
	return t.activeEffect
}

// SetActiveEffect installs e as the active effect, returning the previous
// value so callers can restore it.
func (t *TrackingState) SetActiveEffect(e *Effect) *Effect {
	prev := t.activeEffect
	t.activeEffect = e
	return prev
}

// ShouldTrack reports whether reads should currently record dependencies.
func (t *TrackingState) ShouldTrack() bool {
	return t.shouldTrack
}

// PauseTracking pushes the current shouldTrack flag and disables tracking.
func (t *TrackingState) PauseTracking() {
	t.trackStack = append(t.trackStack, t.shouldTrack)
	t.shouldTrack = false
}

// EnableTracking pushes the current shouldTrack flag and enables tracking.
func (t *TrackingState) EnableTracking() {
	t.trackStack = append(t.trackStack, t.shouldTrack)
	t.shouldTrack = true
}

// ResetTracking pops the most recently pushed shouldTrack flag. If the
// stack is empty, tracking defaults back on.
func (t *TrackingState) ResetTracking() {
	n := len(t.trackStack)
	if n == 0 {
		t.shouldTrack = true
		return
	}
	t.shouldTrack = t.trackStack[n-1]
	t.trackStack = t.trackStack[:n-1]
}

// PauseScheduling increments the pause-schedule depth. While positive,
// scheduler enqueues raised by trigger are deferred.
func (t *TrackingState) PauseScheduling() {
	t.pauseScheduleDepth++
}

// SchedulingPaused reports whether enqueues should currently be deferred.
func (t *TrackingState) SchedulingPaused() bool {
	return t.pauseScheduleDepth > 0
}

// ResetScheduling decrements the pause-schedule depth, reporting whether it
// just reached zero (i.e. whether the caller should now drain deferred
// schedulers).
func (t *TrackingState) ResetScheduling() bool {
	if t.pauseScheduleDepth > 0 {
		t.pauseScheduleDepth--
	}
	return t.pauseScheduleDepth == 0
}
