package proximity

// RaceStartRadiusMeters is the arrival radius around a route's start marco.
const RaceStartRadiusMeters = 20.0

// Race lifecycle states.
type RaceState int

const (
	RaceIdle RaceState = iota
	RacePromptShown
	RaceStarted
)

// RaceLifecycle gates the start-race prompt so it fires once per approach.
// Started is terminal for the session. A dismissed prompt re-arms only
// after the observer leaves the start radius.
type RaceLifecycle struct {
	state        RaceState
	awaitingExit bool
}

// State returns the current lifecycle state.
func (r *RaceLifecycle) State() RaceState {
	return r.state
}

// Update feeds one observer sample. It returns true exactly when the
// prompt should be shown: on entering the start radius while idle, armed,
// and with route geometry already available.
func (r *RaceLifecycle) Update(distanceToStart float64, geometryReady bool) bool {
	if r.state != RaceIdle {
		return false
	}

	if r.awaitingExit {
		if distanceToStart > RaceStartRadiusMeters {
			r.awaitingExit = false
		}
		return false
	}

	if distanceToStart <= RaceStartRadiusMeters && geometryReady {
		r.state = RacePromptShown
		return true
	}
	return false
}

// Start marks the race as running; no further prompts this session.
func (r *RaceLifecycle) Start() {
	if r.state == RacePromptShown {
		r.state = RaceStarted
	}
}

// Dismiss hides the prompt and re-arms once the observer leaves the radius.
func (r *RaceLifecycle) Dismiss() {
	if r.state == RacePromptShown {
		r.state = RaceIdle
		r.awaitingExit = true
	}
}

// Reset returns the lifecycle to idle; used when the selected route changes.
func (r *RaceLifecycle) Reset() {
	r.state = RaceIdle
	r.awaitingExit = false
}
