package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRacePromptFiresOncePerApproach(t *testing.T) {
	race := &RaceLifecycle{}

	assert.False(t, race.Update(25, true), "still outside the start radius")
	assert.True(t, race.Update(18, true), "entering the radius prompts")
	assert.Equal(t, RacePromptShown, race.State())

	// Oscillating in and out while the prompt is open never re-fires.
	assert.False(t, race.Update(25, true))
	assert.False(t, race.Update(18, true))
}

func TestRacePromptRequiresGeometry(t *testing.T) {
	race := &RaceLifecycle{}

	assert.False(t, race.Update(18, false), "no prompt before geometry is ready")
	assert.Equal(t, RaceIdle, race.State())
	assert.True(t, race.Update(18, true))
}

func TestRaceDismissRearmsAfterExit(t *testing.T) {
	race := &RaceLifecycle{}

	assert.True(t, race.Update(18, true))
	race.Dismiss()
	assert.Equal(t, RaceIdle, race.State())

	assert.False(t, race.Update(18, true), "dismissed while still inside: no prompt")
	assert.False(t, race.Update(25, true), "leaving the radius re-arms")
	assert.True(t, race.Update(18, true), "re-entry prompts again")
}

func TestRaceStartedIsTerminal(t *testing.T) {
	race := &RaceLifecycle{}

	assert.True(t, race.Update(18, true))
	race.Start()
	assert.Equal(t, RaceStarted, race.State())

	assert.False(t, race.Update(25, true))
	assert.False(t, race.Update(18, true))
	race.Dismiss()
	assert.Equal(t, RaceStarted, race.State(), "dismiss is a no-op once started")
}

func TestRaceStartOnlyFromPrompt(t *testing.T) {
	race := &RaceLifecycle{}

	race.Start()
	assert.Equal(t, RaceIdle, race.State(), "start without a prompt is ignored")
}

func TestRaceReset(t *testing.T) {
	race := &RaceLifecycle{}

	assert.True(t, race.Update(18, true))
	race.Dismiss()
	race.Reset()

	assert.True(t, race.Update(18, true), "reset drops the exit requirement")
}

func TestRaceBoundaryInclusive(t *testing.T) {
	race := &RaceLifecycle{}
	assert.True(t, race.Update(RaceStartRadiusMeters, true), "exactly 20 m counts as arrived")
}
