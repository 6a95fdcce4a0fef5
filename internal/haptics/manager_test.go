package haptics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeUnsupportedLeavesEngineAbsent(t *testing.T) {
	f := newFixture(false)

	err := f.mgr.Initialize()
	require.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, f.mgr.Available())
	assert.Empty(t, *f.log)
}

func TestInitializeNilDeviceIsUnsupported(t *testing.T) {
	mgr := NewManager(nil, &fakeSource{log: &calls{}}, [NumSlots]string{"a", "b"}, nil)

	require.ErrorIs(t, mgr.Initialize(), ErrUnsupported)
	assert.False(t, mgr.Available())
}

func TestInitializeEngineFailures(t *testing.T) {
	t.Run("construct", func(t *testing.T) {
		f := newFixture(true)
		f.device.newErr = errBoom

		err := f.mgr.Initialize()
		require.ErrorIs(t, err, errBoom)
		assert.False(t, f.mgr.Available())
	})

	t.Run("start", func(t *testing.T) {
		f := newFixture(true)
		f.engine.startErr = errBoom

		err := f.mgr.Initialize()
		require.ErrorIs(t, err, errBoom)
		assert.False(t, f.mgr.Available())
		assert.Equal(t, calls{"engine.start", "engine.stop"}, *f.log)
	})
}

func TestInitializeStartsEngineOnce(t *testing.T) {
	f := newFixture(true)

	require.NoError(t, f.mgr.Initialize())
	require.NoError(t, f.mgr.Initialize())
	assert.True(t, f.mgr.Available())
	assert.Equal(t, 1, f.engine.starts)
}

func TestPlayStartsPatternInSlot(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.reset()

	f.mgr.PlaySlotA()

	assert.Equal(t, calls{
		"load heartbeat1",
		"engine.newPlayer heartbeat1",
		"player.start heartbeat1",
	}, *f.log)
	slot, ok := f.mgr.Active()
	require.True(t, ok)
	assert.Equal(t, SlotA, slot)
	assert.NotEmpty(t, f.mgr.slots[SlotA].id)
}

func TestPlayStopsOtherSlotBeforeOwnAndBeforeLoad(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.mgr.PlaySlotA()
	f.reset()

	f.mgr.PlaySlotB()

	assert.Equal(t, calls{
		"player.stop heartbeat1",
		"load heartbeat2",
		"engine.newPlayer heartbeat2",
		"player.start heartbeat2",
	}, *f.log)
	assert.Nil(t, f.mgr.slots[SlotA])
	assert.NotNil(t, f.mgr.slots[SlotB])
}

func TestPlaySameSlotStopsPreviousHandle(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.mgr.PlaySlotA()
	first := f.mgr.slots[SlotA]
	f.reset()

	f.mgr.PlaySlotA()

	assert.Equal(t, calls{
		"player.stop heartbeat1",
		"load heartbeat1",
		"engine.newPlayer heartbeat1",
		"player.start heartbeat1",
	}, *f.log)
	require.NotNil(t, f.mgr.slots[SlotA])
	assert.NotEqual(t, first.id, f.mgr.slots[SlotA].id)
	assert.False(t, f.engine.players[0].playing)
}

func TestPlayLoadsAssetFreshEveryTime(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())

	f.mgr.PlaySlotA()
	f.mgr.PlaySlotA()
	f.mgr.PlaySlotA()

	loads := 0
	for _, c := range *f.log {
		if c == "load heartbeat1" {
			loads++
		}
	}
	assert.Equal(t, 3, loads)
}

func TestPlayFailuresLeaveSlotEmpty(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"missing asset", func(f *fixture) { f.source.missing["heartbeat1"] = true }},
		{"construct fails", func(f *fixture) { f.engine.playerErr = errBoom }},
		{"start fails", func(f *fixture) { f.engine.playerStartErr = errBoom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(true)
			require.NoError(t, f.mgr.Initialize())
			f.mgr.PlaySlotB()
			tt.setup(f)

			f.mgr.PlaySlotA()

			assert.Nil(t, f.mgr.slots[SlotA])
			// The other slot was stopped by the press, not by the failure.
			assert.Nil(t, f.mgr.slots[SlotB])
			assert.True(t, f.mgr.Available())
		})
	}
}

func TestPlayFailureDoesNotAffectLaterPlays(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.source.missing["heartbeat1"] = true

	f.mgr.PlaySlotA()
	f.mgr.PlaySlotB()

	slot, ok := f.mgr.Active()
	require.True(t, ok)
	assert.Equal(t, SlotB, slot)
}

func TestStopClearsSlotEvenWhenStopFails(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.engine.playerStopErr = errBoom
	f.mgr.PlaySlotA()

	f.mgr.Stop(SlotA)

	assert.Nil(t, f.mgr.slots[SlotA])
	_, ok := f.mgr.Active()
	assert.False(t, ok)
}

func TestStopEmptySlotIsNoop(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.reset()

	f.mgr.Stop(SlotA)
	f.mgr.Stop(Slot(7))

	assert.Empty(t, *f.log)
}

func TestStopAllEmptiesBothSlots(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.mgr.PlaySlotA()
	// Force both slots full to check StopAll does not depend on exclusion.
	f.mgr.slots[SlotB] = &handle{id: "b", pattern: "heartbeat2", player: &fakePlayer{name: "heartbeat2", log: f.log}}
	f.reset()

	f.mgr.StopAll()

	assert.Equal(t, calls{"player.stop heartbeat1", "player.stop heartbeat2"}, *f.log)
	assert.Zero(t, f.activeCount())
}

func TestStopAllWorksWithoutEngine(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.mgr.PlaySlotA()
	f.mgr.engine = nil

	f.mgr.StopAll()

	assert.Zero(t, f.activeCount())
	assert.False(t, f.engine.players[0].playing)
}

func TestOperationsWithoutEngineMakeNoPlaybackCalls(t *testing.T) {
	f := newFixture(false)
	_ = f.mgr.Initialize()

	f.mgr.PlaySlotA()
	f.mgr.PlaySlotB()
	f.mgr.StopAll()

	assert.Empty(t, *f.log)
	assert.Zero(t, f.activeCount())
}

func TestMutualExclusionHoldsForAnySequence(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		switch rng.Intn(6) {
		case 0, 1:
			f.mgr.PlaySlotA()
		case 2, 3:
			f.mgr.PlaySlotB()
		case 4:
			f.mgr.StopAll()
			require.Zero(t, f.activeCount(), "step %d", i)
		case 5:
			f.mgr.HandleEvent(Event{Kind: EventStopped, Reason: ReasonIdle})
			require.Zero(t, f.activeCount(), "step %d", i)
		}
		require.LessOrEqual(t, f.playingCount(), 1, "step %d", i)
		require.LessOrEqual(t, f.activeCount(), 1, "step %d", i)
	}

	assert.LessOrEqual(t, f.playingCount(), 1)
}

func TestStoppedEventClearsSlots(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.mgr.PlaySlotB()
	f.reset()

	f.mgr.HandleEvent(Event{Kind: EventStopped, Reason: ReasonAudioFailure})

	assert.Zero(t, f.activeCount())
	assert.True(t, f.mgr.Available())
	assert.Equal(t, calls{"player.stop heartbeat2"}, *f.log)
}

func TestStoppedEventClearsSlotsEvenWhenStopFails(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.engine.playerStopErr = errBoom
	f.mgr.PlaySlotA()

	f.mgr.HandleEvent(Event{Kind: EventStopped, Reason: ReasonAudioFailure})

	assert.Zero(t, f.activeCount())
}

func TestQueuedStoppedEventDoesNotOrphanPlayer(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())

	// Idle shutdown fired before this play resumed the engine; its event is
	// handled afterwards.
	f.mgr.PlaySlotA()
	f.mgr.HandleEvent(Event{Kind: EventStopped, Reason: ReasonIdle})
	f.mgr.PlaySlotB()

	assert.Equal(t, 1, f.playingCount())
	slot, ok := f.mgr.Active()
	require.True(t, ok)
	assert.Equal(t, SlotB, slot)
}

func TestResetEventRestartsEngine(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.mgr.PlaySlotA()

	f.mgr.HandleEvent(Event{Kind: EventReset})

	assert.Equal(t, 2, f.engine.starts)
	assert.True(t, f.mgr.Available())
	assert.Equal(t, 1, f.activeCount())
}

func TestFailedResetDisablesHaptics(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.mgr.PlaySlotA()
	f.engine.startErr = errBoom

	f.reset()
	f.mgr.HandleEvent(Event{Kind: EventReset})

	assert.False(t, f.mgr.Available())
	assert.Zero(t, f.activeCount())
	assert.Equal(t, calls{"engine.start", "player.stop heartbeat1", "engine.stop"}, *f.log)

	f.reset()
	f.mgr.PlaySlotA()
	f.mgr.PlaySlotB()
	assert.Empty(t, *f.log)
	assert.Equal(t, 2, f.engine.starts, "reset must not retry")
}

func TestResetWithoutEngineIsIgnored(t *testing.T) {
	f := newFixture(false)
	_ = f.mgr.Initialize()

	f.mgr.HandleEvent(Event{Kind: EventReset})

	assert.False(t, f.mgr.Available())
	assert.Zero(t, f.engine.starts)
}

func TestPlayThenSwitchThenStopScenario(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())

	f.mgr.PlaySlotA()
	assert.NotNil(t, f.mgr.slots[SlotA])
	assert.Nil(t, f.mgr.slots[SlotB])

	f.mgr.PlaySlotB()
	assert.Nil(t, f.mgr.slots[SlotA])
	assert.NotNil(t, f.mgr.slots[SlotB])

	f.mgr.StopAll()
	assert.Zero(t, f.activeCount())
}

func TestCloseStopsEngine(t *testing.T) {
	f := newFixture(true)
	require.NoError(t, f.mgr.Initialize())
	f.mgr.PlaySlotA()
	f.reset()

	f.mgr.Close()

	assert.Equal(t, calls{"player.stop heartbeat1", "engine.stop"}, *f.log)
	assert.False(t, f.mgr.Available())
}

func TestOthersOf(t *testing.T) {
	assert.Equal(t, []Slot{SlotB}, othersOf(SlotA))
	assert.Equal(t, []Slot{SlotA}, othersOf(SlotB))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "stopped (idle)", Event{Kind: EventStopped, Reason: ReasonIdle}.String())
	assert.Equal(t, "reset", Event{Kind: EventReset}.String())
	assert.Equal(t, "unknown", EventKind(0).String())
}
