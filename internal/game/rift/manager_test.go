package rift

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-rift/internal/config"
	"github.com/udisondev/la2go-rift/internal/model"
)

func TestManager_Start_Success(t *testing.T) {
	h := newHarness(t)
	party := newTestParty(t, h.world, 1, 3, 30)

	s, err := h.mgr.Start(context.Background(), party.Leader(), 2, testNpc())
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, PhaseWaiting, s.Phase())
	assert.Equal(t, uint8(2), s.Tier())
	assert.True(t, s.Room().IsOccupied())
	assert.Equal(t, []int64{9, 9, 9}, fragmentsOf(party), "soldier cost is 21")

	got, ok := h.mgr.Session(party.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
}

// Two parties, tier with two rooms: at most |rooms|−1 may be occupied.
func TestManager_Start_TierCapacity(t *testing.T) {
	h := newHarness(t)
	first := newTestParty(t, h.world, 1, 2, 100)
	second := newTestParty(t, h.world, 2, 2, 100)

	_, err := h.mgr.Start(context.Background(), first.Leader(), 2, testNpc())
	require.NoError(t, err)

	_, err = h.mgr.Start(context.Background(), second.Leader(), 2, testNpc())
	assert.ErrorIs(t, err, ErrRiftFull)
	assert.Equal(t, []string{MsgRiftFull}, h.dialogs.messages)
	assert.Equal(t, []int64{100, 100}, fragmentsOf(second), "rejected party keeps fragments")
	assert.False(t, h.mgr.IsAllowedEnter(2))
	assert.Len(t, h.mgr.FreeRooms(2), 1)
}

func TestManager_Start_SmallPartyKeepsFragments(t *testing.T) {
	h := newHarness(t)
	solo := model.NewPlayer(42, "solo", peaceAnchor, 1000)
	solo.Inventory().AddItem(FragmentItemID, 100)
	party := model.NewParty(7, solo)

	_, err := h.mgr.Start(context.Background(), solo, 1, testNpc())
	assert.ErrorIs(t, err, ErrPartyTooSmall)

	shown := h.dialogs.lastHTML()
	assert.Equal(t, HTMLSmallParty, shown.file)
	assert.Equal(t, "2", shown.data["count"])
	assert.Equal(t, "Rift Post", shown.data["npc_name"])
	assert.Equal(t, []int64{100}, fragmentsOf(party))
}

func TestManager_Start_NoFragmentsIsAtomic(t *testing.T) {
	h := newHarness(t)
	party := newTestParty(t, h.world, 1, 3, 0)
	party.Leader().Inventory().AddItem(FragmentItemID, 50)

	_, err := h.mgr.Start(context.Background(), party.Leader(), 1, testNpc())
	assert.ErrorIs(t, err, ErrNoFragments)

	shown := h.dialogs.lastHTML()
	assert.Equal(t, HTMLNoFragments, shown.file)
	assert.Equal(t, "18", shown.data["count"])
	assert.Equal(t, []int64{50, 0, 0}, fragmentsOf(party))
	assert.Empty(t, h.mgr.ActiveSessions())
	assert.Len(t, h.mgr.FreeRooms(1), 3)
}

func TestManager_Start_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, h *harness) *model.Player
		wantErr  error
		wantHTML string
	}{
		{
			name: "no party",
			setup: func(t *testing.T, h *harness) *model.Player {
				return model.NewPlayer(500, "loner", peaceAnchor, 1000)
			},
			wantErr:  ErrNoParty,
			wantHTML: HTMLNoParty,
		},
		{
			name: "not leader",
			setup: func(t *testing.T, h *harness) *model.Player {
				return newTestParty(t, h.world, 1, 3, 100).Members()[1]
			},
			wantErr:  ErrNotPartyLeader,
			wantHTML: HTMLNotPartyLeader,
		},
		{
			name: "member outside waiting room",
			setup: func(t *testing.T, h *harness) *model.Player {
				party := newTestParty(t, h.world, 1, 3, 100)
				require.NoError(t, h.world.Teleport(party.Members()[2].WorldObject, inRiftZone))
				return party.Leader()
			},
			wantErr:  ErrNotInWaitingRoom,
			wantHTML: HTMLNotInWaitingRoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			player := tt.setup(t, h)

			_, err := h.mgr.Start(context.Background(), player, 1, testNpc())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantHTML, h.dialogs.lastHTML().file)
			assert.Empty(t, h.mgr.ActiveSessions())
		})
	}
}

func TestManager_Start_TierOutOfRange(t *testing.T) {
	h := newHarness(t)
	party := newTestParty(t, h.world, 1, 2, 100)

	for _, tier := range []uint8{0, 7, 255} {
		_, err := h.mgr.Start(context.Background(), party.Leader(), tier, testNpc())
		assert.ErrorIs(t, err, ErrTierOutOfRange, "tier %d", tier)
	}
	assert.Empty(t, h.dialogs.html)
	assert.Equal(t, []int64{100, 100}, fragmentsOf(party))

	// отказ по тиру не держит резерв партии
	_, err := h.mgr.Start(context.Background(), party.Leader(), 1, testNpc())
	require.NoError(t, err)
}

func TestManager_Start_TierCheckedAfterPartyRules(t *testing.T) {
	h := newHarness(t)
	solo := model.NewPlayer(43, "solo", peaceAnchor, 1000)

	_, err := h.mgr.Start(context.Background(), solo, 0, testNpc())
	assert.ErrorIs(t, err, ErrNoParty)
	require.Len(t, h.dialogs.html, 1)
	assert.Equal(t, HTMLNoParty, h.dialogs.html[0].file)

	small := newTestParty(t, h.world, 9, 1, 100)
	_, err = h.mgr.Start(context.Background(), small.Leader(), 255, testNpc())
	assert.ErrorIs(t, err, ErrPartyTooSmall)
}

func TestManager_Start_TierWithoutRooms(t *testing.T) {
	h := newHarness(t)
	party := newTestParty(t, h.world, 1, 2, 100)

	_, err := h.mgr.Start(context.Background(), party.Leader(), 5, testNpc())
	assert.ErrorIs(t, err, ErrRiftFull)
}

func TestManager_Start_Cheater(t *testing.T) {
	h := newHarness(t)
	party := newTestParty(t, h.world, 1, 2, 100)

	_, err := h.mgr.Start(context.Background(), party.Leader(), 1, testNpc())
	require.NoError(t, err)

	_, err = h.mgr.Start(context.Background(), party.Leader(), 2, testNpc())
	assert.ErrorIs(t, err, ErrAlreadyInRift)
	assert.Equal(t, HTMLCheater, h.dialogs.lastHTML().file)
	require.Len(t, h.illegal, 1)
	assert.Contains(t, h.illegal[0], "tried to cheat in dimensional rift")
	assert.Equal(t, []int64{82, 82}, fragmentsOf(party), "charged once")
}

func TestManager_Start_CheaterGM(t *testing.T) {
	h := newHarness(t)
	party := newTestParty(t, h.world, 1, 2, 100)
	party.Leader().SetAccessLevel(model.AccessLevelGM)

	_, err := h.mgr.Start(context.Background(), party.Leader(), 1, testNpc())
	require.NoError(t, err)

	_, err = h.mgr.Start(context.Background(), party.Leader(), 1, testNpc())
	assert.ErrorIs(t, err, ErrAlreadyInRift)
	assert.Equal(t, HTMLCheater, h.dialogs.lastHTML().file)
	assert.Empty(t, h.illegal, "GMs are not punished")
}

func TestManager_Start_Concurrent(t *testing.T) {
	h := newHarness(t)
	const parties = 8

	leaders := make([]*model.Player, parties)
	for i := range parties {
		leaders[i] = newTestParty(t, h.world, int32(i+1), 2, 100).Leader()
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		entered int
	)
	for _, leader := range leaders {
		wg.Go(func() {
			_, err := h.mgr.Start(context.Background(), leader, 1, testNpc())
			if err == nil {
				mu.Lock()
				entered++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrRiftFull) {
				t.Errorf("Start() error = %v; want nil or ErrRiftFull", err)
			}
		})
	}
	wg.Wait()

	// tier 1 has three rooms → two parties at most
	assert.Equal(t, 2, entered)
	assert.Equal(t, 2, h.mgr.Registry().OccupiedCount(1))
	assert.Len(t, h.mgr.ActiveSessions(), 2)

	rooms := make(map[uint8]bool)
	for _, s := range h.mgr.ActiveSessions() {
		assert.False(t, rooms[s.Room().ID()], "room %d shared", s.Room().ID())
		rooms[s.Room().ID()] = true
	}
}

func TestManager_Start_ContextCancelled(t *testing.T) {
	h := newHarness(t)
	party := newTestParty(t, h.world, 1, 2, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.mgr.Start(ctx, party.Leader(), 1, testNpc())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager_CheckIfInRiftZone(t *testing.T) {
	h := newHarness(t)

	// точка в комнате ожидания лежит и в зоне рифта
	assert.True(t, h.mgr.CheckIfInRiftZone(0, 0, 0, true))
	assert.False(t, h.mgr.CheckIfInRiftZone(0, 0, 0, false))

	assert.True(t, h.mgr.CheckIfInRiftZone(5000, 5000, 0, true))
	assert.True(t, h.mgr.CheckIfInRiftZone(5000, 5000, 0, false))

	assert.False(t, h.mgr.CheckIfInRiftZone(50000, 0, 0, true))

	assert.True(t, h.mgr.CheckIfInPeaceZone(1000, -1000, 500), "borders are inclusive")
	assert.False(t, h.mgr.CheckIfInPeaceZone(1001, 0, 0))
}

func TestManager_EmptyRegistry(t *testing.T) {
	m := NewManager(config.DefaultRift(), Deps{Rooms: staticRooms{}})

	assert.False(t, m.CheckIfInRiftZone(0, 0, 0, true))
	assert.False(t, m.CheckIfInPeaceZone(0, 0, 0))
	assert.False(t, m.IsAllowedEnter(1))
	assert.ErrorIs(t, m.TeleportToWaitingRoom(model.NewPlayer(1, "p", inRiftZone, 10)), ErrNoWaitingRoom)
}

func TestManager_TeleportToWaitingRoom(t *testing.T) {
	h := newHarness(t)
	p := model.NewPlayer(77, "p", inRiftZone, 100)
	require.NoError(t, h.world.AddObject(p.WorldObject))

	require.NoError(t, h.mgr.TeleportToWaitingRoom(p))
	assert.Equal(t, peaceAnchor, p.Location())
}

func TestManager_Reload(t *testing.T) {
	h := newHarness(t)
	before := h.mgr.Registry()

	require.NoError(t, h.mgr.Reload(context.Background()))
	assert.NotSame(t, before, h.mgr.Registry())
	assert.Equal(t, 7, h.mgr.Registry().RoomCount())
}

func TestManager_Reload_BusyWhileLive(t *testing.T) {
	h := newHarness(t)
	party := newTestParty(t, h.world, 1, 2, 100)
	s, err := h.mgr.Start(context.Background(), party.Leader(), 1, testNpc())
	require.NoError(t, err)

	before := h.mgr.Registry()
	err = h.mgr.Reload(context.Background())
	assert.ErrorIs(t, err, ErrRiftBusy)
	assert.Same(t, before, h.mgr.Registry())

	h.mgr.KillRift(s)
	assert.NoError(t, h.mgr.Reload(context.Background()))
}

func TestManager_Reload_StorageErrorKeepsSnapshot(t *testing.T) {
	h := newHarness(t)
	before := h.mgr.Registry()
	h.mgr.rooms = staticRooms{err: errors.New("connection refused")}

	err := h.mgr.Reload(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	assert.Same(t, before, h.mgr.Registry())
}
