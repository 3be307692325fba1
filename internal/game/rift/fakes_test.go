package rift

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-rift/internal/config"
	"github.com/udisondev/la2go-rift/internal/model"
	"github.com/udisondev/la2go-rift/internal/world"
)

// fakeScheduler is a manual clock: timers fire only inside Advance.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Duration
	period  time.Duration
	seq     int
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *fakeScheduler) add(d, period time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &fakeTimer{s: s, at: s.now + d, period: period, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer { return s.add(d, 0, f) }

func (s *fakeScheduler) Every(d time.Duration, f func()) Timer { return s.add(d, d, f) }

// Advance moves the clock by d, firing due timers in time order.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		if next.period > 0 {
			next.at += next.period
		} else {
			next.stopped = true
		}
		f := next.f
		s.mu.Unlock()

		f()
	}
}

// Pending returns the number of armed timers.
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type shownHTML struct {
	player uint32
	file   string
	data   map[string]string
}

type recordingDialogs struct {
	mu       sync.Mutex
	html     []shownHTML
	messages []string
}

func (d *recordingDialogs) ShowHTML(player *model.Player, _ *model.Npc, file string, data map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.html = append(d.html, shownHTML{player: player.ObjectID(), file: file, data: data})
}

func (d *recordingDialogs) SendMessage(_ *model.Player, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, text)
}

func (d *recordingDialogs) lastHTML() shownHTML {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.html) == 0 {
		return shownHTML{}
	}
	return d.html[len(d.html)-1]
}

type recordingSpawner struct {
	mu        sync.Mutex
	spawned   int
	refreshed int
	despawned int
}

func (s *recordingSpawner) SpawnRoom([]*model.Spawn) {
	s.mu.Lock()
	s.spawned++
	s.mu.Unlock()
}

func (s *recordingSpawner) RefreshRoom([]*model.Spawn) {
	s.mu.Lock()
	s.refreshed++
	s.mu.Unlock()
}

func (s *recordingSpawner) DespawnRoom([]*model.Spawn) {
	s.mu.Lock()
	s.despawned++
	s.mu.Unlock()
}

func (s *recordingSpawner) counts() (spawned, refreshed, despawned int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawned, s.refreshed, s.despawned
}

type staticRooms struct {
	records []RoomRecord
	err     error
}

func (s staticRooms) LoadRooms(context.Context) ([]RoomRecord, error) {
	return slices.Clone(s.records), s.err
}

var (
	peaceAnchor = model.NewLocation(0, 0, 0, 0)
	inRiftZone  = model.NewLocation(5000, 5000, 0, 0)
)

// testRecords: waiting area, tier 1 with three rooms, tier 2 with two rooms (room 2 boss).
func testRecords() []RoomRecord {
	return []RoomRecord{
		{Tier: 0, RoomID: 0, XMin: -1000, XMax: 1000, YMin: -1000, YMax: 1000, ZMin: -500, ZMax: 500},
		{Tier: 0, RoomID: 1, XMin: -10000, XMax: 10000, YMin: -10000, YMax: 10000, ZMin: -500, ZMax: 500},
		{Tier: 1, RoomID: 1, XMin: 20000, XMax: 21000, YMin: 0, YMax: 1000, ZMin: -100, ZMax: 100, XT: 20500, YT: 500, ZT: 0},
		{Tier: 1, RoomID: 2, XMin: 22000, XMax: 23000, YMin: 0, YMax: 1000, ZMin: -100, ZMax: 100, XT: 22500, YT: 500, ZT: 0},
		{Tier: 1, RoomID: 3, XMin: 24000, XMax: 25000, YMin: 0, YMax: 1000, ZMin: -100, ZMax: 100, XT: 24500, YT: 500, ZT: 0},
		{Tier: 2, RoomID: 1, XMin: 30000, XMax: 31000, YMin: 0, YMax: 1000, ZMin: -100, ZMax: 100, XT: 30500, YT: 500, ZT: 10},
		{Tier: 2, RoomID: 2, XMin: 32000, XMax: 33000, YMin: 0, YMax: 1000, ZMin: -100, ZMax: 100, XT: 32500, YT: 500, ZT: 10, Boss: true},
	}
}

type harness struct {
	mgr     *Manager
	sched   *fakeScheduler
	dialogs *recordingDialogs
	spawner *recordingSpawner
	world   *world.World
	cfg     config.Rift

	illegal []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sched:   &fakeScheduler{},
		dialogs: &recordingDialogs{},
		spawner: &recordingSpawner{},
		world:   world.New(),
		cfg:     config.DefaultRift(),
	}
	h.mgr = NewManager(h.cfg, Deps{
		Rooms:      staticRooms{records: testRecords()},
		Dialogs:    h.dialogs,
		Teleporter: h.world,
		Spawner:    h.spawner,
		Scheduler:  h.sched,
		OnIllegalAction: func(_ *model.Player, msg string) {
			h.illegal = append(h.illegal, msg)
		},
	})
	require.NoError(t, h.mgr.Reload(context.Background()))
	return h
}

var nextObjectID uint32 = 1000

// newTestParty creates a party of size players standing in the waiting room,
// each holding fragments Dimensional Fragments.
func newTestParty(t *testing.T, w *world.World, partyID int32, size int, fragments int64) *model.Party {
	t.Helper()
	var party *model.Party
	for i := range size {
		nextObjectID++
		p := model.NewPlayer(nextObjectID, "member", peaceAnchor, 1000)
		p.Inventory().AddItem(FragmentItemID, fragments)
		require.NoError(t, w.AddObject(p.WorldObject))
		if i == 0 {
			party = model.NewParty(partyID, p)
			continue
		}
		require.NoError(t, party.AddMember(p))
	}
	return party
}

func fragmentsOf(party *model.Party) []int64 {
	var out []int64
	for _, p := range party.Members() {
		out = append(out, p.Inventory().ItemCount(FragmentItemID))
	}
	return out
}

func testNpc() *model.Npc {
	return model.NewNpc(1, 31488, "Rift Post", peaceAnchor, 1000)
}
