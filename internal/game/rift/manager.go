package rift

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/la2go-rift/internal/config"
	"github.com/udisondev/la2go-rift/internal/model"
)

// FragmentItemID: Dimensional Fragment, the rift entry currency.
const FragmentItemID int32 = 7079

// Dialog files, relative to the html root.
const (
	HTMLNoParty          = "seven_signs/rift/NoParty.htm"
	HTMLNotPartyLeader   = "seven_signs/rift/NotPartyLeader.htm"
	HTMLCheater          = "seven_signs/rift/Cheater.htm"
	HTMLSmallParty       = "seven_signs/rift/SmallParty.htm"
	HTMLNotInWaitingRoom = "seven_signs/rift/NotInWaitingRoom.htm"
	HTMLNoFragments      = "seven_signs/rift/NoFragments.htm"
)

// MsgRiftFull is sent when the tier has no room for another party.
const MsgRiftFull = "Rift is full. Try later."

// Manager admits parties into rift rooms and tracks live sessions.
// Thread-safe. Lock order: tierMu → mu; session locks are never taken under mu.
type Manager struct {
	cfg        config.Rift
	rooms      RoomSource
	dialogs    Dialogs
	teleporter Teleporter
	spawner    Spawner
	sched      Scheduler
	onIllegal  IllegalActionHandler
	spawnFile  string

	registry atomic.Pointer[Registry]

	tierMu [MaxTier + 1]sync.Mutex

	mu        sync.Mutex
	sessions  map[int32]*Session // partyID → session
	admitting map[int32]struct{} // parties between the cheat check and session creation
}

// NewManager creates a manager with an empty registry. Call Reload to load rooms.
func NewManager(cfg config.Rift, deps Deps) *Manager {
	sched := deps.Scheduler
	if sched == nil {
		sched = TimeScheduler{}
	}
	m := &Manager{
		cfg:        cfg,
		rooms:      deps.Rooms,
		dialogs:    deps.Dialogs,
		teleporter: deps.Teleporter,
		spawner:    deps.Spawner,
		sched:      sched,
		onIllegal:  deps.OnIllegalAction,
		spawnFile:  deps.SpawnFile,
		sessions:   make(map[int32]*Session, 16),
		admitting:  make(map[int32]struct{}, 4),
	}
	m.registry.Store(NewRegistry(nil))
	return m
}

// Registry returns the active room snapshot.
func (m *Manager) Registry() *Registry { return m.registry.Load() }

// Reload rebuilds rooms and spawns from storage and swaps the snapshot.
// Refuses with ErrRiftBusy while any party is inside or being admitted.
// On a storage error the previous snapshot stays active.
func (m *Manager) Reload(ctx context.Context) error {
	for i := range m.tierMu {
		m.tierMu[i].Lock()
	}
	defer func() {
		for i := range m.tierMu {
			m.tierMu[i].Unlock()
		}
	}()

	m.mu.Lock()
	busy := len(m.sessions) + len(m.admitting)
	m.mu.Unlock()
	if busy > 0 {
		return fmt.Errorf("reload with %d parties inside: %w", busy, ErrRiftBusy)
	}

	reg, err := LoadRegistry(ctx, m.rooms)
	if err != nil {
		slog.Warn("can not load dimensional rift zones", "error", err)
		return err
	}
	if m.spawnFile != "" {
		if _, err := LoadSpawnCatalog(reg, m.spawnFile); err != nil {
			slog.Warn("rift spawns not loaded", "error", err)
		}
	}

	m.registry.Store(reg)
	return nil
}

// Room returns the room (tier, id) of the active snapshot.
func (m *Manager) Room(tier, id uint8) (*Room, bool) {
	return m.registry.Load().Room(tier, id)
}

// CheckIfInRiftZone reports whether the point is inside the rift zone.
// Unless ignorePeace is set, the peace zone is excluded.
func (m *Manager) CheckIfInRiftZone(x, y, z int32, ignorePeace bool) bool {
	reg := m.registry.Load()
	zone, ok := reg.Room(TierWaiting, RoomRiftZone)
	if !ok || !zone.CheckIfInZone(x, y, z) {
		return false
	}
	if ignorePeace {
		return true
	}
	peace, ok := reg.Room(TierWaiting, RoomPeace)
	return !ok || !peace.CheckIfInZone(x, y, z)
}

// CheckIfInPeaceZone reports whether the point is inside the waiting room.
func (m *Manager) CheckIfInPeaceZone(x, y, z int32) bool {
	return m.registry.Load().CheckIfInPeaceZone(x, y, z)
}

// TeleportToWaitingRoom sends player to the waiting room anchor.
func (m *Manager) TeleportToWaitingRoom(player *model.Player) error {
	loc, ok := m.registry.Load().WaitingLocation()
	if !ok {
		return ErrNoWaitingRoom
	}
	return m.teleporter.Teleport(player.WorldObject, loc)
}

// IsAllowedEnter reports whether one more party fits into tier.
func (m *Manager) IsAllowedEnter(tier uint8) bool {
	return m.registry.Load().IsAllowedEnter(tier)
}

// FreeRooms returns ids of unoccupied rooms of tier.
func (m *Manager) FreeRooms(tier uint8) []uint8 {
	return m.registry.Load().FreeRooms(tier)
}

// KillRift terminates the session and releases its room.
func (m *Manager) KillRift(s *Session) {
	s.Kill()
}

// Start admits the leader's party into a free room of tier.
// Each failed precondition shows its dialog to player and returns a sentinel error.
func (m *Manager) Start(ctx context.Context, player *model.Player, tier uint8, npc *model.Npc) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	party := player.Party()
	if party == nil {
		m.showHTML(player, npc, HTMLNoParty, nil)
		return nil, ErrNoParty
	}
	if party.LeaderObjectID() != player.ObjectID() {
		m.showHTML(player, npc, HTMLNotPartyLeader, nil)
		return nil, ErrNotPartyLeader
	}

	if !m.reserve(party.ID()) {
		m.handleCheat(player, npc)
		return nil, ErrAlreadyInRift
	}
	defer m.unreserve(party.ID())

	if party.MemberCount() < m.cfg.MinPartySize {
		m.showHTML(player, npc, HTMLSmallParty, map[string]string{"count": strconv.Itoa(m.cfg.MinPartySize)})
		return nil, ErrPartyTooSmall
	}

	// цена есть только у тиров 1..6, tierMu индексируется тиром
	cost, ok := m.cfg.Costs.ForTier(tier)
	if !ok {
		return nil, fmt.Errorf("tier %d: %w", tier, ErrTierOutOfRange)
	}

	m.tierMu[tier].Lock()
	defer m.tierMu[tier].Unlock()

	reg := m.registry.Load()
	if !reg.IsAllowedEnter(tier) {
		m.sendMessage(player, MsgRiftFull)
		return nil, ErrRiftFull
	}

	members := party.Members()
	for _, p := range members {
		loc := p.Location()
		if !reg.CheckIfInPeaceZone(loc.X, loc.Y, loc.Z) {
			m.showHTML(player, npc, HTMLNotInWaitingRoom, nil)
			return nil, ErrNotInWaitingRoom
		}
	}

	noFragments := map[string]string{"count": strconv.FormatInt(cost, 10)}
	for _, p := range members {
		if p.Inventory().ItemCount(FragmentItemID) < cost {
			m.showHTML(player, npc, HTMLNoFragments, noFragments)
			return nil, ErrNoFragments
		}
	}
	if !debitAll(members, cost) {
		m.showHTML(player, npc, HTMLNoFragments, noFragments)
		return nil, ErrNoFragments
	}

	room, ok := m.claimRoom(reg, tier)
	if !ok {
		refundAll(members, cost)
		m.sendMessage(player, MsgRiftFull)
		return nil, ErrRiftFull
	}

	waiting, _ := reg.WaitingLocation()
	s := newSession(m, party, room, waiting)

	m.mu.Lock()
	m.sessions[party.ID()] = s
	m.mu.Unlock()

	s.start()
	return s, nil
}

// claimRoom picks a random free room of tier and marks it occupied.
func (m *Manager) claimRoom(reg *Registry, tier uint8) (*Room, bool) {
	for {
		free := reg.FreeRooms(tier)
		if len(free) == 0 {
			return nil, false
		}
		room, _ := reg.Room(tier, free[rand.IntN(len(free))])
		if room.claim() {
			return room, true
		}
	}
}

// debitAll takes cost fragments from every member or from none.
func debitAll(members []*model.Player, cost int64) bool {
	for i, p := range members {
		if !p.Inventory().DestroyItemByItemID(FragmentItemID, cost) {
			refundAll(members[:i], cost)
			return false
		}
	}
	return true
}

func refundAll(members []*model.Player, cost int64) {
	for _, p := range members {
		p.Inventory().AddItem(FragmentItemID, cost)
	}
}

func (m *Manager) reserve(partyID int32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, live := m.sessions[partyID]; live {
		return false
	}
	if _, pending := m.admitting[partyID]; pending {
		return false
	}
	m.admitting[partyID] = struct{}{}
	return true
}

func (m *Manager) unreserve(partyID int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.admitting, partyID)
}

// sessionEnded releases the room of a terminated session.
func (m *Manager) sessionEnded(s *Session) {
	m.mu.Lock()
	if m.sessions[s.party.ID()] == s {
		delete(m.sessions, s.party.ID())
	}
	s.room.release()
	m.mu.Unlock()
}

func (m *Manager) handleCheat(player *model.Player, npc *model.Npc) {
	m.showHTML(player, npc, HTMLCheater, nil)
	if player.IsGM() {
		return
	}
	slog.Warn("player was cheating in dimensional rift area", "player", player.Name(), "objectID", player.ObjectID())
	if m.onIllegal != nil {
		m.onIllegal(player, "Warning!! Character "+player.Name()+" tried to cheat in dimensional rift.")
	}
}

func (m *Manager) showHTML(player *model.Player, npc *model.Npc, file string, extra map[string]string) {
	data := make(map[string]string, len(extra)+1)
	if npc != nil {
		data["npc_name"] = npc.Name()
	}
	for k, v := range extra {
		data[k] = v
	}
	m.dialogs.ShowHTML(player, npc, file, data)
}

func (m *Manager) sendMessage(player *model.Player, text string) {
	m.dialogs.SendMessage(player, text)
}

// dwellTime picks how long a party stays in room.
func (m *Manager) dwellTime(room *Room) time.Duration {
	lo, hi := m.cfg.AutoJumpsTimeMin, m.cfg.AutoJumpsTimeMax
	d := lo
	if hi > lo {
		d += time.Duration(rand.Int64N(int64(hi-lo) + 1))
	}
	if room.boss {
		d = time.Duration(float64(d) * m.cfg.BossRoomTimeMultiply)
	}
	return d
}

// Session returns the live session of party.
func (m *Manager) Session(partyID int32) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[partyID]
	return s, ok
}

// ActiveSessions returns live sessions ordered by party id.
func (m *Manager) ActiveSessions() []*Session {
	m.mu.Lock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.Unlock()

	slices.SortFunc(out, func(a, b *Session) int { return cmp.Compare(a.party.ID(), b.party.ID()) })
	return out
}

// OnPartyDisband ends the party's session, sending members back to the waiting room.
// Call it before the party is unlinked.
func (m *Manager) OnPartyDisband(party *model.Party) {
	if s, ok := m.Session(party.ID()); ok {
		s.evacuate(party.Members())
	}
}

// OnMemberLeave sends a leaving member back to the waiting room.
// When the rest of the party drops below the minimum size, the session ends.
func (m *Manager) OnMemberLeave(party *model.Party, player *model.Player) {
	s, ok := m.Session(party.ID())
	if !ok {
		return
	}
	s.exitMember(player)

	remaining := party.MemberCount()
	if party.IsMember(player.ObjectID()) {
		remaining--
	}
	if remaining < m.cfg.MinPartySize || remaining == 1 {
		rest := make([]*model.Player, 0, remaining)
		for _, p := range party.Members() {
			if p.ObjectID() != player.ObjectID() {
				rest = append(rest, p)
			}
		}
		s.evacuate(rest)
	}
}

// Shutdown sends every party back to the waiting room and ends its session.
func (m *Manager) Shutdown() {
	for _, s := range m.ActiveSessions() {
		s.evacuate(s.party.Members())
	}
}
