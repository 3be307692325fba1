package rift

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/la2go-rift/internal/model"
)

// Phase is the lifecycle phase of a rift session.
type Phase int32

const (
	PhaseCreated        Phase = iota // room claimed, nothing armed
	PhaseWaiting                     // teleport-in timer armed
	PhaseLive                        // party inside the room
	PhaseTeleportingOut              // party sent back, draining
	PhaseTerminated                  // room released
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "CREATED"
	case PhaseWaiting:
		return "WAITING"
	case PhaseLive:
		return "LIVE"
	case PhaseTeleportingOut:
		return "TELEPORTING_OUT"
	case PhaseTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Session is one party's run through a rift room.
// Kill is safe from any goroutine; callbacks re-check the phase under mu.
type Session struct {
	id      uuid.UUID
	mgr     *Manager
	party   *model.Party
	room    *Room
	waiting model.Location
	dwell   time.Duration

	mu    sync.Mutex
	phase Phase

	teleportTimer timerGuard // teleport-in
	teleportTask  timerGuard // dwell, then drain
	spawnTimer    timerGuard // periodic refresh
	spawnTask     timerGuard // initial spawn
}

func newSession(mgr *Manager, party *model.Party, room *Room, waiting model.Location) *Session {
	dwell := mgr.dwellTime(room)
	return &Session{
		id:      uuid.New(),
		mgr:     mgr,
		party:   party,
		room:    room,
		waiting: waiting,
		dwell:   dwell,
		phase:   PhaseCreated,
	}
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID { return s.id }

// Party returns the party inside.
func (s *Session) Party() *model.Party { return s.party }

// Room returns the occupied room.
func (s *Session) Room() *Room { return s.room }

// Tier returns the rift tier.
func (s *Session) Tier() uint8 { return s.room.tier }

// Dwell returns how long the party stays in the room.
func (s *Session) Dwell() time.Duration { return s.dwell }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) logArgs() []any {
	return []any{"session", s.id, "party", s.party.ID(), "tier", s.room.tier, "room", s.room.id}
}

// start arms the teleport-in timer.
func (s *Session) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseCreated {
		return
	}
	s.phase = PhaseWaiting
	s.teleportTimer.Set(s.mgr.sched.AfterFunc(s.mgr.cfg.TeleportInDelay, s.onTeleportIn))
	slog.Debug("rift session created", s.logArgs()...)
}

func (s *Session) onTeleportIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teleportTimer.Clear()
	if s.phase != PhaseWaiting {
		slog.Debug("rift teleport-in skipped", append(s.logArgs(), "phase", s.phase)...)
		return
	}
	s.phase = PhaseLive

	anchor := s.room.teleport
	for _, member := range s.party.Members() {
		loc := anchor.WithHeading(uint16(rand.IntN(65536)))
		if err := s.mgr.teleporter.Teleport(member.WorldObject, loc); err != nil {
			slog.Warn("teleport into rift room", append(s.logArgs(), "player", member.Name(), "error", err)...)
		}
	}

	cfg := s.mgr.cfg
	s.spawnTask.Set(s.mgr.sched.AfterFunc(cfg.SpawnDelay, s.onSpawn))
	s.spawnTimer.Set(s.mgr.sched.Every(cfg.SpawnRefreshInterval, s.onRefresh))
	s.teleportTask.Set(s.mgr.sched.AfterFunc(s.dwell, s.onDwellEnd))

	slog.Info("party entered rift", append(s.logArgs(), "dwell", s.dwell)...)
}

func (s *Session) onSpawn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawnTask.Clear()
	if s.phase != PhaseLive {
		return
	}
	s.mgr.spawner.SpawnRoom(s.room.spawns)
}

func (s *Session) onRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseLive {
		return
	}
	s.mgr.spawner.RefreshRoom(s.room.spawns)
}

func (s *Session) onDwellEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teleportTask.Clear()
	if s.phase != PhaseLive {
		slog.Debug("rift dwell end skipped", append(s.logArgs(), "phase", s.phase)...)
		return
	}
	s.phase = PhaseTeleportingOut

	s.spawnTask.Cancel()
	s.spawnTimer.Cancel()
	s.teleportMembersOut(s.party.Members())
	s.mgr.spawner.DespawnRoom(s.room.spawns)

	s.teleportTask.Set(s.mgr.sched.AfterFunc(s.mgr.cfg.DrainDelay, s.onDrained))
	slog.Debug("rift party teleported out", s.logArgs()...)
}

func (s *Session) onDrained() {
	s.terminate("drained")
}

// teleportMembersOut must be called with s.mu held.
func (s *Session) teleportMembersOut(members []*model.Player) {
	for _, member := range members {
		if err := s.mgr.teleporter.Teleport(member.WorldObject, s.waiting); err != nil {
			slog.Warn("teleport to waiting room", append(s.logArgs(), "player", member.Name(), "error", err)...)
		}
	}
}

// Kill terminates the session immediately. Idempotent.
// After Kill returns no timer callback of this session performs effects.
func (s *Session) Kill() {
	s.terminate("killed")
}

// evacuate teleports members to the waiting room, then kills the session.
func (s *Session) evacuate(members []*model.Player) {
	s.mu.Lock()
	if s.phase == PhaseLive || s.phase == PhaseTeleportingOut {
		s.teleportMembersOut(members)
	}
	s.mu.Unlock()
	s.terminate("evacuated")
}

// exitMember sends one member back to the waiting room.
func (s *Session) exitMember(player *model.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseLive || s.phase == PhaseTeleportingOut {
		s.teleportMembersOut([]*model.Player{player})
	}
}

func (s *Session) terminate(reason string) {
	s.mu.Lock()
	if s.phase == PhaseTerminated {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseTerminated
	s.teleportTimer.Cancel()
	s.teleportTask.Cancel()
	s.spawnTimer.Cancel()
	s.spawnTask.Cancel()
	s.mgr.spawner.DespawnRoom(s.room.spawns)
	s.mu.Unlock()

	s.mgr.sessionEnded(s)
	slog.Info("rift session terminated", append(s.logArgs(), "reason", reason)...)
}
