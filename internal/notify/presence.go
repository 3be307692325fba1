package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/udisondev/la2go-rift/internal/game/rift"
	"github.com/udisondev/la2go-rift/internal/model"
)

// SubjectPresence carries object state from the game server.
const SubjectPresence = "rift.presence"

// Presence event kinds.
const (
	PresencePlayer = "player"
	PresenceNpc    = "npc"
	PresenceLeave  = "leave"
)

var ErrUnknownPresence = errors.New("unknown presence kind")

// PresenceEvent is the JSON payload on SubjectPresence.
// A player event carries the full social state: party_id 0 means "no party",
// clan_id 0 means "no clan".
type PresenceEvent struct {
	Kind     string  `json:"kind"`
	ObjectID uint32  `json:"object_id"`
	Name     string  `json:"name"`
	X        int32   `json:"x"`
	Y        int32   `json:"y"`
	Z        int32   `json:"z"`
	Heading  uint16  `json:"heading"`
	MaxHP    float64 `json:"max_hp"`

	AccessLevel int32  `json:"access_level"`
	Karma       int32  `json:"karma"`
	PvPFlag     bool   `json:"pvp_flag"`
	Fragments   int64  `json:"fragments"`
	ClanID      int32  `json:"clan_id"`
	ClanName    string `json:"clan_name"`
	PartyID     int32  `json:"party_id"`
	PartyLeader uint32 `json:"party_leader"`

	TemplateID int32 `json:"template_id"`
}

func (e PresenceEvent) location() model.Location {
	return model.NewLocation(e.X, e.Y, e.Z, e.Heading)
}

// PresenceWorld is the part of world.World fed by presence events.
type PresenceWorld interface {
	Objects
	AddObject(obj *model.WorldObject) error
	RemoveObject(objectID uint32)
	Teleport(obj *model.WorldObject, loc model.Location) error
}

// PartyEvents is the part of rift.Manager told about party changes.
type PartyEvents interface {
	OnMemberLeave(party *model.Party, player *model.Player)
	OnPartyDisband(party *model.Party)
}

// Templates resolves NPC templates by ID.
type Templates interface {
	Template(templateID int32) (*model.NpcTemplate, bool)
}

// PresenceTracker mirrors players, parties, clans and NPCs of the game server
// into the world so bypass and affect requests can resolve them.
type PresenceTracker struct {
	world     PresenceWorld
	rift      PartyEvents
	templates Templates

	mu      sync.Mutex
	parties map[int32]*model.Party
	clans   map[int32]*model.Clan
}

// NewPresenceTracker creates a tracker. templates may be nil.
func NewPresenceTracker(w PresenceWorld, r PartyEvents, templates Templates) *PresenceTracker {
	return &PresenceTracker{
		world:     w,
		rift:      r,
		templates: templates,
		parties:   make(map[int32]*model.Party, 16),
		clans:     make(map[int32]*model.Clan, 16),
	}
}

// Run subscribes to SubjectPresence and applies events until ctx is done.
func (t *PresenceTracker) Run(ctx context.Context, conn *nats.Conn) error {
	sub, err := conn.Subscribe(SubjectPresence, func(msg *nats.Msg) {
		if err := t.Handle(msg.Data); err != nil {
			slog.Warn("presence event rejected", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", SubjectPresence, err)
	}
	slog.Info("presence tracker started", "subject", SubjectPresence)

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		slog.Warn("unsubscribing presence tracker", "error", err)
	}
	return nil
}

// Handle decodes and applies one presence event.
func (t *PresenceTracker) Handle(data []byte) error {
	var ev PresenceEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("decoding presence event: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case PresencePlayer:
		return t.upsertPlayer(ev)
	case PresenceNpc:
		return t.upsertNpc(ev)
	case PresenceLeave:
		t.leave(ev.ObjectID)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPresence, ev.Kind)
	}
}

// PartyCount returns how many parties are tracked.
func (t *PresenceTracker) PartyCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.parties)
}

func (t *PresenceTracker) upsertPlayer(ev PresenceEvent) error {
	var player *model.Player
	if obj, ok := t.world.GetObject(ev.ObjectID); ok {
		p, ok := obj.Data.(*model.Player)
		if !ok {
			return fmt.Errorf("object %d: %w", ev.ObjectID, ErrNotPlayer)
		}
		player = p
		if err := t.move(obj, ev.location()); err != nil {
			return err
		}
	} else {
		player = model.NewPlayer(ev.ObjectID, ev.Name, ev.location(), max(ev.MaxHP, 1))
		if err := t.world.AddObject(player.WorldObject); err != nil {
			return err
		}
		slog.Debug("player entered", "object_id", ev.ObjectID, "name", ev.Name)
	}

	player.SetAccessLevel(ev.AccessLevel)
	player.SetKarma(ev.Karma)
	player.SetPvPFlag(ev.PvPFlag)
	setItemCount(player.Inventory(), rift.FragmentItemID, ev.Fragments)

	t.syncClan(player, ev.ClanID, ev.ClanName)
	return t.syncParty(player, ev.PartyID, ev.PartyLeader)
}

func (t *PresenceTracker) upsertNpc(ev PresenceEvent) error {
	if obj, ok := t.world.GetObject(ev.ObjectID); ok {
		if !obj.IsNpc() {
			return fmt.Errorf("object %d: %w", ev.ObjectID, ErrNotNpc)
		}
		return t.move(obj, ev.location())
	}

	name, maxHP := ev.Name, ev.MaxHP
	var tpl *model.NpcTemplate
	if t.templates != nil {
		tpl, _ = t.templates.Template(ev.TemplateID)
	}
	if tpl != nil {
		if name == "" {
			name = tpl.Name()
		}
		if maxHP <= 0 {
			maxHP = float64(tpl.MaxHP())
		}
	}

	npc := model.NewNpc(ev.ObjectID, ev.TemplateID, name, ev.location(), max(maxHP, 1))
	if tpl != nil {
		tpl.Apply(npc)
	}
	return t.world.AddObject(npc.WorldObject)
}

func (t *PresenceTracker) move(obj *model.WorldObject, loc model.Location) error {
	if obj.Location() == loc {
		return nil
	}
	return t.world.Teleport(obj, loc)
}

func (t *PresenceTracker) leave(objectID uint32) {
	obj, ok := t.world.GetObject(objectID)
	if !ok {
		return
	}
	if player, ok := obj.Data.(*model.Player); ok {
		t.syncClan(player, 0, "")
		if party := player.Party(); party != nil {
			t.leaveParty(party, player)
		}
		slog.Debug("player left", "object_id", objectID, "name", player.Name())
	}
	t.world.RemoveObject(objectID)
}

func (t *PresenceTracker) syncClan(player *model.Player, clanID int32, name string) {
	if cur := player.Clan(); cur != nil && cur.ID() != clanID {
		cur.RemoveMember(player.ObjectID())
		if len(cur.Members()) == 0 {
			delete(t.clans, cur.ID())
		}
	}
	if clanID == 0 || player.Clan() != nil {
		return
	}
	clan, ok := t.clans[clanID]
	if !ok {
		clan = model.NewClan(clanID, name)
		t.clans[clanID] = clan
	}
	clan.AddMember(player)
}

func (t *PresenceTracker) syncParty(player *model.Player, partyID int32, leaderID uint32) error {
	if cur := player.Party(); cur != nil && cur.ID() != partyID {
		t.leaveParty(cur, player)
	}
	if partyID == 0 {
		return nil
	}

	party := player.Party()
	if party == nil {
		if existing, ok := t.parties[partyID]; ok {
			if err := existing.AddMember(player); err != nil {
				return fmt.Errorf("party %d: %w", partyID, err)
			}
			party = existing
		} else {
			party = model.NewParty(partyID, player)
			t.parties[partyID] = party
		}
	}
	if leaderID == player.ObjectID() && !party.IsLeader(leaderID) {
		party.SetLeader(player)
	}
	return nil
}

// leaveParty tells the rift first: it needs the member still linked.
func (t *PresenceTracker) leaveParty(party *model.Party, player *model.Player) {
	t.rift.OnMemberLeave(party, player)
	if party.RemoveMember(player.ObjectID()) {
		t.rift.OnPartyDisband(party)
		party.Disband()
		delete(t.parties, party.ID())
	}
}

func setItemCount(inv *model.Inventory, itemID int32, want int64) {
	have := inv.ItemCount(itemID)
	switch {
	case want > have:
		inv.AddItem(itemID, want-have)
	case want < have:
		inv.DestroyItemByItemID(itemID, have-want)
	}
}
