package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/nats-io/nats.go"

	"github.com/udisondev/la2go-rift/internal/game/rift"
	"github.com/udisondev/la2go-rift/internal/html"
	"github.com/udisondev/la2go-rift/internal/model"
)

// SubjectBypass carries NPC bypass requests from the client gateway.
const SubjectBypass = "rift.bypass"

// InteractionDistance is how close a player must stand to use an NPC.
const InteractionDistance int32 = 150

var (
	ErrUnknownObject = errors.New("unknown object")
	ErrNotPlayer     = errors.New("object is not a player")
	ErrNotNpc        = errors.New("object is not an npc")
	ErrTooFar        = errors.New("player too far from npc")
)

// BypassRequest is the JSON payload on SubjectBypass.
type BypassRequest struct {
	Player uint32 `json:"player"`
	Bypass string `json:"bypass"`
}

// Rift is the part of rift.Manager driven by bypasses.
type Rift interface {
	Start(ctx context.Context, player *model.Player, tier uint8, npc *model.Npc) (*rift.Session, error)
	OnMemberLeave(party *model.Party, player *model.Player)
}

// Objects looks world objects up by ID.
type Objects interface {
	GetObject(objectID uint32) (*model.WorldObject, bool)
}

// BypassListener turns rift guide bypasses into manager calls.
type BypassListener struct {
	rift    Rift
	objects Objects
	dialogs rift.Dialogs
}

// NewBypassListener creates a listener.
func NewBypassListener(r Rift, objects Objects, dialogs rift.Dialogs) *BypassListener {
	return &BypassListener{rift: r, objects: objects, dialogs: dialogs}
}

// Run subscribes to SubjectBypass and serves requests until ctx is done.
func (l *BypassListener) Run(ctx context.Context, conn *nats.Conn) error {
	sub, err := conn.Subscribe(SubjectBypass, func(msg *nats.Msg) {
		if err := l.Handle(ctx, msg.Data); err != nil {
			slog.Debug("bypass rejected", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", SubjectBypass, err)
	}
	slog.Info("bypass listener started", "subject", SubjectBypass)

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		slog.Warn("unsubscribing bypass listener", "error", err)
	}
	return nil
}

// Handle decodes and executes one bypass request.
func (l *BypassListener) Handle(ctx context.Context, data []byte) error {
	var req BypassRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decoding bypass request: %w", err)
	}
	cmd, err := html.ParseNpcBypass(req.Bypass)
	if err != nil {
		return err
	}

	player, err := l.player(req.Player)
	if err != nil {
		return err
	}
	npc, err := l.npc(cmd.ObjectID)
	if err != nil {
		return err
	}
	if !player.Location().InRange(npc.Location(), InteractionDistance) {
		return fmt.Errorf("%s → npc %d: %w", player.Name(), npc.ObjectID(), ErrTooFar)
	}

	switch cmd.Command {
	case html.CmdEnterRift:
		n, err := cmd.IntArg(0)
		if err != nil {
			return err
		}
		if n < 0 || n > math.MaxUint8 {
			return fmt.Errorf("tier %d: %w", n, rift.ErrTierOutOfRange)
		}
		_, err = l.rift.Start(ctx, player, uint8(n), npc)
		return err

	case html.CmdExitRift:
		if party := player.Party(); party != nil {
			l.rift.OnMemberLeave(party, player)
		}
		return nil

	case html.CmdChat:
		page, err := cmd.IntArg(0)
		if err != nil {
			page = 0
		}
		l.dialogs.ShowHTML(player, npc, chatFile(npc.TemplateID(), page), map[string]string{
			"npc_name": npc.Name(),
			"objectId": strconv.FormatUint(uint64(npc.ObjectID()), 10),
		})
		return nil
	}
	return nil
}

func chatFile(templateID int32, page int) string {
	if page == 0 {
		return fmt.Sprintf("seven_signs/rift/%d.htm", templateID)
	}
	return fmt.Sprintf("seven_signs/rift/%d-%d.htm", templateID, page)
}

func (l *BypassListener) player(objectID uint32) (*model.Player, error) {
	obj, ok := l.objects.GetObject(objectID)
	if !ok {
		return nil, fmt.Errorf("player %d: %w", objectID, ErrUnknownObject)
	}
	p, ok := obj.Data.(*model.Player)
	if !ok {
		return nil, fmt.Errorf("object %d: %w", objectID, ErrNotPlayer)
	}
	return p, nil
}

func (l *BypassListener) npc(objectID uint32) (*model.Npc, error) {
	obj, ok := l.objects.GetObject(objectID)
	if !ok {
		return nil, fmt.Errorf("npc %d: %w", objectID, ErrUnknownObject)
	}
	n, ok := obj.Data.(*model.Npc)
	if !ok {
		return nil, fmt.Errorf("object %d: %w", objectID, ErrNotNpc)
	}
	return n, nil
}
