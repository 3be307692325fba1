package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/udisondev/la2go-rift/internal/game/affect"
	"github.com/udisondev/la2go-rift/internal/model"
)

// SubjectAffect is the request/reply subject for skill target queries.
const SubjectAffect = "rift.affect"

var (
	ErrNotCharacter = errors.New("caster is not a character")
	ErrUnknownScope = errors.New("unknown affect scope")
)

// AffectRequest describes one skill cast.
type AffectRequest struct {
	Caster      uint32   `json:"caster"`
	Target      uint32   `json:"target"`
	SkillID     int32    `json:"skill_id"`
	Scope       string   `json:"scope"`
	Object      string   `json:"object"`
	AffectRange int32    `json:"affect_range"`
	AffectLimit int      `json:"affect_limit"`
	FanRange    [4]int32 `json:"fan_range"`
	Offensive   bool     `json:"offensive"`
}

// AffectReply lists affected object IDs in resolver order.
type AffectReply struct {
	Targets []uint32 `json:"targets"`
	Error   string   `json:"error,omitempty"`
}

// Resolver is the part of affect.Resolver used by the service.
type Resolver interface {
	AffectTargets(caster *model.Character, target *model.WorldObject, skill *affect.Skill) []*model.WorldObject
}

// AffectService answers skill target queries from the game server.
type AffectService struct {
	resolver Resolver
	objects  Objects
}

// NewAffectService creates a service.
func NewAffectService(resolver Resolver, objects Objects) *AffectService {
	return &AffectService{resolver: resolver, objects: objects}
}

// Run serves SubjectAffect until ctx is done.
func (s *AffectService) Run(ctx context.Context, conn *nats.Conn) error {
	sub, err := conn.Subscribe(SubjectAffect, func(msg *nats.Msg) {
		reply, err := s.Handle(msg.Data)
		if err != nil {
			slog.Debug("affect query rejected", "error", err)
			reply = AffectReply{Error: err.Error()}
		}
		data, err := json.Marshal(reply)
		if err != nil {
			slog.Error("encoding affect reply", "error", err)
			return
		}
		if err := msg.Respond(data); err != nil {
			slog.Warn("responding to affect query", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", SubjectAffect, err)
	}
	slog.Info("affect service started", "subject", SubjectAffect)

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		slog.Warn("unsubscribing affect service", "error", err)
	}
	return nil
}

// Handle decodes a query and resolves its targets.
func (s *AffectService) Handle(data []byte) (AffectReply, error) {
	var req AffectRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return AffectReply{}, fmt.Errorf("decoding affect request: %w", err)
	}

	skill, err := req.skill()
	if err != nil {
		return AffectReply{}, err
	}

	casterObj, ok := s.objects.GetObject(req.Caster)
	if !ok {
		return AffectReply{}, fmt.Errorf("caster %d: %w", req.Caster, ErrUnknownObject)
	}
	caster := casterObj.AsCharacter()
	if caster == nil {
		return AffectReply{}, fmt.Errorf("caster %d: %w", req.Caster, ErrNotCharacter)
	}
	target, ok := s.objects.GetObject(req.Target)
	if !ok {
		return AffectReply{}, fmt.Errorf("target %d: %w", req.Target, ErrUnknownObject)
	}

	objs := s.resolver.AffectTargets(caster, target, skill)
	reply := AffectReply{Targets: make([]uint32, 0, len(objs))}
	for _, o := range objs {
		reply.Targets = append(reply.Targets, o.ObjectID())
	}
	return reply, nil
}

func (r AffectRequest) skill() (*affect.Skill, error) {
	scope, ok := affect.ParseScope(r.Scope)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, r.Scope)
	}
	// пустой фильтр = ALL
	object := affect.ObjectAll
	if r.Object != "" {
		if object, ok = affect.ParseObject(r.Object); !ok {
			return nil, fmt.Errorf("unknown affect object %q", r.Object)
		}
	}
	return &affect.Skill{
		ID:          r.SkillID,
		Scope:       scope,
		Object:      object,
		AffectRange: r.AffectRange,
		AffectLimit: r.AffectLimit,
		FanRange:    r.FanRange,
		Offensive:   r.Offensive,
	}, nil
}
