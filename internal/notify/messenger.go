// Package notify delivers rift dialogs to players over NATS and feeds
// NPC bypass requests back into the rift manager.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/udisondev/la2go-rift/internal/html"
	"github.com/udisondev/la2go-rift/internal/model"
)

// Envelope kinds.
const (
	KindHTML    = "html"
	KindMessage = "message"
)

// Envelope is the JSON payload published to a player subject.
type Envelope struct {
	Kind string `json:"kind"`
	NPC  uint32 `json:"npc,omitempty"`
	Body string `json:"body"`
}

// PlayerSubject returns the subject a player's client listens on.
func PlayerSubject(objectID uint32) string {
	return "rift.player." + strconv.FormatUint(uint64(objectID), 10)
}

// Publisher is the subset of *nats.Conn used for delivery.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Renderer turns a dialog file into HTML.
type Renderer interface {
	Render(file string, data html.DialogData) (string, error)
}

// Messenger sends rendered dialogs and system messages to players.
type Messenger struct {
	pub     Publisher
	dialogs Renderer
}

// NewMessenger creates a messenger publishing through pub.
func NewMessenger(pub Publisher, dialogs Renderer) *Messenger {
	return &Messenger{pub: pub, dialogs: dialogs}
}

// ShowHTML renders file with data and delivers it as an NPC dialog.
func (m *Messenger) ShowHTML(player *model.Player, npc *model.Npc, file string, data map[string]string) {
	body, err := m.dialogs.Render(file, html.DialogData(data))
	if err != nil {
		slog.Error("rendering dialog", "file", file, "player", player.Name(), "error", err)
		return
	}
	env := Envelope{Kind: KindHTML, Body: body}
	if npc != nil {
		env.NPC = npc.ObjectID()
	}
	m.deliver(player, env)
}

// SendMessage delivers a plain system message.
func (m *Messenger) SendMessage(player *model.Player, text string) {
	m.deliver(player, Envelope{Kind: KindMessage, Body: text})
}

func (m *Messenger) deliver(player *model.Player, env Envelope) {
	if err := m.publish(player.ObjectID(), env); err != nil {
		slog.Error("delivering to player", "player", player.Name(), "kind", env.Kind, "error", err)
	}
}

func (m *Messenger) publish(objectID uint32, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding %s envelope: %w", env.Kind, err)
	}
	if err := m.pub.Publish(PlayerSubject(objectID), data); err != nil {
		return fmt.Errorf("publishing to %d: %w", objectID, err)
	}
	return nil
}
