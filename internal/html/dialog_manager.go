package html

import (
	"errors"
	"log/slog"
)

// DialogManager renders NPC dialogs from the cache, degrading to a stub page
// when a file is missing.
type DialogManager struct {
	cache *Cache
}

// NewDialogManager creates a new DialogManager backed by the given Cache.
func NewDialogManager(cache *Cache) *DialogManager {
	return &DialogManager{cache: cache}
}

// Render returns the dialog file rendered with data.
// A missing file yields FallbackHTML; other errors are returned.
func (m *DialogManager) Render(file string, data DialogData) (string, error) {
	out, err := m.cache.Execute(file, data)
	if errors.Is(err, ErrNotFound) {
		slog.Warn("dialog file missing, using fallback", "file", file)
		return m.FallbackHTML(data), nil
	}
	return out, err
}

// FallbackHTML returns a hardcoded fallback dialog when no file is found.
func (m *DialogManager) FallbackHTML(data DialogData) string {
	name := data["npc_name"]
	if name == "" {
		name = "NPC"
	}
	return "<html><body>" + name + ":<br>I have nothing to say to you.<br></body></html>"
}
