package spawn

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/la2go-rift/internal/model"
)

// NpcRepository loads NPC templates from storage.
type NpcRepository interface {
	LoadAllTemplates(ctx context.Context) ([]*model.NpcTemplate, error)
}

// TemplateTable is an immutable templateID → template index.
type TemplateTable struct {
	byID map[int32]*model.NpcTemplate
}

// NewTemplateTable indexes templates; a later duplicate replaces an earlier one.
func NewTemplateTable(templates []*model.NpcTemplate) *TemplateTable {
	t := &TemplateTable{byID: make(map[int32]*model.NpcTemplate, len(templates))}
	for _, tpl := range templates {
		if tpl == nil {
			continue
		}
		t.byID[tpl.TemplateID()] = tpl
	}
	return t
}

// LoadTemplateTable reads every template from repo.
func LoadTemplateTable(ctx context.Context, repo NpcRepository) (*TemplateTable, error) {
	templates, err := repo.LoadAllTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading npc templates: %w", err)
	}
	t := NewTemplateTable(templates)
	slog.Info("npc templates loaded", "count", t.Len())
	return t, nil
}

// Template returns the template by ID.
func (t *TemplateTable) Template(templateID int32) (*model.NpcTemplate, bool) {
	tpl, ok := t.byID[templateID]
	return tpl, ok
}

// Len returns the number of templates.
func (t *TemplateTable) Len() int {
	return len(t.byID)
}
