package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/la2go-rift/internal/model"
)

const npcTemplateColumns = `template_id, name, title, level, max_hp, aggro_range, attackable, undead, clans`

// clanSeparator joins template clans in the clans column.
const clanSeparator = ";"

// NpcRepository handles NPC template storage in PostgreSQL.
type NpcRepository struct {
	pool *pgxpool.Pool
}

// NewNpcRepository creates a new NPC repository
func NewNpcRepository(pool *pgxpool.Pool) *NpcRepository {
	return &NpcRepository{pool: pool}
}

// scanner covers pgx.Row and *sql.Row(s).
type scanner interface {
	Scan(dest ...any) error
}

func scanNpcTemplate(row scanner) (*model.NpcTemplate, error) {
	var (
		templateID, level, maxHP, aggroRange int32
		name, title, clans                   string
		attackable, undead                   bool
	)
	if err := row.Scan(&templateID, &name, &title, &level, &maxHP, &aggroRange, &attackable, &undead, &clans); err != nil {
		return nil, err
	}
	return model.NewNpcTemplate(templateID, name, title, level, maxHP, aggroRange).
		WithTraits(attackable, undead, splitClans(clans)...), nil
}

func splitClans(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, clanSeparator)
}

func npcTemplateArgs(t *model.NpcTemplate) []any {
	return []any{
		t.TemplateID(), t.Name(), t.Title(), t.Level(), t.MaxHP(), t.AggroRange(),
		t.IsAttackable(), t.IsUndead(), strings.Join(t.Clans(), clanSeparator),
	}
}

// LoadTemplate loads NPC template by ID
func (r *NpcRepository) LoadTemplate(ctx context.Context, id int32) (*model.NpcTemplate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+npcTemplateColumns+` FROM npc_templates WHERE template_id = $1`, id)
	tpl, err := scanNpcTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("loading npc template %d: %w", id, err)
	}
	return tpl, nil
}

// LoadAllTemplates loads all NPC templates
func (r *NpcRepository) LoadAllTemplates(ctx context.Context) ([]*model.NpcTemplate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+npcTemplateColumns+` FROM npc_templates ORDER BY template_id`)
	if err != nil {
		return nil, fmt.Errorf("loading all npc templates: %w", err)
	}

	templates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.NpcTemplate, error) {
		return scanNpcTemplate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning npc template rows: %w", err)
	}
	return templates, nil
}

// Create creates new NPC template
func (r *NpcRepository) Create(ctx context.Context, template *model.NpcTemplate) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO npc_templates (`+npcTemplateColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		npcTemplateArgs(template)...,
	)
	if err != nil {
		return fmt.Errorf("creating npc template %d: %w", template.TemplateID(), err)
	}
	return nil
}
