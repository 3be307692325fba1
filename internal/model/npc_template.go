package model

import "slices"

// NpcTemplate: статический шаблон моба из таблицы npc_templates.
// Поля, влияющие на выбор целей скиллов: clans, undead, attackable.
type NpcTemplate struct {
	templateID int32
	name       string
	title      string
	level      int32
	maxHP      int32
	aggroRange int32
	attackable bool
	undead     bool
	clans      []string
}

// NewNpcTemplate creates an attackable template without clans.
func NewNpcTemplate(templateID int32, name, title string, level, maxHP, aggroRange int32) *NpcTemplate {
	return &NpcTemplate{
		templateID: templateID,
		name:       name,
		title:      title,
		level:      level,
		maxHP:      maxHP,
		aggroRange: aggroRange,
		attackable: true,
	}
}

func (t *NpcTemplate) TemplateID() int32  { return t.templateID }
func (t *NpcTemplate) Name() string       { return t.name }
func (t *NpcTemplate) Title() string      { return t.title }
func (t *NpcTemplate) Level() int32       { return t.level }
func (t *NpcTemplate) MaxHP() int32       { return t.maxHP }
func (t *NpcTemplate) AggroRange() int32  { return t.aggroRange }
func (t *NpcTemplate) IsAttackable() bool { return t.attackable }
func (t *NpcTemplate) IsUndead() bool     { return t.undead }

// Clans returns a copy of the social clans.
func (t *NpcTemplate) Clans() []string { return slices.Clone(t.clans) }

// WithTraits sets the flags read by affect filters and returns t.
func (t *NpcTemplate) WithTraits(attackable, undead bool, clans ...string) *NpcTemplate {
	t.attackable = attackable
	t.undead = undead
	t.clans = clans
	return t
}

// Apply copies template traits onto a freshly spawned npc.
func (t *NpcTemplate) Apply(npc *Npc) {
	npc.SetAttackable(t.attackable)
	npc.SetUndead(t.undead)
	npc.SetClans(t.Clans()...)
}
