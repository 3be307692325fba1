package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/udisondev/la2go-rift/internal/db/migrations"
	"github.com/udisondev/la2go-rift/internal/game/rift"
	"github.com/udisondev/la2go-rift/internal/model"
)

// OpenSQLite opens (creating if needed) the SQLite database at path and applies migrations.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// одно соединение: :memory: живёт в рамках соединения
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite %s: %w", path, err)
	}
	if err := migrations.Up(ctx, sqlDB, goose.DialectSQLite3); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// SQLiteRiftRepository reads rift rooms from SQLite.
type SQLiteRiftRepository struct {
	db *sql.DB
}

// NewSQLiteRiftRepository creates a repository over an opened database.
func NewSQLiteRiftRepository(db *sql.DB) *SQLiteRiftRepository {
	return &SQLiteRiftRepository{db: db}
}

// LoadRooms returns every room ordered by (type, room_id).
func (r *SQLiteRiftRepository) LoadRooms(ctx context.Context) (_ []rift.RoomRecord, err error) {
	rows, err := r.db.QueryContext(ctx, selectRiftRooms)
	if err != nil {
		return nil, fmt.Errorf("loading rift rooms: %w", err)
	}
	defer func() { err = errors.Join(err, rows.Close()) }()

	var records []rift.RoomRecord
	for rows.Next() {
		var (
			rec          rift.RoomRecord
			tier, roomID int64
		)
		if err := rows.Scan(&tier, &roomID,
			&rec.XMin, &rec.XMax, &rec.YMin, &rec.YMax, &rec.ZMin, &rec.ZMax,
			&rec.XT, &rec.YT, &rec.ZT, &rec.Boss,
		); err != nil {
			return nil, fmt.Errorf("scanning rift room row: %w", err)
		}
		if err := toRoomKey(&rec, tier, roomID); err != nil {
			return nil, fmt.Errorf("scanning rift room row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rift room rows: %w", err)
	}
	return records, nil
}

// SaveRooms inserts records in one transaction.
func (r *SQLiteRiftRepository) SaveRooms(ctx context.Context, records []rift.RoomRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, insertRiftRoom)
	if err != nil {
		return fmt.Errorf("preparing rift room insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, roomArgs(rec)...); err != nil {
			return fmt.Errorf("inserting rift room (%d, %d): %w", rec.Tier, rec.RoomID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rift rooms: %w", err)
	}
	return nil
}

// SQLiteNpcRepository handles NPC template storage in SQLite.
type SQLiteNpcRepository struct {
	db *sql.DB
}

// NewSQLiteNpcRepository creates a repository over an opened database.
func NewSQLiteNpcRepository(db *sql.DB) *SQLiteNpcRepository {
	return &SQLiteNpcRepository{db: db}
}

// LoadAllTemplates loads all NPC templates.
func (r *SQLiteNpcRepository) LoadAllTemplates(ctx context.Context) (_ []*model.NpcTemplate, err error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+npcTemplateColumns+` FROM npc_templates ORDER BY template_id`)
	if err != nil {
		return nil, fmt.Errorf("loading all npc templates: %w", err)
	}
	defer func() { err = errors.Join(err, rows.Close()) }()

	var templates []*model.NpcTemplate
	for rows.Next() {
		tpl, err := scanNpcTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning npc template row: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating npc template rows: %w", err)
	}
	return templates, nil
}

// Create creates new NPC template.
func (r *SQLiteNpcRepository) Create(ctx context.Context, template *model.NpcTemplate) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO npc_templates (`+npcTemplateColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		npcTemplateArgs(template)...,
	)
	if err != nil {
		return fmt.Errorf("creating npc template %d: %w", template.TemplateID(), err)
	}
	return nil
}
