package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/la2go-rift/internal/game/rift"
)

const selectRiftRooms = `
	SELECT type, room_id, x_min, x_max, y_min, y_max, z_min, z_max, x_t, y_t, z_t, boss
	FROM dimensional_rift
	ORDER BY type, room_id
`

const insertRiftRoom = `
	INSERT INTO dimensional_rift (type, room_id, x_min, x_max, y_min, y_max, z_min, z_max, x_t, y_t, z_t, boss)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

// RiftRepository reads rift rooms from PostgreSQL.
type RiftRepository struct {
	pool *pgxpool.Pool
}

// NewRiftRepository creates a new rift room repository.
func NewRiftRepository(pool *pgxpool.Pool) *RiftRepository {
	return &RiftRepository{pool: pool}
}

// LoadRooms returns every room ordered by (type, room_id).
func (r *RiftRepository) LoadRooms(ctx context.Context) ([]rift.RoomRecord, error) {
	rows, err := r.pool.Query(ctx, selectRiftRooms)
	if err != nil {
		return nil, fmt.Errorf("loading rift rooms: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (rift.RoomRecord, error) {
		var (
			rec          rift.RoomRecord
			tier, roomID int16
		)
		if err := row.Scan(&tier, &roomID,
			&rec.XMin, &rec.XMax, &rec.YMin, &rec.YMax, &rec.ZMin, &rec.ZMax,
			&rec.XT, &rec.YT, &rec.ZT, &rec.Boss,
		); err != nil {
			return rec, err
		}
		if err := toRoomKey(&rec, int64(tier), int64(roomID)); err != nil {
			return rec, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning rift room rows: %w", err)
	}
	return records, nil
}

// SaveRooms inserts records in one transaction.
func (r *RiftRepository) SaveRooms(ctx context.Context, records []rift.RoomRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(insertRiftRoom, roomArgs(rec)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting %d rift rooms: %w", len(records), err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing rift rooms: %w", err)
	}
	return nil
}

func roomArgs(rec rift.RoomRecord) []any {
	return []any{
		int16(rec.Tier), int16(rec.RoomID),
		rec.XMin, rec.XMax, rec.YMin, rec.YMax, rec.ZMin, rec.ZMax,
		rec.XT, rec.YT, rec.ZT, rec.Boss,
	}
}

// toRoomKey fills Tier/RoomID, rejecting values that do not fit uint8.
func toRoomKey(rec *rift.RoomRecord, tier, roomID int64) error {
	if tier < 0 || tier > 255 || roomID < 0 || roomID > 255 {
		return fmt.Errorf("room (%d, %d): %w", tier, roomID, ErrRoomKeyRange)
	}
	rec.Tier, rec.RoomID = uint8(tier), uint8(roomID)
	return nil
}
