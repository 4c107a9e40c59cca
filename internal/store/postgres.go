package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"matterdesk/api/internal/matter"
	"matterdesk/api/internal/util"
)

// PostgresMatterStore mirrors the file store's whole-set contract on top of
// Postgres. Each row holds a matter as one jsonb record plus its position in
// the set, so load order matches save order exactly.
type PostgresMatterStore struct {
	db *sql.DB
}

func NewPostgresMatterStore(db *sql.DB) *PostgresMatterStore {
	return &PostgresMatterStore{db: db}
}

func (s *PostgresMatterStore) LoadAll(ctx context.Context) ([]matter.Matter, error) {
	raw, err := loadRecords(ctx, s.db, "matters")
	if err != nil {
		return nil, err
	}
	matters := make([]matter.Matter, 0, len(raw))
	for _, record := range raw {
		matters = append(matters, matterFromRecord(normalizeMatterRecord(record), util.NewID))
	}
	return matters, nil
}

func (s *PostgresMatterStore) SaveAll(ctx context.Context, matters []matter.Matter) error {
	records := make([]any, len(matters))
	for i := range matters {
		records[i] = matters[i]
	}
	return saveRecords(ctx, s.db, "matters", records)
}

type PostgresOwnerStore struct {
	db *sql.DB
}

func NewPostgresOwnerStore(db *sql.DB) *PostgresOwnerStore {
	return &PostgresOwnerStore{db: db}
}

func (s *PostgresOwnerStore) LoadAll(ctx context.Context) ([]matter.Owner, error) {
	raw, err := loadRecords(ctx, s.db, "owners")
	if err != nil {
		return nil, err
	}
	owners := make([]matter.Owner, 0, len(raw))
	for _, record := range raw {
		owners = append(owners, ownerFromRecord(record, util.NewID))
	}
	return owners, nil
}

func (s *PostgresOwnerStore) SaveAll(ctx context.Context, owners []matter.Owner) error {
	records := make([]any, len(owners))
	for i := range owners {
		records[i] = owners[i]
	}
	return saveRecords(ctx, s.db, "owners", records)
}

func loadRecords(ctx context.Context, db *sql.DB, table string) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT record FROM %s ORDER BY position`, table))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var records []map[string]any
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		var record map[string]any
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", table, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return records, nil
}

func saveRecords(ctx context.Context, db *sql.DB, table string, records []any) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for i, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s(position, record) VALUES($1, $2)`, table),
			i, data,
		); err != nil {
			return fmt.Errorf("insert %s record: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", table, err)
	}
	return nil
}
