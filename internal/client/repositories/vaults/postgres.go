package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/dbx"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepository talks to the vaults table directly over a database
// connection. It bypasses row-level security when the connecting role does,
// so it is meant for privileged tooling.
type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres opens and pings a pgx-backed *sql.DB.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func checkUserID(userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w %q", ErrInvalidUserID, userID)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.VaultRow, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, state, app_version, last_synced FROM vaults WHERE user_id = $1`, userID)

	v, err := scanRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, row *models.VaultRow) error {
	if err := checkUserID(row.UserID); err != nil {
		return err
	}

	state := string(row.State)
	if state == "" {
		state = "{}"
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaults (user_id, state, app_version, last_synced)
		VALUES ($1, $2::jsonb, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET state = EXCLUDED.state, app_version = EXCLUDED.app_version, last_synced = EXCLUDED.last_synced`,
		row.UserID, state, row.AppVersion, row.LastSynced)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.VaultRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, state, app_version, last_synced FROM vaults ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.VaultRow
	for rows.Next() {
		v, err := scanRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaults WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotDeleted
	}
	return nil
}

func scanRow(scan func(dest ...any) error) (*models.VaultRow, error) {
	var (
		v          models.VaultRow
		state      []byte
		appVersion sql.NullString
		lastSynced sql.NullTime
	)
	if err := scan(&v.UserID, &state, &appVersion, &lastSynced); err != nil {
		return nil, err
	}
	v.State = state
	v.AppVersion = appVersion.String
	if lastSynced.Valid {
		v.LastSynced = lastSynced.Time
	}
	return &v, nil
}
