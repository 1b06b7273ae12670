package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model/dbModel"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) (value string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.Get"
	query := `SELECT key, value, updated_at FROM kv_store WHERE key = $1`

	slog.Debug("Get start", slog.String("rqID", rqID), slog.String("op", op), slog.String("key", key))
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			slog.Error("Get failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Get completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	row := dbModel.KV{}
	err = p.db.QueryRowxContext(ctx, query, key).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	return row.Value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.Set"
	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	slog.Debug("Set start", slog.String("rqID", rqID), slog.String("op", op), slog.String("key", key))
	defer func() {
		if err != nil {
			slog.Error("Set failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Set completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = p.db.ExecContext(ctx, query, key, value)
	return err
}
