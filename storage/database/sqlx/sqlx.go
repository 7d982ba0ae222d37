package sqlxrepos

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core/institution"
)

// Postgres error codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqInvalidText         = "22P02"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sqlizer is satisfied by every squirrel builder.
type sqlizer interface {
	ToSql() (string, []interface{}, error)
}

func selectContext(ctx context.Context, db sqlx.ExtContext, dest interface{}, b sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return sqlx.SelectContext(ctx, db, dest, query, args...)
}

func getContext(ctx context.Context, db sqlx.ExtContext, dest interface{}, b sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return sqlx.GetContext(ctx, db, dest, query, args...)
}

// execContext runs b and returns the number of affected rows.
func execContext(ctx context.Context, db sqlx.ExtContext, b sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// pqCode returns the Postgres error code of err, if any.
func pqCode(err error) string {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return string(pqErr.Code)
	}
	return ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains returns the ILIKE pattern matching values containing s.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// featuresJSON stores institution.Features in a JSONB column.
type featuresJSON institution.Features

func (f featuresJSON) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "encoding features")
	}
	return string(data), nil
}

func (f *featuresJSON) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*f = featuresJSON{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("features: unsupported type %T", src)
	}
	m := make(featuresJSON)
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(err, "decoding features")
	}
	*f = m
	return nil
}
