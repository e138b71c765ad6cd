/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/registry"
	"github.com/suparena/contenttemplate/storagemodels"
)

// DefaultKeyColumn is the column record ids live in unless configured otherwise
const DefaultKeyColumn = "_id"

func init() {
	for _, d := range Dialects {
		dialect := d
		registry.RegisterBackend(string(dialect), func(ctx context.Context, spec registry.BackendSpec, logger *slog.Logger) (datastore.Provider, error) {
			return Open(ctx, dialect, spec.DSN, WithKeyColumn(spec.KeyColumn), WithLogger(logger))
		})
	}
}

// Option configures a Store
type Option func(*Store)

// WithKeyColumn sets the column record ids are stored in
func WithKeyColumn(column string) Option {
	return func(s *Store) {
		if column != "" {
			s.keyColumn = column
		}
	}
}

// WithLogger sets the logger for statement tracing
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is a datastore.Provider over a SQL database. Addresses take the
// form content://<authority>/<table>[/<id>]; an id restricts a call to
// the record whose key column equals it.
type Store struct {
	db        *sql.DB
	dialect   Dialect
	keyColumn string
	logger    *slog.Logger
	ownsDB    bool
}

var _ datastore.Provider = (*Store)(nil)

// New wraps an open database. The caller keeps ownership of db.
func New(db *sql.DB, dialect Dialect, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.NewValidationError("db", "database is required")
	}
	if _, err := ParseDialect(string(dialect)); err != nil {
		return nil, err
	}

	s := &Store{
		db:        db,
		dialect:   dialect,
		keyColumn: DefaultKeyColumn,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := dialect.quote(s.keyColumn); err != nil {
		return nil, err
	}
	return s, nil
}

// Open connects to dsn with the driver of dialect. The Store owns the
// connection and releases it on Close.
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*Store, error) {
	if _, err := ParseDialect(string(dialect)); err != nil {
		return nil, err
	}
	dsn, err := dialect.normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == SQLite && strings.Contains(dsn, ":memory:") {
		// every connection would otherwise see its own empty database.
		// Query buffers results on a single connection pool.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := New(db, dialect, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// DB returns the underlying database
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database if the Store opened it
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

func (s *Store) table(addr storagemodels.Address) (string, error) {
	name := addr.Table()
	if name == "" {
		return "", errors.NewValidationError("address", fmt.Sprintf("%s does not name a table", addr))
	}
	return s.dialect.quote(name)
}

// where combines the id of addr and sel into a WHERE clause.
func (s *Store) where(addr storagemodels.Address, sel *storagemodels.Selection) (string, []any, error) {
	var terms []string
	var args []any
	if !sel.IsEmpty() {
		terms = append(terms, "("+sel.Where+")")
		args = append(args, sel.Args...)
	}
	if id, ok := addr.ID(); ok {
		key, err := s.dialect.quote(s.keyColumn)
		if err != nil {
			return "", nil, err
		}
		terms = append(terms, key+" = ?")
		args = append(args, id)
	}
	if len(terms) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(terms, " AND "), args, nil
}

func (s *Store) trace(op, query string, args []any) {
	s.logger.Debug("sql statement", "operation", op, "query", query, "args", len(args))
}

// Insert adds a row to the table of addr and returns the address of the
// new row. The id is the key column value when given, else the one the
// database generated.
func (s *Store) Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error) {
	table, err := s.table(addr)
	if err != nil {
		return storagemodels.Address{}, err
	}
	key, err := s.dialect.quote(s.keyColumn)
	if err != nil {
		return storagemodels.Address{}, err
	}

	var query string
	var args []any
	cols := values.Columns()
	if len(cols) == 0 {
		query = s.dialect.emptyInsert(table)
	} else {
		quoted := make([]string, len(cols))
		marks := make([]string, len(cols))
		for i, c := range cols {
			if quoted[i], err = s.dialect.quote(c); err != nil {
				return storagemodels.Address{}, err
			}
			marks[i] = "?"
			args = append(args, values[c])
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	}

	base := storagemodels.Address{Authority: addr.Authority, Path: addr.Table()}
	given, hasKey := values[s.keyColumn]

	if s.dialect == Postgres && !hasKey {
		query += " RETURNING " + key
		query = s.dialect.rebind(query)
		s.trace("insert", query, args)

		var id any
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return storagemodels.Address{}, fmt.Errorf("failed to insert into %s: %w", addr.Table(), err)
		}
		text, err := datastore.ToString(id)
		if err != nil {
			return storagemodels.Address{}, err
		}
		return base.WithID(text), nil
	}

	query = s.dialect.rebind(query)
	s.trace("insert", query, args)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storagemodels.Address{}, fmt.Errorf("failed to insert into %s: %w", addr.Table(), err)
	}

	if hasKey && given != nil {
		text, err := datastore.ToString(given)
		if err != nil {
			return storagemodels.Address{}, err
		}
		return base.WithID(text), nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storagemodels.Address{}, fmt.Errorf("failed to read id of new row in %s: %w", addr.Table(), err)
	}
	return base.WithID(strconv.FormatInt(id, 10)), nil
}

// Query selects the rows at params.Address. The cursor streams the
// result and holds a connection until it is closed, unless the pool allows
// a single connection: then the result is read into memory first so that a
// caller may write while iterating.
func (s *Store) Query(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error) {
	if params == nil {
		return nil, errors.NewValidationError("params", "query parameters are required")
	}
	table, err := s.table(params.Address)
	if err != nil {
		return nil, err
	}

	projection := "*"
	if len(params.Projection) > 0 {
		quoted := make([]string, len(params.Projection))
		for i, c := range params.Projection {
			if quoted[i], err = s.dialect.quote(c); err != nil {
				return nil, err
			}
		}
		projection = strings.Join(quoted, ", ")
	}

	where, args, err := s.where(params.Address, params.Selection)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + projection + " FROM " + table + where
	if strings.TrimSpace(params.SortOrder) != "" {
		order, err := s.dialect.orderBy(params.SortOrder)
		if err != nil {
			return nil, err
		}
		query += " ORDER BY " + order
	}

	query = s.dialect.rebind(query)
	s.trace("query", query, args)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", params.Address.Table(), err)
	}
	c, err := newRowsCursor(rows)
	if err != nil {
		return nil, err
	}
	if s.db.Stats().MaxOpenConnections == 1 {
		return c.drain()
	}
	return c, nil
}

// Update sets values on the matching rows and returns how many changed.
// The key column is never rewritten.
func (s *Store) Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error) {
	table, err := s.table(addr)
	if err != nil {
		return 0, err
	}

	var sets []string
	var args []any
	for _, c := range values.Columns() {
		if c == s.keyColumn {
			continue
		}
		col, err := s.dialect.quote(c)
		if err != nil {
			return 0, err
		}
		sets = append(sets, col+" = ?")
		args = append(args, values[c])
	}
	if len(sets) == 0 {
		return 0, errors.NewValidationError("values", "no columns to update")
	}

	where, whereArgs, err := s.where(addr, sel)
	if err != nil {
		return 0, err
	}
	query := s.dialect.rebind("UPDATE " + table + " SET " + strings.Join(sets, ", ") + where)
	args = append(args, whereArgs...)
	return s.exec(ctx, "update", addr, query, args)
}

// Delete removes the matching rows and returns how many were removed
func (s *Store) Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error) {
	table, err := s.table(addr)
	if err != nil {
		return 0, err
	}
	where, args, err := s.where(addr, sel)
	if err != nil {
		return 0, err
	}
	query := s.dialect.rebind("DELETE FROM " + table + where)
	return s.exec(ctx, "delete", addr, query, args)
}

func (s *Store) exec(ctx context.Context, op string, addr storagemodels.Address, query string, args []any) (int64, error) {
	s.trace(op, query, args)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s %s: %w", op, addr.Table(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows of %s: %w", op, err)
	}
	return n, nil
}
