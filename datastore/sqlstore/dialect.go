/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/suparena/contenttemplate/errors"
)

// Dialect names a supported SQL engine. Its value is the database/sql
// driver name.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "pgx"
	MySQL    Dialect = "mysql"
)

// Dialects lists every supported dialect
var Dialects = []Dialect{SQLite, Postgres, MySQL}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseDialect validates a dialect name
func ParseDialect(name string) (Dialect, error) {
	for _, d := range Dialects {
		if string(d) == name {
			return d, nil
		}
	}
	return "", errors.NewValidationError("dialect", fmt.Sprintf("unsupported dialect %q", name))
}

// quote validates name as an identifier and quotes it for the dialect.
func (d Dialect) quote(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", errors.NewValidationError("identifier", fmt.Sprintf("invalid identifier %q", name))
	}
	if d == MySQL {
		return "`" + name + "`", nil
	}
	return `"` + name + `"`, nil
}

// rebind rewrites ? placeholders to $n for postgres, skipping quoted text.
func (d Dialect) rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	var quote rune
	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// emptyInsert is the statement inserting a row with default values only.
func (d Dialect) emptyInsert(table string) string {
	if d == MySQL {
		return "INSERT INTO " + table + " () VALUES ()"
	}
	return "INSERT INTO " + table + " DEFAULT VALUES"
}

// orderBy validates a "col [ASC|DESC], ..." sort order and quotes it.
func (d Dialect) orderBy(sortOrder string) (string, error) {
	var terms []string
	for _, term := range strings.Split(sortOrder, ",") {
		fields := strings.Fields(term)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 2 {
			return "", errors.NewValidationError("sortOrder", fmt.Sprintf("cannot parse %q", term))
		}
		col, err := d.quote(fields[0])
		if err != nil {
			return "", err
		}
		if len(fields) == 2 {
			dir := strings.ToUpper(fields[1])
			if dir != "ASC" && dir != "DESC" {
				return "", errors.NewValidationError("sortOrder", fmt.Sprintf("unknown direction %q", fields[1]))
			}
			col += " " + dir
		}
		terms = append(terms, col)
	}
	return strings.Join(terms, ", "), nil
}

// normalizeDSN applies the settings the store relies on to a DSN.
func (d Dialect) normalizeDSN(dsn string) (string, error) {
	if d != MySQL {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errors.NewValidationError("dsn", err.Error())
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
