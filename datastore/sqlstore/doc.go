/*
Package sqlstore implements datastore.Provider over SQL databases.

Three dialects are supported, each registered as a backend kind of the
same name:

  - sqlite, through modernc.org/sqlite
  - pgx (PostgreSQL), through github.com/jackc/pgx/v5/stdlib
  - mysql, through github.com/go-sql-driver/mysql

The first path segment of an address is the table and the optional second
segment the record id, matched against the key column (_id by default).
Selections are SQL predicates with ? placeholders; they are rewritten to
$n for PostgreSQL. Table, column and sort identifiers are validated and
quoted.

	store, err := sqlstore.Open(ctx, sqlstore.SQLite, "file:notes.db")
	if err != nil {
		return err
	}
	defer store.Close()
*/
package sqlstore
