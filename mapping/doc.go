/*
Package mapping defines the caller-supplied strategies the template applies
to query results and to objects being written.

  - RowMapper[T] builds one object from the current cursor row
  - RowCallback consumes rows for side effects, without collecting them
  - ValueMapper[T] turns an object into the column values to write

Each has a Func adapter so plain functions can be passed:

	titles := mapping.RowMapperFunc[string](func(c datastore.Cursor, _ int) (string, error) {
	    return columns.RequiredString(c, "title")
	})

Struct mappers map exported fields by the column map registry or by
`column` struct tags:

	type Note struct {
	    ID    int64  `column:"_id"`
	    Title string `column:"title"`
	}

	rows, _ := mapping.NewStructRowMapper[Note]()
	vals, _ := mapping.NewStructValueMapper[Note]()
*/
package mapping
