/*
Package columns provides typed, null-aware reads of the current cursor row.

Every type has a required form that reads the named column directly and a
nullable form that returns nil for a null cell without invoking the cursor's
native getter:

	title, err := columns.RequiredString(c, "title")
	rating, err := columns.Int(c, "rating") // *int32, nil when null

Booleans are stored as integers and read as true only for 1. None of the
helpers move the cursor.
*/
package columns
