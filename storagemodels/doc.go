/*
Package storagemodels defines the data model shared by the template, the
resolver, and the provider backends.

Address:
An opaque locator for a data source plus optional sub-resource:

	addr := storagemodels.MustParseAddress("content://com.example.notes/notes")
	one := addr.WithID("42") // content://com.example.notes/notes/42

Backends read the first path segment as the collection and the second as the
record id.

QueryParams:
Bundles the address with the optional projection, selection, and sort order:

	params := storagemodels.NewQueryParams(addr, "_id", "title").
	    Where("archived = ?", 0).
	    OrderBy("title ASC")

Values:
The column/value set produced by a value mapper for inserts and updates.
*/
package storagemodels
