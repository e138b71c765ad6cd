/*
Package registry holds the process-wide registrations of contenttemplate.

Column Map Registry:
Associates Go types with the columns their fields are stored in, used by the
struct mappers in package mapping:

	registry.RegisterColumnMap[Note](map[string]string{
	    "ID":        "_id",
	    "Title":     "title",
	    "CreatedAt": "created_at",
	})

Backend Registry:
Maps a backend kind to the constructor of its provider. Backends register in
init(), so importing a backend package makes it available to configuration:

	import _ "github.com/suparena/contenttemplate/datastore/sqlstore"

	fn, err := registry.GetBackend("sqlite")

Both registries are thread-safe and should be populated during initialization.
*/
package registry
