/*
Package contenttemplate removes the boilerplate of reading and writing
structured data through content providers.

A provider is reached through a content address, content://<authority>/<path>,
either via a shared resolver or via a dedicated provider client. A Template
hides the difference behind a Gateway and owns the cursor of every query: it
is closed exactly once on every path, including mapping and iteration
failures. Callers supply mapping strategies from the mapping package and
read columns by name with the columns package.

Basic Usage:

	r := resolver.New()
	_ = r.Register("notes", store)

	tmpl, _ := contenttemplate.New(r)

	addr := storagemodels.MustParseAddress("content://notes/items")
	params := storagemodels.NewQueryParams(addr, "_id", "title").Where("done = ?", 0)

	titles, err := contenttemplate.QueryForList(ctx, tmpl, params, mapping.NamedColumnString("title"))

A Template over a dedicated client reports transport failures as
*errors.UnrecoverableError and must be released with CloseClient:

	client, _ := r.AcquireClient("notes")
	tmpl, _ := contenttemplate.NewWithClient(client)
	defer tmpl.CloseClient()

Repository binds a Template to one collection and the mappers of a type:

	notes, _ := contenttemplate.NewRepository[Note](tmpl, addr, nil, nil)
	note, err := notes.Get(ctx, "42")
*/
package contenttemplate
