/*
Package resolver brokers access to providers by content address authority.

A Resolver is shared by the whole process and is safe for concurrent use.
Every call it routes looks up the authority and, when configured, runs the
AccessPolicy:

	r := resolver.New(resolver.WithLogger(logger))
	_ = r.Register("notes", store)

	cur, err := r.Query(ctx, storagemodels.NewQueryParams(addr))

A Client is a dedicated connection to one provider. It skips the per-call
lookup and policy check but reports a dead connection as errors.ErrRemote,
and must be released with Close (or the older Release) when done:

	client, err := r.AcquireClient("notes")
	defer client.Close()
*/
package resolver
