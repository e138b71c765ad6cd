/*
Package mock provides in-memory test doubles for the datastore contracts.

Provider stores records in memory and supports error injection in the same
builder style for every operation:

	provider := mock.New().
	    WithInsertError(errors.Remote(io.ErrClosedPipe))

Cursor counts closes and records reads after close, so resource handling can
be asserted:

	c := mock.NewCursor([]string{"count"}, []any{nil}).WithStrictNulls()
	// ... hand c to the code under test ...
	if c.CloseCount() != 1 || len(c.Violations()) > 0 {
	    t.Fatal("cursor mishandled")
	}

Client and LegacyClient wrap a provider as a dedicated client with and
without the Close primitive.
*/
package mock
