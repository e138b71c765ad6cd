/*
Package datastore defines the backend contracts of the contenttemplate library.

Provider is the data-access primitive every backend implements:

	type Provider interface {
	    Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error)
	    Query(ctx context.Context, params *storagemodels.QueryParams) (Cursor, error)
	    Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error)
	    Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error)
	}

Cursor is the forward-only result of a query. Whoever receives a Cursor owns
it and must close it exactly once.

Implementations:
  - sqlstore: database/sql backed provider (sqlite, postgres via pgx, mysql)
  - ddb: DynamoDB backed provider
  - mock: In-memory provider and cursor test doubles

RowsCursor and the To* conversion helpers give every backend the same
coercion rules for the native getters.
*/
package datastore
