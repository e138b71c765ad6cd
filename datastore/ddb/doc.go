/*
Package ddb provides a DynamoDB implementation of the datastore.Provider interface.

The Store supports:
  - One table per address: content://<authority>/<table>[/<id>]
  - GetItem for record addresses, paginated Scan for everything else
  - Conditional writes: inserts never overwrite, updates and deletes only
    touch items that exist and match the selection
  - Generated UUID keys when an insert carries none

Selections:
A selection is a DynamoDB condition expression. Each ? binds the next
argument and each #name token refers to the attribute of that name:

	params := storagemodels.NewQueryParams(addr, "name", "count").
	    Where("#count >= ? AND begins_with(#name, ?)", 10, "a").
	    OrderBy("name DESC")

Sorting happens in memory after the scan.

The "dynamodb" backend kind is registered with the registry package, so a
configuration only needs a region (and optionally static credentials or an
endpoint such as DynamoDB Local):

	p, err := open(ctx, registry.BackendSpec{Kind: "dynamodb", Region: "us-east-1"}, logger)
*/
package ddb
