/*
Package config loads provider configuration and builds a resolver from it.

A configuration is a YAML document listing providers. ${VAR} references are
expanded from the environment, which is seeded from .env files:

	providers:
	  - authority: notes
	    backend: sqlite
	    dsn: file:notes.db
	  - authority: ratings
	    backend: dynamodb
	    region: ${AWS_REGION}
	    keyColumn: pk
	  - authority: scratch
	    backend: memory

Usage:

	cfg, err := config.Load("providers.yaml")
	if err != nil {
	    return err
	}
	r, err := config.BuildResolver(ctx, cfg, logger)
	if err != nil {
	    return err
	}
	defer r.Close()

Importing this package registers the sqlite, pgx, mysql, dynamodb and
memory backends.
*/
package config
