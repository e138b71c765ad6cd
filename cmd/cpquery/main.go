/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command cpquery queries a content provider configured in a YAML file and
// prints every row as a YAML document.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suparena/contenttemplate"
	"github.com/suparena/contenttemplate/config"
	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/mapping"
	"github.com/suparena/contenttemplate/storagemodels"
)

// argList collects repeated -arg flags
type argList []string

func (a *argList) String() string { return strings.Join(*a, ",") }

func (a *argList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

// parseArg types a selection argument the way a YAML scalar would be
func parseArg(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cpquery", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  = fs.String("config", "providers.yaml", "Provider configuration file")
		uri         = fs.String("uri", "", "Content address to query, e.g. content://notes/items")
		projection  = fs.String("projection", "", "Comma separated columns to return (default all)")
		where       = fs.String("where", "", "Selection clause with ? placeholders")
		sortOrder   = fs.String("sort", "", "Sort order, e.g. \"name DESC\"")
		useClient   = fs.Bool("client", false, "Query through a dedicated provider client")
		versionFlag = fs.Bool("version", false, "Show version information")
		verbose     = fs.Bool("v", false, "Enable debug logging")
		whereArgs   argList
	)
	fs.Var(&whereArgs, "arg", "Selection argument (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *versionFlag {
		info := contenttemplate.GetVersionInfo()
		fmt.Fprintf(stdout, "contenttemplate cpquery version %s\n", info.Version)
		fmt.Fprintf(stdout, "Git commit: %s\n", info.GitCommit)
		fmt.Fprintf(stdout, "Build date: %s\n", info.BuildDate)
		fmt.Fprintf(stdout, "Go version: %s\n", info.GoVersion)
		return 0
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if *uri == "" {
		fmt.Fprintln(stderr, "cpquery: -uri is required")
		fs.Usage()
		return 2
	}
	addr, err := storagemodels.ParseAddress(*uri)
	if err != nil {
		logger.Error("invalid address", "uri", *uri, "error", err)
		return 1
	}

	params := storagemodels.NewQueryParams(addr, splitColumns(*projection)...).OrderBy(*sortOrder)
	if *where != "" {
		values := make([]any, len(whereArgs))
		for i, a := range whereArgs {
			values[i] = parseArg(a)
		}
		params = params.Where(*where, values...)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return 1
	}
	r, err := config.BuildResolver(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build resolver", "error", err)
		return 1
	}
	defer r.Close()

	tmpl, err := contenttemplate.New(r, contenttemplate.WithLogger(logger))
	if *useClient && err == nil {
		client, cerr := r.AcquireClient(addr.Authority)
		if cerr != nil {
			logger.Error("failed to acquire client", "authority", addr.Authority, "error", cerr)
			return 1
		}
		tmpl, err = contenttemplate.NewWithClient(client, contenttemplate.WithLogger(logger))
		if err == nil {
			defer func() {
				if err := tmpl.CloseClient(); err != nil {
					logger.Warn("failed to release client", "error", err)
				}
			}()
		}
	}
	if err != nil {
		logger.Error("failed to create template", "error", err)
		return 1
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	rows := 0
	err = tmpl.QueryEach(ctx, params, mapping.RowCallbackFunc(func(c datastore.Cursor) error {
		doc, err := rowDocument(c)
		if err != nil {
			return err
		}
		rows++
		return enc.Encode(doc)
	}))
	// Closing an encoder that wrote nothing is an error
	if rows > 0 {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		logger.Error("query failed", "uri", addr.String(), "error", err)
		return 1
	}

	logger.Debug("query complete", "uri", addr.String(), "rows", rows)
	return 0
}

func splitColumns(s string) []string {
	var cols []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// rowDocument renders the current row as an ordered YAML mapping
func rowDocument(c datastore.Cursor) (*yaml.Node, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for i, name := range c.Columns() {
		null, err := c.IsNull(i)
		if err != nil {
			return nil, err
		}
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if !null {
			s, err := c.String(i)
			if err != nil {
				return nil, err
			}
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			value,
		)
	}
	return doc, nil
}
