/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/storagemodels"
)

// DefaultKeyAttribute is the partition key attribute unless configured otherwise
const DefaultKeyAttribute = "id"

// Option configures a Store
type Option func(*Store)

// WithKeyAttribute sets the partition key attribute of every table
func WithKeyAttribute(attribute string) Option {
	return func(s *Store) {
		if attribute != "" {
			s.keyAttribute = attribute
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store implements datastore.Provider on DynamoDB. The first address
// segment names the table and the optional second one the partition key,
// which is always stored as a string.
type Store struct {
	client       API
	keyAttribute string
	logger       *slog.Logger
}

var _ datastore.Provider = (*Store)(nil)

// New constructs a Store over client
func New(client API, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.NewValidationError("client", "DynamoDB client is required")
	}
	s := &Store{
		client:       client,
		keyAttribute: DefaultKeyAttribute,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func tableOf(addr storagemodels.Address) (*string, error) {
	name := addr.Table()
	if name == "" {
		return nil, errors.NewValidationError("address", fmt.Sprintf("%s does not name a table", addr))
	}
	return aws.String(name), nil
}

func (s *Store) keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.keyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return stderrors.As(err, &cfe)
}

// Insert puts values as a new item. A missing key gets a generated UUID;
// an existing item with the same key is a condition failure.
func (s *Store) Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error) {
	table, err := tableOf(addr)
	if err != nil {
		return storagemodels.Address{}, err
	}

	item, err := attributevalue.MarshalMap(map[string]any(values))
	if err != nil {
		return storagemodels.Address{}, fmt.Errorf("failed to marshal values: %w", err)
	}
	if item == nil {
		item = make(map[string]types.AttributeValue)
	}

	id := uuid.NewString()
	if v, ok := values[s.keyAttribute]; ok && v != nil {
		if id, err = datastore.ToString(v); err != nil {
			return storagemodels.Address{}, err
		}
	}
	item[s.keyAttribute] = &types.AttributeValueMemberS{Value: id}

	expr := newExpression()
	cond := "attribute_not_exists(" + expr.key(s.keyAttribute) + ")"
	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:                table,
		Item:                     item,
		ConditionExpression:      &cond,
		ExpressionAttributeNames: expr.attributeNames(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return storagemodels.Address{}, errors.NewConditionFailedError("insert", fmt.Sprintf("%s %s already exists", *table, id))
		}
		return storagemodels.Address{}, fmt.Errorf("PutItem failed: %w", err)
	}

	s.logger.Debug("inserted item", "table", *table, "id", id)
	return storagemodels.Address{Authority: addr.Authority, Path: *table}.WithID(id), nil
}

// Query reads the items at params.Address. A record address without a
// selection is a GetItem; everything else is a paginated Scan. Sorting
// happens in memory.
func (s *Store) Query(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error) {
	if params == nil {
		return nil, errors.NewValidationError("params", "query parameters are required")
	}
	table, err := tableOf(params.Address)
	if err != nil {
		return nil, err
	}

	id, hasID := params.Address.ID()
	expr := newExpression()
	// sort attributes outside the projection are read, then dropped
	sortExtra := datastore.SortColumns(params.Projection, params.SortOrder)
	var projection *string
	if len(params.Projection) > 0 {
		projection = expr.projection(append(slices.Clip(params.Projection), sortExtra...))
	}

	var items []map[string]types.AttributeValue
	if hasID && params.Selection.IsEmpty() {
		out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
			TableName:                table,
			Key:                      s.keyOf(id),
			ProjectionExpression:     projection,
			ExpressionAttributeNames: expr.attributeNames(),
		})
		if err != nil {
			return nil, fmt.Errorf("GetItem error: %w", err)
		}
		if out.Item != nil {
			items = append(items, out.Item)
		}
	} else {
		items, err = s.scan(ctx, table, expr, projection, id, hasID, params.Selection)
		if err != nil {
			return nil, err
		}
	}

	cols := params.Projection
	if len(cols) == 0 {
		cols = s.columnsOf(items)
	}
	full := append(slices.Clip(cols), datastore.SortColumns(cols, params.SortOrder)...)
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		row := make([]any, len(full))
		for i, c := range full {
			av, ok := item[c]
			if !ok {
				continue
			}
			if row[i], err = fromAttribute(av); err != nil {
				return nil, fmt.Errorf("failed to read attribute %q: %w", c, err)
			}
		}
		rows = append(rows, row)
	}
	if err := datastore.SortRows(full, rows, params.SortOrder); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i] = rows[i][:len(cols)]
	}

	s.logger.Debug("queried items", "table", *table, "items", len(rows))
	return datastore.NewRowsCursor(cols, rows), nil
}

func (s *Store) scan(ctx context.Context, table *string, expr *expression, projection *string, id string, hasID bool, sel *storagemodels.Selection) ([]map[string]types.AttributeValue, error) {
	filter, err := expr.selection(sel)
	if err != nil {
		return nil, err
	}
	if hasID {
		expr.values[":id"] = &types.AttributeValueMemberS{Value: id}
		filter = and(expr.key(s.keyAttribute)+" = :id", filter)
	}

	input := &sdk.ScanInput{
		TableName:                 table,
		ProjectionExpression:      projection,
		ExpressionAttributeNames:  expr.attributeNames(),
		ExpressionAttributeValues: expr.attributeValues(),
	}
	if filter != "" {
		input.FilterExpression = aws.String(filter)
	}

	var items []map[string]types.AttributeValue
	paginator := sdk.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// columnsOf returns the key attribute followed by every other attribute, sorted
func (s *Store) columnsOf(items []map[string]types.AttributeValue) []string {
	seen := map[string]bool{s.keyAttribute: true}
	var rest []string
	for _, item := range items {
		for k := range item {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append([]string{s.keyAttribute}, rest...)
}

// keys returns the ids of the items an update or delete applies to.
func (s *Store) keys(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) ([]string, error) {
	if id, ok := addr.ID(); ok {
		return []string{id}, nil
	}

	params := storagemodels.NewQueryParams(addr, s.keyAttribute)
	params.Selection = sel
	cur, err := s.Query(ctx, params)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	var ids []string
	for cur.Next() {
		id, err := cur.String(0)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, cur.Err()
}

// Update sets values on every matching item and returns how many were
// updated. Items whose condition fails, including ones that do not
// exist, are not counted.
func (s *Store) Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error) {
	table, err := tableOf(addr)
	if err != nil {
		return 0, err
	}
	ids, err := s.keys(ctx, addr, sel)
	if err != nil {
		return 0, err
	}

	var n int64
	for _, id := range ids {
		expr := newExpression()
		update, err := expr.buildUpdateExpression(values, s.keyAttribute)
		if err != nil {
			return n, err
		}
		filter, err := expr.selection(sel)
		if err != nil {
			return n, err
		}
		cond := and("attribute_exists("+expr.key(s.keyAttribute)+")", filter)

		_, err = s.client.UpdateItem(ctx, &sdk.UpdateItemInput{
			TableName:                 table,
			Key:                       s.keyOf(id),
			UpdateExpression:          &update,
			ConditionExpression:       &cond,
			ExpressionAttributeNames:  expr.attributeNames(),
			ExpressionAttributeValues: expr.attributeValues(),
		})
		if err != nil {
			if isConditionFailed(err) {
				continue
			}
			return n, fmt.Errorf("UpdateItem failed: %w", err)
		}
		n++
	}
	return n, nil
}

// Delete removes every matching item and returns how many were removed
func (s *Store) Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error) {
	table, err := tableOf(addr)
	if err != nil {
		return 0, err
	}
	ids, err := s.keys(ctx, addr, sel)
	if err != nil {
		return 0, err
	}

	var n int64
	for _, id := range ids {
		expr := newExpression()
		filter, err := expr.selection(sel)
		if err != nil {
			return n, err
		}
		cond := and("attribute_exists("+expr.key(s.keyAttribute)+")", filter)

		_, err = s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName:                 table,
			Key:                       s.keyOf(id),
			ConditionExpression:       &cond,
			ExpressionAttributeNames:  expr.attributeNames(),
			ExpressionAttributeValues: expr.attributeValues(),
		})
		if err != nil {
			if isConditionFailed(err) {
				continue
			}
			return n, fmt.Errorf("failed to delete item in DynamoDB: %w", err)
		}
		n++
	}
	return n, nil
}
