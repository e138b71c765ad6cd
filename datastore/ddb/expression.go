/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/storagemodels"
)

const keyName = "#key"

var namePattern = regexp.MustCompile(`#([A-Za-z_][A-Za-z0-9_]*)`)

// expression accumulates the attribute names and values shared by the
// expressions of one request.
type expression struct {
	names  map[string]string
	values map[string]types.AttributeValue
}

func newExpression() *expression {
	return &expression{
		names:  make(map[string]string),
		values: make(map[string]types.AttributeValue),
	}
}

// attributeNames returns nil when no names were used, as DynamoDB rejects
// an empty map.
func (e *expression) attributeNames() map[string]string {
	if len(e.names) == 0 {
		return nil
	}
	return e.names
}

func (e *expression) attributeValues() map[string]types.AttributeValue {
	if len(e.values) == 0 {
		return nil
	}
	return e.values
}

func (e *expression) key(attribute string) string {
	e.names[keyName] = attribute
	return keyName
}

// projection builds a ProjectionExpression naming every column.
func (e *expression) projection(columns []string) *string {
	if len(columns) == 0 {
		return nil
	}
	refs := make([]string, len(columns))
	for i, c := range columns {
		ref := "#p" + strconv.Itoa(i)
		e.names[ref] = c
		refs[i] = ref
	}
	joined := strings.Join(refs, ", ")
	return &joined
}

// selection rewrites a selection into a filter expression. Each ? binds
// the next argument as :a0, :a1, ... and each #name token refers to the
// attribute of that name.
func (e *expression) selection(sel *storagemodels.Selection) (string, error) {
	if sel.IsEmpty() {
		return "", nil
	}

	var b strings.Builder
	n := 0
	for _, r := range sel.Where {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		if n >= len(sel.Args) {
			return "", errors.NewValidationError("selection", fmt.Sprintf("%d placeholders but %d args", n+1, len(sel.Args)))
		}
		ref := ":a" + strconv.Itoa(n)
		av, err := attributevalue.Marshal(sel.Args[n])
		if err != nil {
			return "", fmt.Errorf("failed to marshal selection arg %d: %w", n, err)
		}
		e.values[ref] = av
		b.WriteString(ref)
		n++
	}
	if n != len(sel.Args) {
		return "", errors.NewValidationError("selection", fmt.Sprintf("%d placeholders but %d args", n, len(sel.Args)))
	}

	for _, m := range namePattern.FindAllStringSubmatch(sel.Where, -1) {
		if m[0] == keyName {
			return "", errors.NewValidationError("selection", keyName+" is reserved")
		}
		e.names[m[0]] = m[1]
	}
	return b.String(), nil
}

// buildUpdateExpression transforms a map of field->value into an update
// expression such as "SET #f0 = :v0, #f1 = :v1". Fields are visited in
// sorted order and skip is left out.
func (e *expression) buildUpdateExpression(updates storagemodels.Values, skip string) (string, error) {
	setClauses := make([]string, 0, len(updates))
	i := 0
	for _, field := range updates.Columns() {
		if field == skip {
			continue
		}
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return "", fmt.Errorf("failed to marshal update value for field '%s': %w", field, err)
		}
		setClauses = append(setClauses, placeholderName+" = "+placeholderValue)
		e.names[placeholderName] = field
		e.values[placeholderValue] = av
		i++
	}
	if len(setClauses) == 0 {
		return "", errors.NewValidationError("values", "no updates provided")
	}
	return "SET " + strings.Join(setClauses, ", "), nil
}

// and joins non-empty conditions.
func and(conditions ...string) string {
	var parts []string
	for _, c := range conditions {
		if c != "" {
			parts = append(parts, "("+c+")")
		}
	}
	return strings.Join(parts, " AND ")
}

// fromAttribute converts a stored attribute to the value a cursor reads.
// Numbers become int64 when integral and float64 otherwise.
func fromAttribute(av types.AttributeValue) (any, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		if n, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", v.Value, err)
		}
		return f, nil
	case *types.AttributeValueMemberB:
		return v.Value, nil
	case *types.AttributeValueMemberBOOL:
		return v.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	default:
		var out any
		if err := attributevalue.Unmarshal(av, &out); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attribute: %w", err)
		}
		return out, nil
	}
}
