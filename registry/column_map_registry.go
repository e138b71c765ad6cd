/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// ColumnMapRegistry associates Go types with their field -> column maps.

var (
	columnMapRegistry = make(map[reflect.Type]map[string]string)
	mu                sync.RWMutex
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterColumnMap associates a Go type T with a map of struct field names
// to column names. Registering T again replaces its map.
func RegisterColumnMap[T any](fieldToColumn map[string]string) {
	t := typeOf[T]()

	copied := make(map[string]string, len(fieldToColumn))
	for k, v := range fieldToColumn {
		copied[k] = v
	}

	mu.Lock()
	defer mu.Unlock()
	columnMapRegistry[t] = copied
}

// GetColumnMap retrieves the column map for type T, if any.
func GetColumnMap[T any]() (map[string]string, bool) {
	t := typeOf[T]()

	mu.RLock()
	defer mu.RUnlock()
	m, ok := columnMapRegistry[t]
	return m, ok
}

// UnregisterColumnMap removes the column map for type T.
func UnregisterColumnMap[T any]() {
	t := typeOf[T]()

	mu.Lock()
	defer mu.Unlock()
	delete(columnMapRegistry, t)
}
