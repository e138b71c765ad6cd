/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/suparena/contenttemplate/errors"
)

// Scheme is the URI scheme of every Address.
const Scheme = "content"

// Address locates a data source (the authority) and an optional
// sub-resource (the path), e.g. content://com.example.notes/notes/42.
// Address is an immutable value.
type Address struct {
	Authority string
	Path      string
}

// ParseAddress parses a content:// URI.
func ParseAddress(raw string) (Address, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Address{}, errors.NewValidationError("address", err.Error())
	}
	if u.Scheme != Scheme {
		return Address{}, errors.NewValidationError("address", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return Address{}, errors.NewValidationError("address", "authority is required")
	}

	return Address{
		Authority: u.Host,
		Path:      strings.Trim(u.Path, "/"),
	}, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(raw string) Address {
	addr, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

// String returns the content:// form of the address.
func (a Address) String() string {
	if a.Path == "" {
		return Scheme + "://" + a.Authority
	}
	return Scheme + "://" + a.Authority + "/" + a.Path
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a.Authority == "" && a.Path == ""
}

// Segments returns the path segments.
func (a Address) Segments() []string {
	if a.Path == "" {
		return nil
	}
	return strings.Split(a.Path, "/")
}

// Table returns the first path segment, which backends treat as the collection name.
func (a Address) Table() string {
	segs := a.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// ID returns the second path segment, which backends treat as a record id.
func (a Address) ID() (string, bool) {
	segs := a.Segments()
	if len(segs) < 2 || segs[1] == "" {
		return "", false
	}
	return segs[1], true
}

// WithID returns a copy of the address with id appended to its path.
func (a Address) WithID(id string) Address {
	path := id
	if a.Path != "" {
		path = a.Path + "/" + id
	}
	return Address{Authority: a.Authority, Path: path}
}
