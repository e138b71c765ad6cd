/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds record types shared by provider tests.
package testmodels

import "github.com/go-openapi/strfmt"

type RatingSystem struct {

	// Unique identifier for the rating system. Generated by the provider
	// when empty.
	ID string `column:"id,omitempty"`

	// Name of the rating system.
	// Required: true
	Name *string `column:"name"`

	// A description of the rating system.
	Description *string `column:"description"`

	// site Url
	SiteURL string `column:"siteUrl,omitempty"`

	// Number of ratings recorded under the system.
	Ratings int64 `column:"ratings"`

	// Timestamp when the rating system was created.
	// Format: date-time
	CreatedAt *strfmt.DateTime `column:"createdAt"`
}
