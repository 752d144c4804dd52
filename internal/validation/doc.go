// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the config loader and the
// dashboard API. Field names in error messages come from the koanf or json
// tag of the field, so a config failure reads "pipeline.csv_path is required"
// and an API failure reads "limit must be at most 500".
//
// Custom tags:
//   - sqlident: a bare SQL identifier ([A-Za-z_][A-Za-z0-9_]*), used for
//     table names that arrive in URLs before they are quoted
//
// Example:
//
//	type GraphRequest struct {
//	    Limit int `json:"limit" validate:"min=1,max=500"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	}
package validation
