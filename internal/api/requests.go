// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tomtom215/steamlens/internal/models"
	"github.com/tomtom215/steamlens/internal/validation"
)

// GraphRequest holds the query parameters of GET /api/v1/graph.
type GraphRequest struct {
	Limit int `json:"limit" validate:"min=1,max=500"`
}

// parseGraphRequest reads the limit parameter, falling back to defaultLimit
// when it is absent.
func parseGraphRequest(r *http.Request, defaultLimit int) (*GraphRequest, *models.APIError) {
	req := &GraphRequest{Limit: defaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &models.APIError{
				Code:    ErrCodeValidation,
				Message: fmt.Sprintf("limit must be an integer, got %q", raw),
				Details: map[string]interface{}{"field": "limit", "tag": "int", "value": raw},
			}
		}
		req.Limit = n
	}

	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

// validateRequest runs go-playground/validator over v.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}
