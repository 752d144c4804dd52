// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tomtom215/steamlens/internal/logging"
)

var (
	// ErrMissingInput is returned when an input file does not exist.
	ErrMissingInput = errors.New("missing input file")

	// ErrMissingSource is returned when a table a step reads from does not exist.
	ErrMissingSource = errors.New("missing source data")

	// ErrSchemaMismatch matches every *SchemaError via errors.Is.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// SchemaError reports an expected column absent from a table or CSV file.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: %s has no column %q", e.Table, e.Column)
}

// Is lets errors.Is(err, ErrSchemaMismatch) match any SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// IsFatal reports whether err must abort a pipeline run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingInput) ||
		errors.Is(err, ErrMissingSource) ||
		errors.Is(err, ErrSchemaMismatch)
}

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, logger *zerolog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		if logger == nil {
			l := logging.Logger()
			logger = &l
		}
		logger.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in error paths where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
