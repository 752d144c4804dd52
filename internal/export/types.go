// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package export

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/duckdb/duckdb-go/v2"
)

// SQLite storage classes used for exported columns.
const (
	TypeInteger = "INTEGER"
	TypeReal    = "REAL"
	TypeText    = "TEXT"
)

// sqliteType maps a DuckDB column type name to a SQLite column type.
func sqliteType(duckType string) string {
	t := strings.ToUpper(strings.TrimSpace(duckType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT",
		"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "UHUGEINT",
		"BOOLEAN":
		return TypeInteger
	case "FLOAT", "DOUBLE", "REAL", "DECIMAL":
		return TypeReal
	default:
		return TypeText
	}
}

// sqliteValue converts a value scanned from DuckDB into one the SQLite
// driver stores losslessly for the column types above.
func sqliteValue(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > 1<<63-1 {
			return fmt.Sprintf("%d", x), nil
		}
		return int64(x), nil
	case *big.Int:
		if x.IsInt64() {
			return x.Int64(), nil
		}
		return x.String(), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case duckdb.Decimal:
		return x.Float64(), nil
	case string:
		return x, nil
	case []byte:
		return x, nil
	case time.Time:
		return x.UTC().Format(time.RFC3339), nil
	case duckdb.Interval:
		return fmt.Sprintf("%d months %d days %d us", x.Months, x.Days, x.Micros), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
