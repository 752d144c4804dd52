// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

/*
Package cache provides a small thread-safe TTL cache for the dashboard read
path.

The exported SQLite file only changes when the ETL job reruns, so full table
reads are cached for a short TTL (server.cache_ttl) and served from memory.
A zero TTL disables caching in the store rather than here.

# Usage

	c := cache.New(30 * time.Second)
	defer c.Close()

	c.Set("table:question4_samples_500", data)
	if v, ok := c.Get("table:question4_samples_500"); ok {
	    return v.(*models.TableData), nil
	}

Expired entries are dropped lazily on Get and by a background sweep that
stops on Close.
*/
package cache
