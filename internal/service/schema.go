package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const schemaCacheTTL = 5 * time.Minute

// EmbeddedSchema is the known DDL of the schedule table, used whenever a live
// fetch fails. The dataset's schema has been stable for years.
const EmbeddedSchema = "CREATE TABLE `combined-schedule` (\n" +
	"  `primary_key` varchar(16383) NOT NULL,\n" +
	"  `sport` varchar(16383),\n" +
	"  `level` varchar(16383),\n" +
	"  `league` varchar(16383),\n" +
	"  `date` date,\n" +
	"  `day` varchar(16383),\n" +
	"  `time` varchar(16383),\n" +
	"  `home_team` varchar(16383),\n" +
	"  `road_team` varchar(16383),\n" +
	"  `location` varchar(16383),\n" +
	"  `home_city` varchar(16383),\n" +
	"  `home_state` varchar(16383),\n" +
	"  PRIMARY KEY (`primary_key`)\n" +
	")"

// schemaCache keeps the live CREATE TABLE statement for a few minutes so
// repeated agent runs don't re-fetch it. Concurrent misses share one fetch
// via singleflight.
type schemaCache struct {
	svc *DoltService

	mu        sync.RWMutex
	ddl       string
	expiresAt time.Time
	sf        singleflight.Group
}

func newSchemaCache(svc *DoltService) *schemaCache {
	return &schemaCache{svc: svc}
}

func (c *schemaCache) get(ctx context.Context) string {
	c.mu.RLock()
	if c.ddl != "" && time.Now().Before(c.expiresAt) {
		ddl := c.ddl
		c.mu.RUnlock()
		return ddl
	}
	c.mu.RUnlock()

	v, err, _ := c.sf.Do(ScheduleTable, func() (any, error) {
		// Another goroutine may have filled the cache while we waited.
		c.mu.RLock()
		if c.ddl != "" && time.Now().Before(c.expiresAt) {
			ddl := c.ddl
			c.mu.RUnlock()
			return ddl, nil
		}
		c.mu.RUnlock()

		result, err := c.svc.Query(ctx, "SHOW CREATE TABLE `"+ScheduleTable+"`")
		if err != nil {
			log.Warn().Err(err).Msg("schema fetch failed, using embedded schema")
			return EmbeddedSchema, nil // soft fail, don't cache
		}
		ddl := extractDDL(result.Rows)
		if ddl == "" {
			return EmbeddedSchema, nil
		}

		c.mu.Lock()
		c.ddl = ddl
		c.expiresAt = time.Now().Add(schemaCacheTTL)
		c.mu.Unlock()

		log.Debug().Str("table", ScheduleTable).Msg("schema cached")
		return ddl, nil
	})
	if err != nil || v == nil {
		return EmbeddedSchema
	}
	return v.(string)
}

// extractDDL pulls the statement out of a SHOW CREATE TABLE result, which is
// one row of [table_name, create_statement].
func extractDDL(rows [][]any) string {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return ""
	}
	ddl, _ := rows[0][1].(string)
	return ddl
}
