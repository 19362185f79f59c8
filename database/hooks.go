package database

import (
	"time"

	"pos-backend/metrics"

	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

// RegisterMetricsHooks times every create, query, update and delete and
// feeds the collector.
func RegisterMetricsHooks(db *gorm.DB, collector *metrics.Metrics) error {
	type hook struct {
		op       string
		register func(before, after func(*gorm.DB)) error
	}

	callbacks := db.Callback()
	hooks := []hook{
		{"create", func(before, after func(*gorm.DB)) error {
			if err := callbacks.Create().Before("gorm:create").Register("metrics:before_create", before); err != nil {
				return err
			}
			return callbacks.Create().After("gorm:create").Register("metrics:after_create", after)
		}},
		{"query", func(before, after func(*gorm.DB)) error {
			if err := callbacks.Query().Before("gorm:query").Register("metrics:before_query", before); err != nil {
				return err
			}
			return callbacks.Query().After("gorm:query").Register("metrics:after_query", after)
		}},
		{"update", func(before, after func(*gorm.DB)) error {
			if err := callbacks.Update().Before("gorm:update").Register("metrics:before_update", before); err != nil {
				return err
			}
			return callbacks.Update().After("gorm:update").Register("metrics:after_update", after)
		}},
		{"delete", func(before, after func(*gorm.DB)) error {
			if err := callbacks.Delete().Before("gorm:delete").Register("metrics:before_delete", before); err != nil {
				return err
			}
			return callbacks.Delete().After("gorm:delete").Register("metrics:after_delete", after)
		}},
	}

	for _, h := range hooks {
		name := "db_" + h.op
		if err := h.register(logStart, func(tx *gorm.DB) {
			collector.IncrementCounter(name)
			collector.RecordResult(name, tx.Error != nil && tx.Error != gorm.ErrRecordNotFound)
			collector.RecordTimer(name, getDuration(tx))
		}); err != nil {
			return err
		}
	}
	return nil
}

func logStart(tx *gorm.DB) {
	tx.InstanceSet(startTimeKey, time.Now())
}

func getDuration(tx *gorm.DB) time.Duration {
	if start, ok := tx.InstanceGet(startTimeKey); ok {
		return time.Since(start.(time.Time))
	}
	return 0
}
