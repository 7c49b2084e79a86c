package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM's query log through zerolog. With
// IgnoreRecordNotFoundError set, misses are not logged as errors.
type GormLogger struct {
	base   zerolog.Logger
	config gormlogger.Config
}

// NewGormLogger builds a GORM logger on top of base. A logger carried in
// the query context takes precedence, so request ids reach SQL lines.
func NewGormLogger(base zerolog.Logger, config gormlogger.Config) *GormLogger {
	return &GormLogger{base: base, config: config}
}

func (l *GormLogger) from(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if lg, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
			return lg
		}
	}
	return l.base
}

// LogMode returns a copy of the logger at level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.config.LogLevel = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.config.LogLevel >= gormlogger.Info {
		log := l.from(ctx)
		log.Info().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.config.LogLevel >= gormlogger.Warn {
		log := l.from(ctx)
		log.Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.config.LogLevel >= gormlogger.Error {
		log := l.from(ctx)
		log.Error().Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs failed queries, slow queries and, at Info level, every query.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.config.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	log := l.from(ctx)
	switch {
	case err != nil && l.config.LogLevel >= gormlogger.Error &&
		!(l.config.IgnoreRecordNotFoundError && errors.Is(err, gorm.ErrRecordNotFound)):
		sql, rows := fc()
		log.Error().Err(err).
			Str(FieldSQL, sql).
			Int64(FieldRows, rows).
			Dur(FieldElapsed, elapsed).
			Msg("gorm query error")
	case l.config.SlowThreshold != 0 && elapsed > l.config.SlowThreshold && l.config.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn().
			Str(FieldSQL, sql).
			Int64(FieldRows, rows).
			Dur(FieldElapsed, elapsed).
			Msg("gorm slow query")
	case l.config.LogLevel >= gormlogger.Info:
		sql, rows := fc()
		log.Debug().
			Str(FieldSQL, sql).
			Int64(FieldRows, rows).
			Dur(FieldElapsed, elapsed).
			Msg("gorm query")
	}
}
