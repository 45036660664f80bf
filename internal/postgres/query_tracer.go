package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/upassistify/upassistify/internal/logger"
)

// slowQuery is the duration past which a statement is logged at warn level
const slowQuery = 500 * time.Millisecond

// traceQuery logs one statement. Arguments are counted, not logged, since
// they carry addresses and names of subscribers.
func traceQuery(log *logger.Logger, op, query string, nargs int, txID string, start time.Time, err error) {
	elapsed := time.Since(start)
	fields := []interface{}{
		"op", op,
		"statement", firstLine(query),
		"args", nargs,
		"duration_ms", elapsed.Milliseconds(),
	}
	if txID != "" {
		fields = append(fields, "tx_id", txID)
	}

	switch {
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		log.Errorw("database query failed", append(fields, "error", err.Error())...)
	case elapsed > slowQuery:
		log.Warnw("slow database query", fields...)
	default:
		log.Debugw("database query completed", fields...)
	}
}

func firstLine(query string) string {
	query = strings.TrimSpace(query)
	if i := strings.IndexByte(query, '\n'); i >= 0 {
		return strings.TrimSpace(query[:i]) + " ..."
	}
	return query
}

// TracedQuerier logs every statement run through the wrapped Querier
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	traceQuery(tq.logger, "exec", query, len(args), tq.txID, start, err)
	return result, err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	traceQuery(tq.logger, "named_exec", query, 1, tq.txID, start, err)
	return result, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	traceQuery(tq.logger, "get", query, len(args), tq.txID, start, err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	traceQuery(tq.logger, "select", query, len(args), tq.txID, start, err)
	return err
}
