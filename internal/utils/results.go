package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Result is the outcome of one item in a best-effort batch.
type Result struct {
	ID   string
	Name string
	Err  error
}

func (r Result) OK() bool { return r.Err == nil }

type Results []Result

func (rs *Results) Add(id, name string, err error) {
	*rs = append(*rs, Result{ID: id, Name: name, Err: err})
}

func (rs Results) Succeeded() int {
	count := 0
	for _, r := range rs {
		if r.OK() {
			count++
		}
	}
	return count
}

func (rs Results) Failed() []Result {
	var failed []Result
	for _, r := range rs {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

func (rs Results) Summary() string {
	failed := rs.Failed()
	if len(failed) == 0 {
		return fmt.Sprintf("%d/%d ok", len(rs), len(rs))
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s(%s): %v", r.Name, r.ID, r.Err))
	}
	return fmt.Sprintf("%d/%d ok; failed: %s", rs.Succeeded(), len(rs), strings.Join(parts, "; "))
}

// Log writes one aggregate line for the batch.
func (rs Results) Log(logger *zap.Logger, msg string, fields ...zap.Field) {
	fields = append(fields,
		zap.Int("total", len(rs)),
		zap.Int("succeeded", rs.Succeeded()),
		zap.Int("failed", len(rs.Failed())),
	)
	if len(rs.Failed()) > 0 {
		fields = append(fields, zap.String("failures", rs.Summary()))
		logger.Warn(msg, fields...)
		return
	}
	logger.Info(msg, fields...)
}
