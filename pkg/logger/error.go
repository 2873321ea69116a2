package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors/errbase"
	"github.com/gaze-network/ledger-scanner/pkg/logger/stacktrace"
)

// middlewareErrorVerbose adds the verbose form and stack trace of every
// error attribute to the record.
func middlewareErrorVerbose() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			var extra []slog.Attr
			rec.Attrs(func(attr slog.Attr) bool {
				if attr.Key != ErrorKey && attr.Key != "err" {
					return true
				}
				err, ok := attr.Value.Any().(error)
				if !ok || err == nil {
					return true
				}
				extra = append(extra, slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
				if st, ok := err.(errbase.StackTraceProvider); ok {
					frames := stacktrace.StackTrace(st.StackTrace())
					extra = append(extra, slog.Any(ErrorStackTraceKey, frames.TraceFramesStrings()))
				}
				return false
			})
			if len(extra) > 0 {
				rec.AddAttrs(extra...)
			}
			return next(ctx, rec)
		}
	}
}
