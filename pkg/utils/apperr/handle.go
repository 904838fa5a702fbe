package apperr

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs an error that ends a request or background task. Values
// attached with goerr.V are logged as a group.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	attrs := []any{slog.Any("error", err)}
	if e := goerr.Unwrap(err); e != nil {
		if values := e.Values(); len(values) > 0 {
			group := make([]any, 0, len(values))
			for k, v := range values {
				group = append(group, slog.Any(k, v))
			}
			attrs = append(attrs, slog.Group("values", group...))
		}
	}

	ctxlog.From(ctx).Error("application error", attrs...)
}
