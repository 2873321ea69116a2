package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// kindStatus maps error kinds to the status code returned to clients.
var kindStatus = []struct {
	kind   errs.ErrorKind
	status int
}{
	{errs.NotFound, http.StatusNotFound},
	{errs.InvalidArgument, http.StatusBadRequest},
	{errs.Unsupported, http.StatusNotImplemented},
	{errs.Busy, http.StatusServiceUnavailable},
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(statusOf(err, http.StatusBadRequest)).JSON(common.HttpResponse[any]{
				Error: lo.ToPtr(e.Message()),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(common.HttpResponse[any]{
				Error: lo.ToPtr(e.Message),
			}))
		}
		if status := statusOf(err, 0); status != 0 {
			return errors.WithStack(ctx.Status(status).JSON(common.HttpResponse[any]{
				Error: lo.ToPtr(http.StatusText(status)),
			}))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error",
			slogx.String("event", "api_unhandled_error"),
			slogx.Error(err),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(common.HttpResponse[any]{
			Error: lo.ToPtr("Internal Server Error"),
		}))
	}
}

func statusOf(err error, fallback int) int {
	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) {
			return ks.status
		}
	}
	return fallback
}
