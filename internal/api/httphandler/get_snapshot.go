package httphandler

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/modules/ledgerstats"
	"github.com/gaze-network/ledger-scanner/modules/supply"
	"github.com/gaze-network/ledger-scanner/modules/tokens"
	"github.com/gaze-network/ledger-scanner/modules/xahauhooks"
	"github.com/gaze-network/ledger-scanner/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
)

const (
	headerLedgerIndex = requestlogger.LedgerIndexHeader
	headerGeneration  = "X-Snapshot-Generation"
)

func (h *HttpHandler) GetTokens(ctx *fiber.Ctx) error {
	return h.sendSnapshot(ctx, tokens.SnapshotFile)
}

func (h *HttpHandler) GetLedgerData(ctx *fiber.Ctx) error {
	return h.sendSnapshot(ctx, ledgerstats.SnapshotFile)
}

func (h *HttpHandler) GetSupply(ctx *fiber.Ctx) error {
	return h.sendSnapshot(ctx, supply.SnapshotFile)
}

func (h *HttpHandler) GetHooks(ctx *fiber.Ctx) error {
	if !h.network.Params().Hooks {
		return errs.NewPublicError("hooks are not available on " + h.network.String())
	}
	return h.sendSnapshot(ctx, xahauhooks.HooksFile)
}

// sendSnapshot writes a published document verbatim.
func (h *HttpHandler) sendSnapshot(ctx *fiber.Ctx, name string) error {
	data, gen, err := h.store.ReadFile(name)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(fiber.NewError(fiber.StatusNotFound, "snapshot not available yet"))
		}
		return errors.Wrapf(err, "error during read snapshot %s", name)
	}

	ctx.Set(headerLedgerIndex, strconv.FormatUint(uint64(gen.Header.Index), 10))
	ctx.Set(headerGeneration, gen.Name)
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return errors.WithStack(ctx.Send(data))
}
