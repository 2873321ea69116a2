package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/nfts"
	"github.com/gaze-network/ledger-scanner/modules/xahauhooks"
	"github.com/gofiber/fiber/v2"
)

type pageRequest struct {
	Page int `query:"page"`
}

func (req pageRequest) Validate() error {
	if req.Page < 0 {
		return errs.NewPublicError("'page' must be a positive integer")
	}
	return nil
}

func (req *pageRequest) ParseDefault() {
	if req.Page == 0 {
		req.Page = 1
	}
}

func (h *HttpHandler) GetNFTs(ctx *fiber.Ctx) error {
	return h.sendPage(ctx, nfts.SnapshotPrefix)
}

func (h *HttpHandler) GetURITokens(ctx *fiber.Ctx) error {
	if !h.network.Params().Hooks {
		return errs.NewPublicError("uri tokens are not available on " + h.network.String())
	}
	return h.sendPage(ctx, xahauhooks.URITokensPrefix)
}

func (h *HttpHandler) sendPage(ctx *fiber.Ctx, prefix string) error {
	var req pageRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(errs.NewPublicError("invalid 'page' query"))
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	req.ParseDefault()

	return h.sendSnapshot(ctx, snapshot.PageName(prefix, req.Page))
}
