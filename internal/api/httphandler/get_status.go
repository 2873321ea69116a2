package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/scanner"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gofiber/fiber/v2"
)

type getStatusResult struct {
	Network    common.Network       `json:"network"`
	Scanner    scanner.Status       `json:"scanner"`
	Processing bool                 `json:"processing"`
	Published  *snapshot.Generation `json:"published,omitempty"`
}

type getStatusResponse = HttpResponse[getStatusResult]

func (h *HttpHandler) GetStatus(ctx *fiber.Ctx) error {
	return errors.WithStack(ctx.JSON(getStatusResponse{
		Result: &getStatusResult{
			Network:    h.network,
			Scanner:    h.scanner.Status(),
			Processing: h.store.Processing(),
			Published:  h.store.Current(),
		},
	}))
}
