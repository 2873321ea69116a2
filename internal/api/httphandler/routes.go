package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	router.Get("/tokens", h.GetTokens)
	router.Get("/ledgerdata", h.GetLedgerData)
	router.Get("/supply", h.GetSupply)
	router.Get("/nfts", h.GetNFTs)
	router.Get("/hooks", h.GetHooks)
	router.Get("/uritokens", h.GetURITokens)
	router.Get("/status", h.GetStatus)
	router.Get("/history", h.GetHistory)
	return nil
}
