package httphandler

import (
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/scanner"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/history/datagateway"
)

// SnapshotReader reads documents of the published generation.
type SnapshotReader interface {
	ReadFile(name string) ([]byte, *snapshot.Generation, error)
	Current() *snapshot.Generation
	Processing() bool
}

type StatusProvider interface {
	Status() scanner.Status
}

type HttpHandler struct {
	network common.Network
	store   SnapshotReader
	scanner StatusProvider

	// history is nil when pass history is disabled.
	history datagateway.HistoryDataGateway
}

func New(network common.Network, store SnapshotReader, scanner StatusProvider, history datagateway.HistoryDataGateway) *HttpHandler {
	return &HttpHandler{
		network: network,
		store:   store,
		scanner: scanner,
		history: history,
	}
}

type HttpResponse[T any] common.HttpResponse[T]
