package xahauhooks

import "github.com/gaze-network/ledger-scanner/core/types"

const (
	HooksFile       = "hooks.json"
	URITokensPrefix = "uritokens"
)

type HooksSnapshot struct {
	types.SnapshotHeader
	Hooks           []Record `json:"hooks"`
	HookDefinitions []Record `json:"hook_definitions"`
	HookStateCount  uint64   `json:"hook_state_count"`
}

type URITokensSnapshot struct {
	types.SnapshotHeader
	Page      int      `json:"page"`
	Pages     int      `json:"pages"`
	URITokens []Record `json:"uritokens"`
}
