package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gaze-network/ledger-scanner/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
network: xrpl-mainnet
node:
  url: wss://xrplcluster.com
  transport: websocket
  timeout: 30s
scanner:
  schedule_minutes: [5, 35]
  type_filters: ["", "nft_offer"]
  max_retries: 6
tokens:
  excluded_issuers: [rExcluded]
nfts:
  parquet: true
supply:
  treasury_hook_hashes: [ABC]
snapshot:
  data_dir: /var/lib/scanner
  keep_generations: 5
  s3:
    enabled: true
    bucket: snapshots
history:
  enabled: true
  postgres:
    url: postgres://localhost:5432/history
http_server:
  port: 9090
`), 0o644))

	conf := Parse(file)

	assert.Equal(t, common.NetworkXRPLMainnet, conf.Network)
	assert.Equal(t, "wss://xrplcluster.com", conf.Node.URL)
	assert.Equal(t, TransportWebsocket, conf.Node.Transport)
	assert.Equal(t, 30*time.Second, conf.Node.Timeout)
	assert.Equal(t, []int{5, 35}, conf.Scanner.ScheduleMinutes)
	assert.Equal(t, []string{"", "nft_offer"}, conf.Scanner.TypeFilters)
	assert.Equal(t, 6, conf.Scanner.MaxRetries)
	assert.True(t, conf.Scanner.Reconcile, "default must survive a partial scanner section")
	assert.Equal(t, []string{"rExcluded"}, conf.Tokens.ExcludedIssuers)
	assert.True(t, conf.NFTs.Parquet)
	assert.Equal(t, []string{"ABC"}, conf.Supply.TreasuryHookHashes)
	assert.Equal(t, "/var/lib/scanner", conf.Snapshot.DataDir)
	assert.Equal(t, 5, conf.Snapshot.KeepGenerations)
	assert.True(t, conf.Snapshot.S3.Enabled)
	assert.Equal(t, "snapshots", conf.Snapshot.S3.Bucket)
	assert.True(t, conf.History.Enabled)
	assert.Equal(t, "postgres://localhost:5432/history", conf.History.Postgres.URL)
	assert.Equal(t, 9090, conf.HTTPServer.Port)

	assert.Equal(t, conf, Load())
}
