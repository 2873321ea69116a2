package cmd

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/datasources"
	"github.com/gaze-network/ledger-scanner/core/scanner"
	"github.com/gaze-network/ledger-scanner/internal/config"
	"github.com/gaze-network/ledger-scanner/internal/postgres"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/history"
	"github.com/gaze-network/ledger-scanner/modules/history/datagateway"
	historypostgres "github.com/gaze-network/ledger-scanner/modules/history/repository/postgres"
	"github.com/gaze-network/ledger-scanner/modules/ledgerstats"
	"github.com/gaze-network/ledger-scanner/modules/nfts"
	"github.com/gaze-network/ledger-scanner/modules/supply"
	"github.com/gaze-network/ledger-scanner/modules/tokens"
	"github.com/gaze-network/ledger-scanner/modules/xahauhooks"
	"github.com/gaze-network/ledger-scanner/pkg/httpclient"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

// Processors registered with the scanner, in finalize order.
var Processors = do.Package(
	do.Lazy(func(i do.Injector) (*tokens.Aggregator, error) {
		conf := do.MustInvoke[config.Config](i)
		return tokens.New(conf.Tokens), nil
	}),
	do.Lazy(func(i do.Injector) (*nfts.Aggregator, error) {
		conf := do.MustInvoke[config.Config](i)
		store := do.MustInvoke[*snapshot.Store](i)
		return nfts.New(conf.NFTs, store.PageSize()), nil
	}),
	do.Lazy(func(i do.Injector) (*ledgerstats.Aggregator, error) {
		return ledgerstats.New(), nil
	}),
	do.Lazy(func(i do.Injector) (*supply.Calculator, error) {
		conf := do.MustInvoke[config.Config](i)
		stats := do.MustInvoke[*ledgerstats.Aggregator](i)
		return supply.New(conf.Supply, conf.Network.Params().NativeCurrency, stats), nil
	}),
	do.Lazy(func(i do.Injector) (*xahauhooks.Collector, error) {
		store := do.MustInvoke[*snapshot.Store](i)
		return xahauhooks.New(store.PageSize()), nil
	}),
)

// pgPool closes the connection pool on injector shutdown.
type pgPool struct {
	*pgxpool.Pool
}

func (p *pgPool) Shutdown() {
	p.Close()
}

func validateConfig(conf config.Config) error {
	if !conf.Network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
	}
	if conf.Node.URL == "" {
		return errors.Wrap(errs.InvalidArgument, "node.url is required")
	}
	switch conf.Node.Transport {
	case config.TransportJSONRPC, config.TransportWebsocket:
	default:
		return errors.Wrapf(errs.Unsupported, "%q node transport is not supported", conf.Node.Transport)
	}
	return nil
}

// newInjector registers every component of a scanner process.
func newInjector(ctx context.Context, conf config.Config) do.Injector {
	injector := do.New(Processors)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize ledger node
	do.Provide(injector, func(i do.Injector) (datasources.LedgerNode, error) {
		conf := do.MustInvoke[config.Config](i)

		var node datasources.LedgerNode
		switch conf.Node.Transport {
		case config.TransportWebsocket:
			node = datasources.NewWebsocketNode(conf.Node.URL, conf.Node.Headers, conf.Node.Timeout)
		default:
			jsonrpc, err := datasources.NewJSONRPCNode(conf.Node.URL, httpclient.Config{
				Debug:   conf.Node.Debug,
				Headers: conf.Node.Headers,
				Timeout: conf.Node.Timeout,
			})
			if err != nil {
				return nil, errors.Wrap(err, "invalid node configuration")
			}
			node = jsonrpc
		}

		// Check node connection
		{
			start := time.Now()
			logger.InfoContext(ctx, "Connecting to ledger node...", slogx.String("node", node.Name()))
			header, err := node.Ledger(ctx, 0)
			if err != nil {
				return nil, errors.Wrapf(err, "can't connect to ledger node %q", node.Name())
			}
			logger.InfoContext(ctx, "Connected to ledger node",
				slogx.Stringer("validated_ledger", header.Index),
				slogx.Duration("latency", time.Since(start)),
			)
		}
		return node, nil
	})

	// Initialize snapshot store
	do.Provide(injector, func(i do.Injector) (*snapshot.Store, error) {
		conf := do.MustInvoke[config.Config](i)

		var mirror snapshot.Mirror
		if conf.Snapshot.S3.Enabled {
			s3Mirror, err := snapshot.NewS3Mirror(ctx, conf.Snapshot.S3)
			if err != nil {
				return nil, errors.Wrap(err, "can't create snapshot mirror")
			}
			mirror = s3Mirror
		}

		store, err := snapshot.New(conf.Snapshot, mirror)
		if err != nil {
			return nil, errors.Wrap(err, "can't open snapshot store")
		}
		return store, nil
	})

	// Initialize pass history
	do.Provide(injector, func(i do.Injector) (*pgPool, error) {
		conf := do.MustInvoke[config.Config](i)
		pool, err := postgres.NewPool(ctx, conf.History.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "can't create postgres connection pool")
		}
		return &pgPool{pool}, nil
	})
	do.Provide(injector, func(i do.Injector) (datagateway.HistoryDataGateway, error) {
		conf := do.MustInvoke[config.Config](i)
		if !conf.History.Enabled {
			return nil, nil
		}
		pool, err := do.Invoke[*pgPool](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return historypostgres.NewRepository(pool.Pool), nil
	})

	// Initialize scanner
	do.Provide(injector, func(i do.Injector) (*scanner.Scanner, error) {
		conf := do.MustInvoke[config.Config](i)
		node, err := do.Invoke[datasources.LedgerNode](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		store, err := do.Invoke[*snapshot.Store](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		calculator := do.MustInvoke[*supply.Calculator](i)
		processors := []scanner.Processor{
			do.MustInvoke[*tokens.Aggregator](i),
			do.MustInvoke[*nfts.Aggregator](i),
			do.MustInvoke[*ledgerstats.Aggregator](i),
			calculator,
		}
		if conf.Network.Params().Hooks {
			processors = append(processors, do.MustInvoke[*xahauhooks.Collector](i))
		}

		s := scanner.New(conf.Scanner, node, store, processors...)

		dg, err := do.Invoke[datagateway.HistoryDataGateway](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if dg != nil {
			s.WithRecorder(history.NewRecorder(conf.Network, dg, calculator))
		}
		return s, nil
	})

	return injector
}
