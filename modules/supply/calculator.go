package supply

import (
	"context"
	"strings"
	"sync"

	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/ledger-scanner/modules/ledgerstats"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"github.com/samber/lo"
)

// StatsSource exposes the structural statistics of the last finalized pass.
type StatsSource interface {
	Last() map[string]ledgerstats.TypeStat
}

// Totals are the supply figures of one pass, in drops.
type Totals struct {
	Accounts          uint64
	AccountReserve    int64
	OwnerReserve      int64
	Balance           int64
	Reserved          int64
	TransientReserves int64
	Circulating       int64
	Escrow            int64
	PayChannels       int64
	Treasury          int64
	TreasuryLocked    int64
}

// Existing is the total amount in existence: account balances plus the
// amounts locked in escrows and payment channels.
func (t Totals) Existing() int64 {
	return t.Balance + t.Escrow + t.PayChannels
}

// Calculator caches the objects the supply computation needs during a
// pass and computes circulating and existing supply at finalize.
type Calculator struct {
	nativeCurrency string
	stats          StatsSource
	defaultReserve [2]int64
	treasuryHashes []string
	blackholes     map[string]struct{}

	accounts    map[string]*ledgerobject.AccountRoot
	offers      map[string]int64
	signerLists map[string]struct{}
	treasuries  map[string]struct{}
	escrow      int64
	payChannels int64
	fee         *ledgerobject.FeeSettings

	mu   sync.RWMutex
	last *Totals
}

func New(config Config, nativeCurrency string, stats StatsSource) *Calculator {
	blackholes := make(map[string]struct{})
	for _, account := range append(lo.Copy(DefaultBlackholeAccounts), config.BlackholeAccounts...) {
		blackholes[account] = struct{}{}
	}
	treasuryHashes := lo.Map(config.TreasuryHookHashes, func(h string, _ int) string { return strings.ToUpper(h) })
	if len(treasuryHashes) == 0 {
		treasuryHashes = DefaultTreasuryHookHashes
	}
	c := &Calculator{
		nativeCurrency: nativeCurrency,
		stats:          stats,
		defaultReserve: [2]int64{
			lo.Ternary(config.AccountReserveDrops > 0, config.AccountReserveDrops, DefaultAccountReserveDrops),
			lo.Ternary(config.OwnerReserveDrops > 0, config.OwnerReserveDrops, DefaultOwnerReserveDrops),
		},
		treasuryHashes: treasuryHashes,
		blackholes:     blackholes,
	}
	c.Reset()
	return c
}

var acceptedTypes = ledgerobject.NewEntryTypeSet(
	ledgerobject.EntryTypeAccountRoot,
	ledgerobject.EntryTypeOffer,
	ledgerobject.EntryTypeSignerList,
	ledgerobject.EntryTypeEscrow,
	ledgerobject.EntryTypePayChannel,
	ledgerobject.EntryTypeFeeSettings,
	ledgerobject.EntryTypeHook,
)

func (c *Calculator) Name() string {
	return common.ModuleSupply.String()
}

func (c *Calculator) Accepts(t ledgerobject.EntryType) bool {
	return acceptedTypes.Has(t)
}

func (c *Calculator) Reset() {
	c.accounts = make(map[string]*ledgerobject.AccountRoot)
	c.offers = make(map[string]int64)
	c.signerLists = make(map[string]struct{})
	c.treasuries = make(map[string]struct{})
	c.escrow = 0
	c.payChannels = 0
	c.fee = nil
}

func (c *Calculator) Process(_ context.Context, obj *ledgerobject.Object) error {
	switch entry := obj.Entry.(type) {
	case *ledgerobject.AccountRoot:
		c.accounts[entry.Account] = entry
	case *ledgerobject.Offer:
		c.offers[entry.Account]++
	case *ledgerobject.SignerList:
		c.signerLists[strings.ToUpper(obj.Index)] = struct{}{}
	case *ledgerobject.Escrow:
		if entry.Amount.Native {
			c.escrow += entry.Amount.Drops
		}
	case *ledgerobject.PayChannel:
		if entry.Amount.Native {
			c.payChannels += entry.Amount.Drops - entry.Balance.Drops
		}
	case *ledgerobject.FeeSettings:
		c.fee = entry
	case *ledgerobject.Hook:
		if c.isTreasury(entry) {
			c.treasuries[entry.Account] = struct{}{}
		}
	}
	return nil
}

func (c *Calculator) isTreasury(hook *ledgerobject.Hook) bool {
	hashes := lo.Map(hook.HookHashes(), func(h string, _ int) string { return strings.ToUpper(h) })
	return lo.Every(hashes, c.treasuryHashes)
}

// Reserves returns the base account reserve and the per object owner
// reserve, read from the FeeSettings object when the ledger has one.
func (c *Calculator) Reserves() (account, owner int64) {
	if c.fee != nil {
		if base, inc, ok := c.fee.Reserves(); ok {
			return base, inc
		}
	}
	return c.defaultReserve[0], c.defaultReserve[1]
}

// Calculate computes the totals over the objects cached so far.
//
// An account contributes max(spendable - reserved + transient, 0) to the
// circulating supply, capped at its spendable balance. Blackholed accounts
// have nothing spendable.
func (c *Calculator) Calculate() Totals {
	accountReserve, ownerReserve := c.Reserves()
	totals := Totals{
		AccountReserve: accountReserve,
		OwnerReserve:   ownerReserve,
		Escrow:         c.escrow,
		PayChannels:    c.payChannels,
	}

	for address, account := range c.accounts {
		blackholed := c.IsBlackholed(account)
		balance := account.Balance.Drops

		spendable := lo.Ternary(blackholed, 0, balance)
		reserved := accountReserve + int64(account.OwnerCount)*ownerReserve
		transient := c.offers[address] * ownerReserve
		contribution := min(max(spendable-reserved+transient, 0), spendable)

		totals.Accounts++
		totals.Balance += balance
		totals.Reserved += reserved
		totals.TransientReserves += transient
		totals.Circulating += contribution

		if _, ok := c.treasuries[address]; ok {
			totals.Treasury += balance
			if blackholed {
				totals.TreasuryLocked += balance
			}
		}
	}
	return totals
}

// Last returns the totals of the most recently finalized pass.
func (c *Calculator) Last() (Totals, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return Totals{}, false
	}
	return *c.last, true
}

func (c *Calculator) Finalize(ctx context.Context, header types.LedgerHeader) ([]snapshot.Artifact, error) {
	totals := c.Calculate()
	c.Reset()

	c.mu.Lock()
	c.last = &totals
	c.mu.Unlock()

	ledgerData := c.crossCheck(ctx, totals)

	logger.InfoContext(ctx, "supply calculated",
		slogx.String("module", c.Name()),
		slogx.Uint64("accounts", totals.Accounts),
		slogx.Int64("balance", totals.Balance),
		slogx.Int64("circulating", totals.Circulating),
		slogx.Int64("existing", totals.Existing()),
		slogx.Bool("ledger_data_consistent", ledgerData != nil),
	)
	return []snapshot.Artifact{{Name: SnapshotFile, Value: buildSnapshot(header, c.nativeCurrency, totals, ledgerData)}}, nil
}

// crossCheck returns the structural statistics when their account root
// count and balance total agree with the totals, nil otherwise.
func (c *Calculator) crossCheck(ctx context.Context, totals Totals) map[string]ledgerstats.TypeStat {
	if c.stats == nil {
		return nil
	}
	stats := c.stats.Last()
	key := ledgerobject.EntryTypeAccountRoot.Key()
	stat, ok := stats[key]
	if !ok {
		logger.WarnContext(ctx, "ledger statistics have no account roots", slogx.String("module", c.Name()))
		return nil
	}
	if stat.Count != totals.Accounts {
		logger.WarnContext(ctx, "account count mismatch with ledger statistics",
			slogx.String("module", c.Name()),
			slogx.Uint64("ledger_data_count", stat.Count),
			slogx.Uint64("accounts", totals.Accounts),
		)
		return nil
	}
	balance, _ := stat.ValueTotal("Balance")
	if totals.Balance < 0 || !balance.Equals64(uint64(totals.Balance)) {
		logger.WarnContext(ctx, "balance total mismatch with ledger statistics",
			slogx.String("module", c.Name()),
			slogx.String("ledger_data_balance", balance.String()),
			slogx.Int64("balance", totals.Balance),
		)
		return nil
	}
	return stats
}
