package supply

const (
	DefaultAccountReserveDrops int64 = 1_000_000
	DefaultOwnerReserveDrops   int64 = 200_000
)

type Config struct {
	// AccountReserveDrops and OwnerReserveDrops are used only when the
	// ledger has no FeeSettings object.
	AccountReserveDrops int64 `mapstructure:"account_reserve_drops"`
	OwnerReserveDrops   int64 `mapstructure:"owner_reserve_drops"`

	// TreasuryHookHashes must all be installed on an account for it to count
	// as a treasury. Empty means DefaultTreasuryHookHashes.
	TreasuryHookHashes []string `mapstructure:"treasury_hook_hashes"`

	// BlackholeAccounts extends DefaultBlackholeAccounts.
	BlackholeAccounts []string `mapstructure:"blackhole_accounts"`
}

// DefaultBlackholeAccounts can never sign: account zero, account one and the NaN address.
var DefaultBlackholeAccounts = []string{
	"rrrrrrrrrrrrrrrrrrrrrhoLvTp",
	"rrrrrrrrrrrrrrrrrrrrBZbvji",
	"rrrrrrrrrrrrrrrrrrrn5RM1rHd",
}

// DefaultTreasuryHookHashes identify the Xahau governance treasury hooks.
var DefaultTreasuryHookHashes = []string{
	"11B6F1534186086EF95E297F64806D8E4231865EE9871A0C438EA8A51BE20BD8",
	"B55839E8CABBDE2501249C0F7B4BFD58FC25838AC79D6822594076804EABBE60",
}
