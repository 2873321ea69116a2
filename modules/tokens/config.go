package tokens

type Config struct {
	// ExcludedIssuers extends DefaultExcludedIssuers.
	ExcludedIssuers []string `mapstructure:"excluded_issuers"`
}

// DefaultExcludedIssuers are addresses that can never be legitimate issuers.
var DefaultExcludedIssuers = []string{
	"rrrrrrrrrrrrrrrrrrrrrhoLvTp",
	"rrrrrrrrrrrrrrrrrrrrBZbvji",
	"rrrrrrrrrrrrrrrrrrrn5RM1rHd",
}
