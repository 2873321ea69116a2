package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/scanner"
	"github.com/gaze-network/ledger-scanner/internal/postgres"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/nfts"
	"github.com/gaze-network/ledger-scanner/modules/supply"
	"github.com/gaze-network/ledger-scanner/modules/tokens"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"github.com/gaze-network/ledger-scanner/pkg/middleware/requestcontext"
	"github.com/gaze-network/ledger-scanner/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	TransportJSONRPC   = "jsonrpc"
	TransportWebsocket = "websocket"
)

var (
	isInit bool
	mu     sync.Mutex
	config = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		Network: common.NetworkXahauMainnet,
		Node: Node{
			Transport: TransportJSONRPC,
			Timeout:   120 * time.Second,
		},
		Scanner: scanner.Config{
			ScheduleMinutes: []int{0},
			Reconcile:       true,
		},
		Snapshot: snapshot.Config{
			DataDir: "./data",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
		},
	}
)

type Config struct {
	Logger     logger.Config    `mapstructure:"logger"`
	Network    common.Network   `mapstructure:"network"`
	Node       Node             `mapstructure:"node"`
	Scanner    scanner.Config   `mapstructure:"scanner"`
	Tokens     tokens.Config    `mapstructure:"tokens"`
	NFTs       nfts.Config      `mapstructure:"nfts"`
	Supply     supply.Config    `mapstructure:"supply"`
	Snapshot   snapshot.Config  `mapstructure:"snapshot"`
	History    History          `mapstructure:"history"`
	HTTPServer HTTPServerConfig `mapstructure:"http_server"`

	// APIOnly serves the published snapshots without scanning.
	APIOnly bool `mapstructure:"api_only"`
}

type Node struct {
	URL string `mapstructure:"url"`

	// Transport is "jsonrpc" or "websocket".
	Transport string            `mapstructure:"transport"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	Headers   map[string]string `mapstructure:"headers"`
	Debug     bool              `mapstructure:"debug"`
}

type History struct {
	Enabled  bool            `mapstructure:"enabled"`
	Postgres postgres.Config `mapstructure:"postgres"`
}

type HTTPServerConfig struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

// Parse parse the configuration from environment variables
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

// Load returns the loaded configuration
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if isInit {
		return *config
	}
	return parse()
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
// Example (where serverCmd is a Cobra instance):
//
//	serverCmd.Flags().Int("port", 1138, "Port to run Application server on")
//	Viper.BindPFlag("port", serverCmd.Flags().Lookup("port"))
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}

// SetDefault sets the default value for this key.
// SetDefault is case-insensitive for a key.
// Default only used when no value is provided by the user via flag, config or ENV.
func SetDefault(key string, value any) { viper.SetDefault(key, value) }

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *config
}
