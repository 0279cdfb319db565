package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/vigia/internal/domain"
)

// Config holds the runtime configuration of the monitor.
type Config struct {
	Platform        string
	Pair            domain.Pair
	PollInterval    time.Duration
	BuyThreshold    decimal.Decimal
	SellThreshold   decimal.Decimal
	MinQuoteBalance decimal.Decimal
	MinBaseBalance  decimal.Decimal
	Addresses       []string
	ListenAddr      string
	SnapshotDir     string
}

type configTmp struct {
	Platform        string        `yaml:"platform"`
	Pair            string        `yaml:"pair"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	BuyThreshold    string        `yaml:"buy_threshold,omitempty"`
	SellThreshold   string        `yaml:"sell_threshold,omitempty"`
	MinQuoteBalance string        `yaml:"min_quote_balance,omitempty"`
	MinBaseBalance  string        `yaml:"min_base_balance,omitempty"`
	Addresses       []string      `yaml:"btc_addresses,omitempty"`
	ListenAddr      string        `yaml:"listen_addr,omitempty"`
	SnapshotDir     string        `yaml:"snapshot_dir,omitempty"`
}

const (
	defaultPlatform        = "binance"
	defaultPair            = "BTC_BRL"
	defaultPollInterval    = 30 * time.Second
	defaultBuyThreshold    = "100000"
	defaultSellThreshold   = "120000"
	defaultMinQuoteBalance = "10"
	defaultMinBaseBalance  = "0.0001"
	defaultListenAddr      = ":1533"
)

// Get loads configuration from a YAML file when --config is provided,
// otherwise from CLI flags.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	pairFlag := flag.String("pair", defaultPair, "trade pair, example: BTC_BRL")
	platformFlag := flag.String("platform", defaultPlatform, "exchange platform: binance or bybit")
	intervalFlag := flag.Duration("pollinterval", defaultPollInterval, "poll interval")
	addressesFlag := flag.String("btcaddresses", "", "comma-separated list of monitored BTC addresses")
	listenFlag := flag.String("listen", defaultListenAddr, "http listen address")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	pair, err := getPairFromString(*pairFlag)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --pair provided, --pair=%s", *pairFlag)
	}

	cfg := Config{
		Platform:        *platformFlag,
		Pair:            pair,
		PollInterval:    *intervalFlag,
		BuyThreshold:    decimal.RequireFromString(defaultBuyThreshold),
		SellThreshold:   decimal.RequireFromString(defaultSellThreshold),
		MinQuoteBalance: decimal.RequireFromString(defaultMinQuoteBalance),
		MinBaseBalance:  decimal.RequireFromString(defaultMinBaseBalance),
		Addresses:       splitAddresses(*addressesFlag),
		ListenAddr:      *listenFlag,
	}
	return validate(cfg)
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	pair, err := getPairFromString(tmp.Pair)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'pair' param in yaml config: %s, error: %w", tmp.Pair, err)
	}

	cfg := Config{
		Platform:     tmp.Platform,
		Pair:         pair,
		PollInterval: tmp.PollInterval,
		Addresses:    tmp.Addresses,
		ListenAddr:   tmp.ListenAddr,
		SnapshotDir:  tmp.SnapshotDir,
	}
	if cfg.Platform == "" {
		cfg.Platform = defaultPlatform
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	if cfg.BuyThreshold, err = parseDecimal(tmp.BuyThreshold, defaultBuyThreshold, "buy_threshold"); err != nil {
		return Config{}, err
	}
	if cfg.SellThreshold, err = parseDecimal(tmp.SellThreshold, defaultSellThreshold, "sell_threshold"); err != nil {
		return Config{}, err
	}
	if cfg.MinQuoteBalance, err = parseDecimal(tmp.MinQuoteBalance, defaultMinQuoteBalance, "min_quote_balance"); err != nil {
		return Config{}, err
	}
	if cfg.MinBaseBalance, err = parseDecimal(tmp.MinBaseBalance, defaultMinBaseBalance, "min_base_balance"); err != nil {
		return Config{}, err
	}

	return validate(cfg)
}

func validate(cfg Config) (Config, error) {
	if cfg.Platform != "binance" && cfg.Platform != "bybit" {
		return Config{}, fmt.Errorf("unsupported platform %q, expected binance or bybit", cfg.Platform)
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	if !cfg.BuyThreshold.IsPositive() || !cfg.SellThreshold.IsPositive() {
		return Config{}, fmt.Errorf("thresholds must be positive")
	}
	if cfg.BuyThreshold.GreaterThanOrEqual(cfg.SellThreshold) {
		return Config{}, fmt.Errorf("buy threshold %s must be below sell threshold %s",
			cfg.BuyThreshold.String(), cfg.SellThreshold.String())
	}
	return cfg, nil
}

func parseDecimal(value, fallback, name string) (decimal.Decimal, error) {
	if value == "" {
		value = fallback
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("incorrect '%s' param in yaml config (must be a decimal), error: %w", name, err)
	}
	return d, nil
}

func splitAddresses(raw string) []string {
	var out []string
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func getPairFromString(pairStr string) (domain.Pair, error) {
	pairElements := strings.Split(pairStr, "_")
	if len(pairElements) != 2 {
		return domain.Pair{}, fmt.Errorf("invalid pair param")
	}
	return domain.Pair{From: pairElements[0], To: pairElements[1]}, nil
}
