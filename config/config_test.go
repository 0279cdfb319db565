package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetYaml(t *testing.T) {
	path := writeConfig(t, `
platform: binance
pair: BTC_BRL
poll_interval: 45s
buy_threshold: "95000"
sell_threshold: "125000"
btc_addresses:
  - bc1qfirst
  - bc1qsecond
listen_addr: ":9000"
`)

	cfg, err := getYaml(path)
	require.NoError(t, err)
	require.Equal(t, "binance", cfg.Platform)
	require.Equal(t, "BTC_BRL", cfg.Pair.String())
	require.Equal(t, 45*time.Second, cfg.PollInterval)
	require.True(t, cfg.BuyThreshold.Equal(decimal.NewFromInt(95000)))
	require.True(t, cfg.SellThreshold.Equal(decimal.NewFromInt(125000)))
	require.Equal(t, []string{"bc1qfirst", "bc1qsecond"}, cfg.Addresses)
	require.Equal(t, ":9000", cfg.ListenAddr)
}

func TestGetYamlDefaults(t *testing.T) {
	path := writeConfig(t, `
pair: BTC_BRL
`)

	cfg, err := getYaml(path)
	require.NoError(t, err)
	require.Equal(t, "binance", cfg.Platform)
	require.Equal(t, 30*time.Second, cfg.PollInterval)
	require.True(t, cfg.BuyThreshold.Equal(decimal.NewFromInt(100000)))
	require.True(t, cfg.SellThreshold.Equal(decimal.NewFromInt(120000)))
	require.True(t, cfg.MinQuoteBalance.Equal(decimal.NewFromInt(10)))
	require.True(t, cfg.MinBaseBalance.Equal(decimal.RequireFromString("0.0001")))
	require.Equal(t, ":1533", cfg.ListenAddr)
}

func TestGetYamlRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad pair":            "pair: BTCBRL\n",
		"bad platform":        "pair: BTC_BRL\nplatform: kraken\n",
		"bad decimal":         "pair: BTC_BRL\nbuy_threshold: \"abc\"\n",
		"inverted thresholds": "pair: BTC_BRL\nbuy_threshold: \"130000\"\n",
	}
	for name, content := range cases {
		_, err := getYaml(writeConfig(t, content))
		require.Error(t, err, name)
	}
}
