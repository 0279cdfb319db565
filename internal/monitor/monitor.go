// Package monitor runs the polling cycle: refresh exchange and on-chain
// balances, evaluate the trading policy and record executed orders in the
// ledger.
package monitor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/vigia/internal/domain"
	"github.com/vadiminshakov/vigia/internal/ledger"
	"github.com/vadiminshakov/vigia/internal/services/decision"
	"github.com/vadiminshakov/vigia/internal/tracker"
)

type tradersvc interface {
	Balances(ctx context.Context) (map[string]decimal.Decimal, error)
	PlaceMarketOrder(ctx context.Context, side domain.Side, quantity decimal.Decimal) (*domain.OrderResult, error)
}

type pricesvc interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}

type chainExplorer interface {
	AddressBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

type snapshotWriter interface {
	Save(snapshot domain.PollSnapshot) error
}

// Monitor owns one polling loop instance.
type Monitor struct {
	pair      domain.Pair
	interval  time.Duration
	addresses []string
	policy    decision.Policy

	trader    tradersvc
	pricer    pricesvc
	explorer  chainExplorer
	tracker   *tracker.Tracker
	ledger    *ledger.Ledger
	snapshots snapshotWriter
	logger    *zap.Logger
}

// New creates a monitor. The snapshot writer is optional; everything else
// is required.
func New(
	pair domain.Pair,
	interval time.Duration,
	addresses []string,
	policy decision.Policy,
	traderSvc tradersvc,
	pricerSvc pricesvc,
	explorerSvc chainExplorer,
	balanceTracker *tracker.Tracker,
	tradeLedger *ledger.Ledger,
	snapshotStore snapshotWriter,
	logger *zap.Logger,
) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pair:      pair,
		interval:  interval,
		addresses: addresses,
		policy:    policy,
		trader:    traderSvc,
		pricer:    pricerSvc,
		explorer:  explorerSvc,
		tracker:   balanceTracker,
		ledger:    tradeLedger,
		snapshots: snapshotStore,
		logger:    logger,
	}
}

// Run executes polling cycles until the context is cancelled. Cycle-level
// failures are logged and the loop continues on the next tick.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("starting monitor loop",
		zap.String("pair", m.pair.String()),
		zap.Duration("poll_interval", m.interval),
		zap.Int("onchain_addresses", len(m.addresses)))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("context done, stopping monitor loop", zap.String("pair", m.pair.String()))
			return ctx.Err()
		case <-ticker.C:
			m.cycle(ctx)
		}
	}
}

// cycle runs one round of work. Panics are recovered so a misbehaving
// collaborator cannot terminate the process.
func (m *Monitor) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic in polling cycle", zap.Any("panic", r))
		}
	}()

	if err := m.runCycle(ctx); err != nil {
		m.logger.Error("polling cycle failed", zap.Error(err))
	}
}

func (m *Monitor) runCycle(ctx context.Context) error {
	if err := m.refreshSpot(ctx); err != nil {
		return errors.Wrap(err, "refresh spot balances")
	}
	m.refreshOnchain(ctx)
	m.evaluatePolicy(ctx)
	m.persistSnapshot()
	return nil
}

// refreshSpot pulls account balances from the exchange. A fetch failure
// aborts the cycle; per-asset price lookup failures only mark the asset
// unpriced.
func (m *Monitor) refreshSpot(ctx context.Context) error {
	balances, err := m.trader.Balances(ctx)
	if err != nil {
		return err
	}

	deltas, err := m.tracker.UpdateSpot(balances)
	if err != nil {
		m.logger.Warn("rejected balance update", zap.Error(err))
	}

	for asset, amount := range balances {
		value := m.valueInQuote(ctx, asset, amount)
		m.tracker.SetValuation(asset, value)

		m.logger.Info("spot balance",
			zap.String("asset", asset),
			zap.String("amount", amount.String()),
			zap.String("quote_value", value.QuoteValue.String()),
			zap.Bool("unpriced", value.Unpriced),
			zap.String("delta", deltas[asset].String()))
	}
	return nil
}

// valueInQuote computes the quote-currency value of one asset balance. A
// failed price lookup yields an explicitly marked unpriced value instead of
// a bare zero, and never aborts the cycle.
func (m *Monitor) valueInQuote(ctx context.Context, asset string, amount decimal.Decimal) domain.AssetValue {
	if asset == m.pair.To {
		return domain.AssetValue{Amount: amount, QuoteValue: amount}
	}

	price, err := m.pricer.GetPrice(ctx, domain.Pair{From: asset, To: m.pair.To})
	if err != nil {
		m.logger.Debug("price lookup failed", zap.String("asset", asset), zap.Error(err))
		return domain.AssetValue{Amount: amount, QuoteValue: decimal.Zero, Unpriced: true}
	}

	return domain.AssetValue{Amount: amount, QuoteValue: amount.Mul(price)}
}

func (m *Monitor) refreshOnchain(ctx context.Context) {
	for _, address := range m.addresses {
		balance, err := m.explorer.AddressBalance(ctx, address)
		if err != nil {
			m.logger.Error("on-chain lookup failed", zap.String("address", address), zap.Error(err))
			continue
		}

		delta, err := m.tracker.UpdateOnchain(address, balance)
		if err != nil {
			m.logger.Warn("rejected on-chain update", zap.String("address", address), zap.Error(err))
			continue
		}

		m.logger.Info("on-chain balance",
			zap.String("address", address),
			zap.String("btc", balance.String()),
			zap.String("delta", delta.String()))
	}
}

func (m *Monitor) evaluatePolicy(ctx context.Context) {
	price, err := m.pricer.GetPrice(ctx, m.pair)
	if err != nil {
		m.logger.Error("reference price lookup failed", zap.String("pair", m.pair.String()), zap.Error(err))
		return
	}

	intent := m.policy.Decide(price, m.tracker.SpotSnapshot())
	if intent == nil {
		return
	}

	m.logger.Info("trade intent", zap.String("intent", intent.String()))
	if err := m.executeIntent(ctx, intent); err != nil {
		m.logger.Error("trade execution failed", zap.Error(err))
	}
}

// executeIntent submits the order and records it in the ledger. The two are
// transactionally coupled: the append happens if and only if the exchange
// confirmed the submission.
func (m *Monitor) executeIntent(ctx context.Context, intent *domain.TradeIntent) error {
	quantity := domain.NormalizeQuantity(intent.Quantity)
	if !quantity.IsPositive() {
		return errors.Errorf("intent quantity %s is below order precision", intent.Quantity.String())
	}

	order, err := m.trader.PlaceMarketOrder(ctx, intent.Side, quantity)
	if err != nil {
		return errors.WithStack(&domain.SubmissionError{Side: intent.Side, Err: err})
	}

	op := intent.Operation()
	op.Quantity = quantity
	block, err := m.ledger.Append(op)
	if err != nil {
		return errors.Wrap(err, "order submitted but ledger append rejected the operation")
	}

	m.logger.Info("trade recorded",
		zap.String("side", intent.Side.String()),
		zap.String("order_id", order.OrderID),
		zap.Uint64("block_index", block.Index),
		zap.String("block_hash", block.Hash))
	return nil
}

func (m *Monitor) persistSnapshot() {
	if m.snapshots == nil {
		return
	}

	snapshot := domain.PollSnapshot{
		Timestamp: time.Now().UTC(),
		Spot:      m.tracker.Valuations(),
		Onchain:   m.tracker.OnchainSnapshot(),
	}
	if err := m.snapshots.Save(snapshot); err != nil {
		m.logger.Warn("failed to persist poll snapshot", zap.Error(err))
	}
}
