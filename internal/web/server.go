// Package web exposes the accumulated monitor state over HTTP: current
// balances, the full ledger, manual order submission and an SSE stream of
// poll snapshots.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/vigia/internal/domain"
	"github.com/vadiminshakov/vigia/internal/ledger"
	"github.com/vadiminshakov/vigia/internal/tracker"
)

const (
	snapshotPollInterval = 2 * time.Second
	heartbeatInterval    = 30 * time.Second
	shutdownTimeout      = 5 * time.Second
)

type orderSubmitter interface {
	PlaceMarketOrder(ctx context.Context, side domain.Side, quantity decimal.Decimal) (*domain.OrderResult, error)
}

type pricesvc interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}

type snapshotReader interface {
	SnapshotsAfter(index uint64) ([]domain.PollSnapshotRecord, error)
}

// Server wraps the gin engine with the handlers of the query surface.
type Server struct {
	addr      string
	pair      domain.Pair
	tracker   *tracker.Tracker
	ledger    *ledger.Ledger
	trader    orderSubmitter
	pricer    pricesvc
	snapshots snapshotReader
	logger    *zap.Logger
	engine    *gin.Engine
}

// NewServer creates the HTTP server. The snapshot reader is optional; when
// nil the SSE endpoint reports unavailability.
func NewServer(
	addr string,
	pair domain.Pair,
	balanceTracker *tracker.Tracker,
	tradeLedger *ledger.Ledger,
	trader orderSubmitter,
	pricer pricesvc,
	snapshots snapshotReader,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:      addr,
		pair:      pair,
		tracker:   balanceTracker,
		ledger:    tradeLedger,
		trader:    trader,
		pricer:    pricer,
		snapshots: snapshots,
		logger:    logger,
		engine:    gin.New(),
	}

	s.engine.Use(recovery(logger))
	s.engine.Use(requestLogger(logger))
	s.engine.Use(cors())

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/balances", s.handleBalances)
	s.engine.GET("/ledger", s.handleLedger)
	s.engine.POST("/order", s.handleOrder)
	s.engine.GET("/balances/stream", s.handleSnapshotStream)

	return s
}

// Engine returns the underlying gin engine, used by tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server listening", zap.String("addr", s.addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleBalances(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"spot":    s.tracker.Valuations(),
		"onchain": s.tracker.OnchainSnapshot(),
	})
}

func (s *Server) handleLedger(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.Blocks())
}

// orderRequest binds the quantity as a decimal, which accepts both JSON
// numbers and numeric strings.
type orderRequest struct {
	Side     string          `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
}

// handleOrder submits a manual market order. The ledger append happens only
// after the exchange confirmed the submission, sharing the append lock with
// the polling cycle.
func (s *Server) handleOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with 'side' and 'quantity'"})
		return
	}

	side, ok := domain.ParseSide(req.Side)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid side %q, expected BUY or SELL", req.Side)})
		return
	}

	quantity := domain.NormalizeQuantity(req.Quantity)
	if !quantity.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid quantity %s", req.Quantity.String())})
		return
	}

	price, err := s.pricer.GetPrice(c.Request.Context(), s.pair)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("price lookup failed: %v", err)})
		return
	}

	order, err := s.trader.PlaceMarketOrder(c.Request.Context(), side, quantity)
	if err != nil {
		s.logger.Error("manual order submission failed", zap.String("side", side.String()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("order submission failed: %v", err)})
		return
	}

	block, err := s.ledger.Append(domain.TradeOperation{
		Side:     side,
		Asset:    s.pair.From,
		Quantity: quantity,
		Price:    price,
	})
	if err != nil {
		s.logger.Error("ledger append failed after confirmed submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "block": block})
}

// handleSnapshotStream streams persisted poll snapshots as server-sent events.
func (s *Server) handleSnapshotStream(c *gin.Context) {
	if s.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot store not available"})
		return
	}
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(snapshotPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendSnapshots := func() error {
		records, err := s.snapshots.SnapshotsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Writer, "event: snapshot\n")
			fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendSnapshots(); err != nil {
		s.logger.Error("snapshot stream initial load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshots"})
		return
	}

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(c.Writer, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendSnapshots(); err != nil {
				s.logger.Warn("snapshot stream poll failed", zap.Error(err))
			}
		}
	}
}
