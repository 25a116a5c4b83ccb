// FILE: lixenwraith/tradelog/cmd/stress/main.go
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/tradelog"
	"github.com/lixenwraith/tradelog/msg"
)

const (
	totalBursts  = 200
	logsPerBurst = 5000
	burstPause   = 2 * time.Millisecond
	sinkDelay    = 50 * time.Microsecond
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[tradelog]
  buffer_size = 65536
  enable_pinning = true
  core_index = -1
  spin_count = 128
  idle_sleep_us = 200
  flush_interval_ms = 50
  heartbeat_interval_ms = 1000
  shutdown_timeout_ms = 10000
  enable_console = false
  enable_file = true
  directory = "./logs"
  name = "stress_test"
  extension = "log"
  sanitization = "txt"
`

var symbols = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "XRPUSDT"}

// slowWriter delays every write to emulate a congested disk or pipe
type slowWriter struct {
	f     *os.File
	delay time.Duration
}

func (w *slowWriter) Write(p []byte) (int, error) {
	time.Sleep(w.delay)
	return w.f.Write(p)
}

func (w *slowWriter) Sync() error { return w.f.Sync() }

// randomEvent builds one of the domain events with random fields
func randomEvent(seq int) msg.Message {
	sym := symbols[rand.Intn(len(symbols))]
	side := msg.Side(rand.Intn(2) + 1)
	price := int64(rand.Intn(100000) + 1)
	qty := int64(rand.Intn(100) + 1)
	ts := time.Now().UnixNano()

	switch seq % 7 {
	case 0:
		bids := []msg.PriceLevel{{price, qty}, {price - 1, qty * 2}}
		asks := []msg.PriceLevel{{price + 1, qty}}
		return msg.Event{Domain: msg.MarketOrderBookUpdate{Symbol: sym, Bids: bids, Asks: asks, EventTimestamp: ts}}
	case 1:
		return msg.Event{Domain: msg.MarketTrade{Symbol: sym, Side: side, Qty: qty, FillPrice: price, Timestamp: ts}}
	case 2:
		return msg.Event{Domain: msg.AccountPartialMakerFill{Symbol: sym, Side: side, Price: price, SizeFilled: qty, SizeUnfilled: qty / 2, Timestamp: ts}}
	case 3:
		return msg.Event{Domain: msg.AccountMakerFill{Symbol: sym, Side: side, FillPrice: price, Qty: qty, Timestamp: ts}}
	case 4:
		return msg.Event{Domain: msg.AccountTakerFill{Symbol: sym, Side: side, Qty: qty, FillPrice: price, Timestamp: ts}}
	case 5:
		return msg.Event{Domain: msg.AccountPositionStatus{Symbol: sym, Side: side, PnL: price - 50000, Leverage: uint32(qty % 20), FillTimestamp: ts, TimeSinceFill: int64(rand.Intn(5000))}}
	default:
		return msg.Error{Code: int32(seq % 1000), Message: "order rejected"}
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

func main() {
	fmt.Println("--- Trade Logger Stress Test ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created dummy config file: %s\n", configFile)

	cfg, err := tradelog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	_ = os.RemoveAll(cfg.Directory) // Clean previous run's log directory
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	path := cfg.Directory + "/" + cfg.Name + "." + cfg.Extension
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// --- Initialize Logger ---
	logger, err := tradelog.NewWithSink(cfg, &slowWriter{f: f, delay: sinkDelay})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Logger initialized. Sink delay %v per record, writing to %s\n", sinkDelay, path)

	fmt.Printf("Starting stress test: %d bursts, %d logs/burst, single producer.\n", totalBursts, logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Signal Handling ---
	var stop atomic.Bool
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		stop.Store(true)
	}()

	// --- Run Test ---
	latencies := make([]time.Duration, 0, totalBursts*logsPerBurst)
	var rejected int
	startTime := time.Now()

	completed := 0
	for burst := 0; burst < totalBursts && !stop.Load(); burst++ {
		for i := 0; i < logsPerBurst; i++ {
			m := randomEvent(burst*logsPerBurst + i)
			t0 := time.Now()
			err := logger.Log(m)
			latencies = append(latencies, time.Since(t0))
			if err != nil {
				rejected++
			}
		}
		completed++
		if completed%20 == 0 || completed == totalBursts {
			st := logger.Stats()
			fmt.Printf("\rProgress: %d/%d bursts, processed=%d dropped=%d", completed, totalBursts, st.Processed, st.Dropped)
		}
		time.Sleep(burstPause)
	}
	duration := time.Since(startTime)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", completed, totalBursts, duration.Round(time.Millisecond))
	fmt.Printf("Log latency: p50=%v p90=%v p99=%v p99.9=%v max=%v\n",
		percentile(latencies, 0.50), percentile(latencies, 0.90), percentile(latencies, 0.99),
		percentile(latencies, 0.999), percentile(latencies, 1))
	fmt.Printf("Rejected (queue full): %d of %d\n", rejected, len(latencies))

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger (allowing up to 30s for the slow sink)...")
	if err := logger.Shutdown(30 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	st := logger.Stats()
	fmt.Printf("Worker: pinned_core=%d submitted=%d processed=%d sink_errors=%d render_faults=%d heartbeats=%d\n",
		st.PinnedCore, st.Submitted, st.Processed, st.SinkErrors, st.RenderFaults, st.Heartbeats)
	fmt.Printf("Check log file '%s' and the config '%s'.\n", path, configFile)
}
