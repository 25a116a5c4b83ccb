// FILE: lixenwraith/tradelog/msg/domain.go
package msg

import (
	"strconv"
)

// DomainEvent is the extension point for trading events. Any type with a
// deterministic Render and a stable name can be wrapped in Event.
type DomainEvent interface {
	Formattable
	EventName() string
}

// PriceLevel is a [price, size] pair in integer ticks
type PriceLevel [2]int64

// Side of an order or position
type Side uint8

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide maps common buy/sell spellings to a Side
func ParseSide(s string) Side {
	switch s {
	case "buy", "BUY", "Buy", "b", "B", "bid":
		return SideBuy
	case "sell", "SELL", "Sell", "s", "S", "ask":
		return SideSell
	default:
		return SideUnknown
	}
}

// MarketOrderBookUpdate is a depth update for one symbol
type MarketOrderBookUpdate struct {
	Symbol         string
	Bids           []PriceLevel
	Asks           []PriceLevel
	EventTimestamp int64
}

func (u MarketOrderBookUpdate) EventName() string { return "MarketOrderBookUpdate" }

func (u MarketOrderBookUpdate) AppendRender(dst []byte) []byte {
	dst = append(dst, "MarketOrderBookUpdate - symbol: "...)
	dst = append(dst, u.Symbol...)
	dst = append(dst, ", bids "...)
	dst = appendLevels(dst, u.Bids)
	dst = append(dst, ", asks "...)
	dst = appendLevels(dst, u.Asks)
	dst = append(dst, ", event_timestamp "...)
	return strconv.AppendInt(dst, u.EventTimestamp, 10)
}

func (u MarketOrderBookUpdate) Render() string {
	return string(u.AppendRender(make([]byte, 0, 96+len(u.Symbol)+24*(len(u.Bids)+len(u.Asks)))))
}

// MarketTrade is a public trade print
type MarketTrade struct {
	Symbol    string
	Side      Side
	Qty       int64
	FillPrice int64
	Timestamp int64
}

func (t MarketTrade) EventName() string { return "MarketTrade" }

func (t MarketTrade) AppendRender(dst []byte) []byte {
	dst = append(dst, "MarketTrade - symbol: "...)
	dst = append(dst, t.Symbol...)
	dst = appendSide(dst, t.Side)
	dst = appendIntField(dst, ", qty: ", t.Qty)
	dst = appendIntField(dst, ", fill_price: ", t.FillPrice)
	return appendIntField(dst, ", timestamp: ", t.Timestamp)
}

func (t MarketTrade) Render() string {
	return string(t.AppendRender(make([]byte, 0, 128)))
}

// AccountPartialMakerFill is a partial fill of a resting order
type AccountPartialMakerFill struct {
	Symbol       string
	Side         Side
	Price        int64
	SizeFilled   int64
	SizeUnfilled int64
	Timestamp    int64
}

func (f AccountPartialMakerFill) EventName() string { return "AccountPartialMakerFill" }

func (f AccountPartialMakerFill) AppendRender(dst []byte) []byte {
	dst = append(dst, "AccountPartialMakerFill - symbol: "...)
	dst = append(dst, f.Symbol...)
	dst = appendSide(dst, f.Side)
	dst = appendIntField(dst, ", price: ", f.Price)
	dst = appendIntField(dst, ", size_filled: ", f.SizeFilled)
	dst = appendIntField(dst, ", size_unfilled: ", f.SizeUnfilled)
	return appendIntField(dst, ", timestamp: ", f.Timestamp)
}

func (f AccountPartialMakerFill) Render() string {
	return string(f.AppendRender(make([]byte, 0, 160)))
}

// AccountMakerFill is a complete fill of a resting order
type AccountMakerFill struct {
	Symbol    string
	Side      Side
	FillPrice int64
	Qty       int64
	Timestamp int64
}

func (f AccountMakerFill) EventName() string { return "AccountMakerFill" }

func (f AccountMakerFill) AppendRender(dst []byte) []byte {
	dst = append(dst, "AccountMakerFill - symbol: "...)
	dst = append(dst, f.Symbol...)
	dst = appendSide(dst, f.Side)
	dst = appendIntField(dst, ", fill_price: ", f.FillPrice)
	dst = appendIntField(dst, ", qty: ", f.Qty)
	return appendIntField(dst, ", timestamp: ", f.Timestamp)
}

func (f AccountMakerFill) Render() string {
	return string(f.AppendRender(make([]byte, 0, 128)))
}

// AccountTakerFill is a fill of an aggressing order
type AccountTakerFill struct {
	Symbol    string
	Side      Side
	Qty       int64
	FillPrice int64
	Timestamp int64
}

func (f AccountTakerFill) EventName() string { return "AccountTakerFill" }

func (f AccountTakerFill) AppendRender(dst []byte) []byte {
	dst = append(dst, "AccountTakerFill - symbol: "...)
	dst = append(dst, f.Symbol...)
	dst = appendSide(dst, f.Side)
	dst = appendIntField(dst, ", qty: ", f.Qty)
	dst = appendIntField(dst, ", fill_price: ", f.FillPrice)
	return appendIntField(dst, ", timestamp: ", f.Timestamp)
}

func (f AccountTakerFill) Render() string {
	return string(f.AppendRender(make([]byte, 0, 128)))
}

// AccountPositionStatus is a position snapshot. TimeSinceFill is in milliseconds.
type AccountPositionStatus struct {
	Symbol        string
	Side          Side
	PnL           int64
	Leverage      uint32
	FillTimestamp int64
	TimeSinceFill int64
}

func (p AccountPositionStatus) EventName() string { return "AccountPositionStatus" }

func (p AccountPositionStatus) AppendRender(dst []byte) []byte {
	dst = append(dst, "AccountPositionStatus - symbol: "...)
	dst = append(dst, p.Symbol...)
	dst = appendSide(dst, p.Side)
	dst = appendIntField(dst, ", pnl: ", p.PnL)
	dst = append(dst, ", leverage: "...)
	dst = strconv.AppendUint(dst, uint64(p.Leverage), 10)
	dst = appendIntField(dst, ", fill_timestamp: ", p.FillTimestamp)
	return appendIntField(dst, ", time_since_fill: ", p.TimeSinceFill)
}

func (p AccountPositionStatus) Render() string {
	return string(p.AppendRender(make([]byte, 0, 160)))
}

// appendLevels writes levels as [[p, s], [p, s]]
func appendLevels(dst []byte, levels []PriceLevel) []byte {
	dst = append(dst, '[')
	for i, lvl := range levels {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, '[')
		dst = strconv.AppendInt(dst, lvl[0], 10)
		dst = append(dst, ", "...)
		dst = strconv.AppendInt(dst, lvl[1], 10)
		dst = append(dst, ']')
	}
	return append(dst, ']')
}

func appendSide(dst []byte, s Side) []byte {
	dst = append(dst, ", side: "...)
	return append(dst, s.String()...)
}

func appendIntField(dst []byte, label string, v int64) []byte {
	dst = append(dst, label...)
	return strconv.AppendInt(dst, v, 10)
}
