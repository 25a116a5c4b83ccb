// FILE: lixenwraith/tradelog/cmd/feedsim/parse.go
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/tradelog/msg"
)

// Feed lines are whitespace separated, first field selects the record:
//
//	book  SYMBOL TS bids=P:Q,P:Q asks=P:Q
//	trade SYMBOL SIDE QTY PRICE TS
//	pfill SYMBOL SIDE PRICE FILLED UNFILLED TS
//	mfill SYMBOL SIDE PRICE QTY TS
//	tfill SYMBOL SIDE QTY PRICE TS
//	pos   SYMBOL SIDE PNL LEVERAGE FILL_TS SINCE_FILL
//	warn  TEXT...
//	err   CODE TEXT...

var (
	errEmptyLine     = errors.New("empty line")
	errUnknownRecord = errors.New("unknown record type")
)

// parseLine converts one feed line into a message ready for Log
func parseLine(line string) (msg.Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errEmptyLine
	}

	kind, args := fields[0], fields[1:]
	switch kind {
	case "book":
		return parseBook(args)
	case "trade":
		n, err := parseInts(kind, args, 5, 2)
		if err != nil {
			return nil, err
		}
		return msg.Event{Domain: msg.MarketTrade{
			Symbol: args[0], Side: msg.ParseSide(args[1]),
			Qty: n[0], FillPrice: n[1], Timestamp: n[2],
		}}, nil
	case "pfill":
		n, err := parseInts(kind, args, 6, 2)
		if err != nil {
			return nil, err
		}
		return msg.Event{Domain: msg.AccountPartialMakerFill{
			Symbol: args[0], Side: msg.ParseSide(args[1]),
			Price: n[0], SizeFilled: n[1], SizeUnfilled: n[2], Timestamp: n[3],
		}}, nil
	case "mfill":
		n, err := parseInts(kind, args, 5, 2)
		if err != nil {
			return nil, err
		}
		return msg.Event{Domain: msg.AccountMakerFill{
			Symbol: args[0], Side: msg.ParseSide(args[1]),
			FillPrice: n[0], Qty: n[1], Timestamp: n[2],
		}}, nil
	case "tfill":
		n, err := parseInts(kind, args, 5, 2)
		if err != nil {
			return nil, err
		}
		return msg.Event{Domain: msg.AccountTakerFill{
			Symbol: args[0], Side: msg.ParseSide(args[1]),
			Qty: n[0], FillPrice: n[1], Timestamp: n[2],
		}}, nil
	case "pos":
		n, err := parseInts(kind, args, 6, 2)
		if err != nil {
			return nil, err
		}
		if n[1] < 0 || n[1] > 1<<32-1 {
			return nil, fmt.Errorf("pos: leverage out of range: %d", n[1])
		}
		return msg.Event{Domain: msg.AccountPositionStatus{
			Symbol: args[0], Side: msg.ParseSide(args[1]),
			PnL: n[0], Leverage: uint32(n[1]), FillTimestamp: n[2], TimeSinceFill: n[3],
		}}, nil
	case "warn":
		return msg.Warning{Message: strings.Join(args, " ")}, nil
	case "err":
		if len(args) < 1 {
			return nil, fmt.Errorf("err: missing code")
		}
		code, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("err: invalid code '%s': %w", args[0], err)
		}
		return msg.Error{Code: int32(code), Message: strings.Join(args[1:], " ")}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownRecord, kind)
	}
}

// parseInts checks the argument count and parses args[from:] as integers
func parseInts(kind string, args []string, want, from int) ([]int64, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%s: expected %d fields, got %d", kind, want, len(args))
	}
	out := make([]int64, 0, want-from)
	for _, a := range args[from:] {
		v, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer '%s'", kind, a)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseBook(args []string) (msg.Message, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("book: expected symbol and timestamp")
	}
	ts, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("book: invalid timestamp '%s'", args[1])
	}

	update := msg.MarketOrderBookUpdate{Symbol: args[0], EventTimestamp: ts}
	for _, part := range args[2:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("book: invalid side list '%s'", part)
		}
		levels, err := parseLevels(value)
		if err != nil {
			return nil, fmt.Errorf("book: %w", err)
		}
		switch key {
		case "bids":
			update.Bids = levels
		case "asks":
			update.Asks = levels
		default:
			return nil, fmt.Errorf("book: unknown side '%s'", key)
		}
	}
	return msg.Event{Domain: update}, nil
}

func parseLevels(s string) ([]msg.PriceLevel, error) {
	if s == "" {
		return nil, nil
	}
	entries := strings.Split(s, ",")
	levels := make([]msg.PriceLevel, 0, len(entries))
	for _, e := range entries {
		p, q, ok := strings.Cut(e, ":")
		if !ok {
			return nil, fmt.Errorf("invalid level '%s'", e)
		}
		price, err1 := strconv.ParseInt(p, 10, 64)
		qty, err2 := strconv.ParseInt(q, 10, 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid level '%s'", e)
		}
		levels = append(levels, msg.PriceLevel{price, qty})
	}
	return levels, nil
}
