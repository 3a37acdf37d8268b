// Package inventory serves per-symbol fundamentals from a local CSV file.
//
// The file is read once, on first use. A load failure is remembered and
// returned by every call, so callers can fall back without retrying the read.
package inventory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"

	"github.com/guttosm/stockpulse/internal/marketdata"
)

// ErrNotFound is returned by Lookup for unknown symbols.
var ErrNotFound = errors.New("stock not found")

// Number is a CSV numeric cell. Empty or malformed cells read as 0.
type Number float64

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (n *Number) UnmarshalCSV(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// Record is one row of the constituents-financials file.
// JSON keys keep the file's column names.
type Record struct {
	Symbol        string `csv:"Symbol" json:"Symbol"`
	Name          string `csv:"Name" json:"Name"`
	Sector        string `csv:"Sector" json:"Sector"`
	Price         Number `csv:"Price" json:"Price"`
	PriceEarnings Number `csv:"Price/Earnings" json:"Price/Earnings"`
	DividendYield Number `csv:"Dividend Yield" json:"Dividend Yield"`
	EarningsShare Number `csv:"Earnings/Share" json:"Earnings/Share"`
	Low52Week     Number `csv:"52 Week Low" json:"52 Week Low"`
	High52Week    Number `csv:"52 Week High" json:"52 Week High"`
	MarketCap     Number `csv:"Market Cap" json:"Market Cap"`
	EBITDA        Number `csv:"EBITDA" json:"EBITDA"`
	PriceSales    Number `csv:"Price/Sales" json:"Price/Sales"`
	PriceBook     Number `csv:"Price/Book" json:"Price/Book"`
	SECFilings    string `csv:"SEC Filings" json:"SEC Filings,omitempty"`
}

// SymbolInfo is the autocomplete view of a record.
type SymbolInfo struct {
	Symbol string `json:"Symbol"`
	Name   string `json:"Name"`
	Sector string `json:"Sector"`
}

// SectorStock is a constituent listed under a sector.
type SectorStock struct {
	Symbol    string  `json:"Symbol"`
	Name      string  `json:"Name"`
	Price     float64 `json:"Price"`
	MarketCap float64 `json:"MarketCap"`
}

// SectorSummary aggregates the constituents of one sector.
// Stocks are sorted by market cap, descending.
type SectorSummary struct {
	Count            int           `json:"count"`
	TotalMarketCap   float64       `json:"totalMarketCap"`
	AvgPE            float64       `json:"avgPE"`
	AvgDividendYield float64       `json:"avgDividendYield"`
	Stocks           []SectorStock `json:"stocks"`
}

// Inventory exposes the fundamentals dataset.
type Inventory interface {
	Symbols(ctx context.Context) ([]SymbolInfo, error)
	Lookup(ctx context.Context, symbol string) (Record, error)
	Records(ctx context.Context) ([]Record, error)
	Sectors(ctx context.Context) (map[string]SectorSummary, error)
	CapRecords(ctx context.Context) ([]marketdata.CapRecord, error)
}

type inventory struct {
	load func() ([]Record, error)
}

// NewFileInventory returns an Inventory backed by the CSV file at path.
func NewFileInventory(path string) Inventory {
	return &inventory{load: sync.OnceValues(func() ([]Record, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open inventory file: %w", err)
		}
		defer f.Close()
		return Parse(f)
	})}
}

// NewInventory returns an Inventory over records already in memory.
func NewInventory(records []Record) Inventory {
	return &inventory{load: func() ([]Record, error) { return records, nil }}
}

// Parse reads constituents-financials CSV rows. Rows without a symbol are skipped.
func Parse(r io.Reader) ([]Record, error) {
	var rows []Record
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}
	out := rows[:0]
	for _, row := range rows {
		row.Symbol = strings.TrimSpace(row.Symbol)
		if row.Symbol == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (i *inventory) Records(context.Context) ([]Record, error) {
	return i.load()
}

func (i *inventory) Symbols(ctx context.Context) ([]SymbolInfo, error) {
	records, err := i.load()
	if err != nil {
		return nil, err
	}
	out := make([]SymbolInfo, 0, len(records))
	for _, r := range records {
		out = append(out, SymbolInfo{Symbol: r.Symbol, Name: r.Name, Sector: r.Sector})
	}
	return out, nil
}

func (i *inventory) Lookup(ctx context.Context, symbol string) (Record, error) {
	records, err := i.load()
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.Symbol == symbol {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Sectors groups records by sector. Records without a sector are ignored.
func (i *inventory) Sectors(ctx context.Context) (map[string]SectorSummary, error) {
	records, err := i.load()
	if err != nil {
		return nil, err
	}

	type acc struct {
		pe, dy, caps stats.Float64Data
		stocks       []SectorStock
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		if r.Sector == "" {
			continue
		}
		g, ok := groups[r.Sector]
		if !ok {
			g = &acc{}
			groups[r.Sector] = g
		}
		g.pe = append(g.pe, float64(r.PriceEarnings))
		g.dy = append(g.dy, float64(r.DividendYield))
		g.caps = append(g.caps, float64(r.MarketCap))
		g.stocks = append(g.stocks, SectorStock{
			Symbol:    r.Symbol,
			Name:      r.Name,
			Price:     float64(r.Price),
			MarketCap: float64(r.MarketCap),
		})
	}

	out := make(map[string]SectorSummary, len(groups))
	for name, g := range groups {
		total, _ := stats.Sum(g.caps)
		avgPE, _ := stats.Mean(g.pe)
		avgDY, _ := stats.Mean(g.dy)
		slices.SortStableFunc(g.stocks, func(a, b SectorStock) int { return cmp.Compare(b.MarketCap, a.MarketCap) })
		out[name] = SectorSummary{
			Count:            len(g.stocks),
			TotalMarketCap:   total,
			AvgPE:            avgPE,
			AvgDividendYield: avgDY,
			Stocks:           g.stocks,
		}
	}
	return out, nil
}

// CapRecords returns the stored price and market cap of every record.
func (i *inventory) CapRecords(ctx context.Context) ([]marketdata.CapRecord, error) {
	records, err := i.load()
	if err != nil {
		return nil, err
	}
	out := make([]marketdata.CapRecord, 0, len(records))
	for _, r := range records {
		out = append(out, marketdata.CapRecord{
			Symbol:    r.Symbol,
			Price:     float64(r.Price),
			MarketCap: float64(r.MarketCap),
		})
	}
	return out, nil
}
