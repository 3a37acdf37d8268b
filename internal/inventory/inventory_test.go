package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleCSV = `Symbol,Name,Sector,Price,Price/Earnings,Dividend Yield,Earnings/Share,52 Week Low,52 Week High,Market Cap,EBITDA,Price/Sales,Price/Book,SEC Filings
AAA,Alpha Corp,Energy,10,10,2,1,8,12,5000000000,1,1,1,http://sec/aaa
BBB,Beta Inc,Energy,20,30,4,1,15,25,250000000000,1,1,1,http://sec/bbb
CCC,Gamma Ltd,Utilities,5,n/a,,0.5,4,6,100000000,1,1,1,http://sec/ccc
,Blank Row,Energy,1,1,1,1,1,1,1,1,1,1,
DDD,No Sector,,1,1,1,1,1,1,1,1,1,1,
`

func newSample(t *testing.T) Inventory {
	t.Helper()
	records, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewInventory(records)
}

func TestParse_LenientNumbersAndBlankSymbols(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	c := records[2]
	if c.Symbol != "CCC" || c.PriceEarnings != 0 || c.DividendYield != 0 || c.MarketCap != 100e6 {
		t.Fatalf("unexpected record %+v", c)
	}
}

func TestSymbolsAndLookup(t *testing.T) {
	inv := newSample(t)
	ctx := context.Background()

	syms, err := inv.Symbols(ctx)
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	if diff := cmp.Diff(SymbolInfo{Symbol: "AAA", Name: "Alpha Corp", Sector: "Energy"}, syms[0]); diff != "" {
		t.Fatalf("symbol mismatch (-want +got):\n%s", diff)
	}

	rec, err := inv.Lookup(ctx, "BBB")
	if err != nil || rec.Name != "Beta Inc" || rec.MarketCap != 250e9 {
		t.Fatalf("lookup BBB: %+v err=%v", rec, err)
	}
	if _, err := inv.Lookup(ctx, "ZZZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSectors(t *testing.T) {
	sectors, err := newSample(t).Sectors(context.Background())
	if err != nil {
		t.Fatalf("sectors: %v", err)
	}
	if len(sectors) != 2 {
		t.Fatalf("got %d sectors, want 2 (records without sector ignored)", len(sectors))
	}
	energy := sectors["Energy"]
	want := SectorSummary{
		Count:            2,
		TotalMarketCap:   255e9,
		AvgPE:            20,
		AvgDividendYield: 3,
		Stocks: []SectorStock{
			{Symbol: "BBB", Name: "Beta Inc", Price: 20, MarketCap: 250e9},
			{Symbol: "AAA", Name: "Alpha Corp", Price: 10, MarketCap: 5e9},
		},
	}
	if diff := cmp.Diff(want, energy); diff != "" {
		t.Fatalf("energy mismatch (-want +got):\n%s", diff)
	}
}

func TestCapRecords(t *testing.T) {
	recs, err := newSample(t).CapRecords(context.Background())
	if err != nil {
		t.Fatalf("cap records: %v", err)
	}
	if len(recs) != 4 || recs[1].Symbol != "BBB" || recs[1].Price != 20 || recs[1].MarketCap != 250e9 {
		t.Fatalf("unexpected cap records %+v", recs)
	}
}

func TestFileInventory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "financials.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	inv := NewFileInventory(path)
	recs, err := inv.Records(context.Background())
	if err != nil || len(recs) != 4 {
		t.Fatalf("records: %d err=%v", len(recs), err)
	}

	// the file is read once
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := inv.Lookup(context.Background(), "AAA"); err != nil {
		t.Fatalf("lookup after removal: %v", err)
	}
}

func TestFileInventory_MissingFile(t *testing.T) {
	inv := NewFileInventory(filepath.Join(t.TempDir(), "absent.csv"))
	ctx := context.Background()
	if _, err := inv.Records(ctx); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := inv.CapRecords(ctx); err == nil {
		t.Fatalf("expected the load error to be remembered")
	}
}
