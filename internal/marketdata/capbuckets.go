package marketdata

import (
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// CapRecord is the stored fundamentals needed to bucket one symbol.
type CapRecord struct {
	Symbol    string
	Price     float64
	MarketCap float64
}

// BucketFor returns the bucket a market cap falls into. Caps <= 0 have no bucket.
func BucketFor(marketCap float64) (models.CapBucket, bool) {
	if marketCap <= 0 {
		return models.CapBucket{}, false
	}
	for _, b := range models.CapBuckets {
		if marketCap >= b.Min {
			return b, true
		}
	}
	return models.CapBucket{}, false
}

// CurrentMarketCap re-prices a stored market cap at the latest known price.
// Shares outstanding are derived as stored cap / stored price. Without a latest
// price, or without a usable stored price, the stored cap is returned.
func CurrentMarketCap(r CapRecord, latest map[string]float64) float64 {
	price, ok := latest[r.Symbol]
	if !ok || price <= 0 || r.Price <= 0 {
		return r.MarketCap
	}
	return price * (r.MarketCap / r.Price)
}

// DistributeMarketCaps counts records per bucket. Every record with a positive
// current cap lands in exactly one bucket; the rest are not counted.
func DistributeMarketCaps(records []CapRecord, latest map[string]float64, now time.Time) models.MarketCapDistribution {
	d := models.NewMarketCapDistribution(now)
	for _, r := range records {
		if b, ok := BucketFor(CurrentMarketCap(r, latest)); ok {
			d.Categories[b.Label]++
		}
	}
	return d
}
