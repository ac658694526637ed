package catalog

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/viper"

	"github.com/d4l-data4life/go-svc/pkg/logging"
)

// Pricing is the per-million-token cost of a model. Either side may be
// nil when the provider publishes no price.
type Pricing struct {
	InputPerMillion  *float64 `json:"input_cost_per_million,omitempty"`
	OutputPerMillion *float64 `json:"output_cost_per_million,omitempty"`
}

// pricingCache memoizes pricing lookups with a TTL so repeated cost
// calculations during usage aggregation avoid re-resolving the table.
type pricingCache struct {
	cache  *gocache.Cache
	lookup func(modelID string) (Pricing, bool)
}

func newPricingCache(lookup func(modelID string) (Pricing, bool)) *pricingCache {
	ttl := viper.GetDuration("PRICING_CACHE_TTL")
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &pricingCache{
		cache:  gocache.New(ttl, 2*ttl),
		lookup: lookup,
	}
}

// CostPerMillionTokens returns the cached pricing for a model. Unknown
// models yield empty pricing, cached as well so misses stay cheap.
func (r *Registry) CostPerMillionTokens(modelID string) Pricing {
	if cached, found := r.pricing.cache.Get(modelID); found {
		return cached.(Pricing)
	}
	p, ok := r.pricing.lookup(modelID)
	if !ok {
		logging.LogDebugf("no pricing for model %s", modelID)
	}
	r.pricing.cache.Set(modelID, p, gocache.DefaultExpiration)
	return p
}

// InvalidatePricing drops a model's cached pricing, or the whole cache
// when modelID is empty.
func (r *Registry) InvalidatePricing(modelID string) {
	if modelID == "" {
		r.pricing.cache.Flush()
		return
	}
	r.pricing.cache.Delete(modelID)
}

func (r *Registry) lookupPricing(modelID string) (Pricing, bool) {
	m, ok := r.byID[modelID]
	if !ok {
		return Pricing{}, false
	}
	return Pricing{
		InputPerMillion:  m.InputCostPerMillion,
		OutputPerMillion: m.OutputCostPerMillion,
	}, true
}
