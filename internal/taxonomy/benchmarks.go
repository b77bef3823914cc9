// File path: internal/taxonomy/benchmarks.go
package taxonomy

import "strings"

// Benchmark is one small-business reference metric for a category. Values are
// data, not design: deployments may override the whole table through
// configuration.
type Benchmark struct {
	Category string  `json:"category"`
	Metric   string  `json:"metric"`
	Median   float64 `json:"median"`
	Unit     string  `json:"unit"`
}

// DefaultBenchmarks returns the compiled-in micro-business benchmark table
// used when no override file is configured. The recovery controller draws its
// fallback comparisons from here.
func DefaultBenchmarks() []Benchmark {
	return []Benchmark{
		{Category: "STR", Metric: "Documented annual plan coverage", Median: 60, Unit: "percent"},
		{Category: "STR", Metric: "Quarterly goal review cadence", Median: 4, Unit: "reviews/year"},
		{Category: "MKT", Metric: "Marketing spend share of revenue", Median: 7, Unit: "percent"},
		{Category: "MKT", Metric: "Qualified leads per month", Median: 25, Unit: "leads"},
		{Category: "SLS", Metric: "Lead-to-close conversion", Median: 18, Unit: "percent"},
		{Category: "SLS", Metric: "Average sales cycle", Median: 32, Unit: "days"},
		{Category: "CXP", Metric: "Net promoter score", Median: 42, Unit: "nps"},
		{Category: "CXP", Metric: "Repeat purchase rate", Median: 35, Unit: "percent"},
		{Category: "OPS", Metric: "On-time delivery", Median: 88, Unit: "percent"},
		{Category: "OPS", Metric: "Documented core processes", Median: 55, Unit: "percent"},
		{Category: "TEC", Metric: "Systems with automated backup", Median: 70, Unit: "percent"},
		{Category: "TEC", Metric: "Manual data re-entry points", Median: 3, Unit: "count"},
		{Category: "FIN", Metric: "Gross margin", Median: 38, Unit: "percent"},
		{Category: "FIN", Metric: "Cash runway", Median: 11, Unit: "weeks"},
		{Category: "RSK", Metric: "Revenue from top customer", Median: 22, Unit: "percent"},
		{Category: "RSK", Metric: "Insured loss scenarios", Median: 3, Unit: "count"},
		{Category: "HRM", Metric: "Annual staff turnover", Median: 18, Unit: "percent"},
		{Category: "HRM", Metric: "Roles with written handover docs", Median: 40, Unit: "percent"},
		{Category: "LDR", Metric: "Owner hours in delivery work", Median: 55, Unit: "percent"},
		{Category: "LDR", Metric: "Decisions delegated below owner", Median: 30, Unit: "percent"},
	}
}

// BenchmarksFor filters a benchmark table down to one category.
func BenchmarksFor(table []Benchmark, category string) []Benchmark {
	normalized := strings.ToUpper(strings.TrimSpace(category))
	if normalized == "" {
		return nil
	}
	var out []Benchmark
	for _, b := range table {
		if strings.ToUpper(strings.TrimSpace(b.Category)) == normalized {
			out = append(out, b)
		}
	}
	return out
}
