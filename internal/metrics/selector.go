package metrics

import (
	"math"
	"sort"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

const (
	DefaultTopMetricsCount = 4
	MaxMetricsPerCategory  = 2

	weightBasePriority     = 25
	weightPriorityStep     = 5
	weightPriorityFloor    = 10
	weightMeaningfulData   = 25
	weightSignificantDelta = 20
	weightModerateDelta    = 12
	weightMinorDelta       = 6
	weightAnomalyBoost     = 15
	weightCoreMetric       = 10

	significantChange = 20.0
	moderateChange    = 10.0
	minorChange       = 5.0
	runwayWarning     = 6.0
)

// stateMetrics describe a point in time rather than period activity, so
// they stay relevant at zero. Order is the fill order for quiet periods.
var stateMetrics = []domain.MetricType{
	domain.MetricCashBalance,
	domain.MetricOverdueAmount,
	domain.MetricRunwayMonths,
}

func isStateMetric(t domain.MetricType) bool {
	for _, s := range stateMetrics {
		if s == t {
			return true
		}
	}
	return false
}

// ScoreMetric ranks a metric for display. The score combines priority,
// presence of data, size of change, anomaly conditions and core membership.
func ScoreMetric(m domain.InsightMetric) int {
	def := DefinitionFor(m.Type)
	score := weightBasePriority - def.Priority*weightPriorityStep
	if score < weightPriorityFloor {
		score = weightPriorityFloor
	}

	if m.Value != 0 || m.PreviousValue != 0 {
		score += weightMeaningfulData
	}

	switch change := math.Abs(m.Change); {
	case change > significantChange:
		score += weightSignificantDelta
	case change > moderateChange:
		score += weightModerateDelta
	case change > minorChange:
		score += weightMinorDelta
	}

	switch {
	case m.Type == domain.MetricRunwayMonths && m.Value < runwayWarning:
		score += weightAnomalyBoost
	case m.Type == domain.MetricNetProfit && m.Value < 0:
		score += weightAnomalyBoost
	case m.Type == domain.MetricCashFlow && m.Value < 0:
		score += weightAnomalyBoost
	}

	if m.Type.IsCoreFinancial() {
		score += weightCoreMetric
	}
	return score
}

// displayable filters out bookkeeping metrics and metrics with no data in
// either period, keeping state metrics even at zero.
func displayable(m domain.InsightMetric) bool {
	if m.Type == domain.MetricInvoicesOverdue {
		return false
	}
	if DefinitionFor(m.Type).Category == domain.CategoryOperations {
		return false
	}
	if m.Value == 0 && m.PreviousValue == 0 && !isStateMetric(m.Type) {
		return false
	}
	return true
}

type scored struct {
	metric domain.InsightMetric
	score  int
}

// SelectTopMetrics picks up to count metrics for display.
//
// Candidates are stable-sorted by score, at most MaxMetricsPerCategory are
// taken from any category, and at least one core financial metric is kept
// whenever the input has one. Remaining room is filled with state metrics.
func SelectTopMetrics(set Set, count int) []domain.InsightMetric {
	if count <= 0 {
		return []domain.InsightMetric{}
	}

	var candidates []scored
	for _, m := range set.All() {
		if displayable(m) {
			candidates = append(candidates, scored{metric: m, score: ScoreMetric(m)})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	selected := make([]domain.InsightMetric, 0, count)
	perCategory := make(map[domain.MetricCategory]int)
	for _, c := range candidates {
		if len(selected) >= count {
			break
		}
		cat := DefinitionFor(c.metric.Type).Category
		if perCategory[cat] >= MaxMetricsPerCategory {
			continue
		}
		selected = append(selected, c.metric)
		perCategory[cat]++
	}

	if !containsCore(selected) {
		if core, ok := bestCore(candidates, set); ok {
			if len(selected) >= count {
				evicted := selected[len(selected)-1]
				perCategory[DefinitionFor(evicted.Type).Category]--
				selected = selected[:len(selected)-1]
			}
			selected = append([]domain.InsightMetric{core}, selected...)
			perCategory[DefinitionFor(core.Type).Category]++
		}
	}

	for _, t := range stateMetrics {
		if len(selected) >= count {
			break
		}
		m, ok := set.Get(t)
		if !ok || containsType(selected, t) {
			continue
		}
		cat := DefinitionFor(t).Category
		if perCategory[cat] >= MaxMetricsPerCategory {
			continue
		}
		selected = append(selected, m)
		perCategory[cat]++
	}

	return selected
}

// bestCore returns the highest-scored core financial metric, preferring
// displayable candidates over zero-valued ones.
func bestCore(candidates []scored, set Set) (domain.InsightMetric, bool) {
	for _, c := range candidates {
		if c.metric.Type.IsCoreFinancial() {
			return c.metric, true
		}
	}
	var best domain.InsightMetric
	bestScore, found := -1, false
	for _, m := range set.All() {
		if !m.Type.IsCoreFinancial() {
			continue
		}
		if s := ScoreMetric(m); s > bestScore {
			best, bestScore, found = m, s, true
		}
	}
	return best, found
}

func containsCore(ms []domain.InsightMetric) bool {
	for _, m := range ms {
		if m.Type.IsCoreFinancial() {
			return true
		}
	}
	return false
}

func containsType(ms []domain.InsightMetric, t domain.MetricType) bool {
	for _, m := range ms {
		if m.Type == t {
			return true
		}
	}
	return false
}
