package metrics

import "github.com/alexanderramin/ledgerpulse/internal/domain"

// Set holds at most one metric per type, keyed by the closed MetricType
// enumeration. Iteration is always in MetricType declaration order.
type Set struct {
	items   [domain.NumMetricTypes]domain.InsightMetric
	present [domain.NumMetricTypes]bool
}

// NewSet builds a Set from ms. Later duplicates replace earlier ones.
func NewSet(ms ...domain.InsightMetric) Set {
	var s Set
	for _, m := range ms {
		s.Put(m)
	}
	return s
}

// Put stores m, replacing any metric of the same type. Invalid types are ignored.
func (s *Set) Put(m domain.InsightMetric) {
	if !m.Type.Valid() {
		return
	}
	s.items[m.Type] = m
	s.present[m.Type] = true
}

func (s *Set) Get(t domain.MetricType) (domain.InsightMetric, bool) {
	if !t.Valid() || !s.present[t] {
		return domain.InsightMetric{}, false
	}
	return s.items[t], true
}

func (s *Set) Has(t domain.MetricType) bool {
	return t.Valid() && s.present[t]
}

func (s *Set) Len() int {
	n := 0
	for _, ok := range s.present {
		if ok {
			n++
		}
	}
	return n
}

// All returns the stored metrics in declaration order.
func (s *Set) All() []domain.InsightMetric {
	out := make([]domain.InsightMetric, 0, s.Len())
	for i, ok := range s.present {
		if ok {
			out = append(out, s.items[i])
		}
	}
	return out
}
