package repotest

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/climate-service/internal/domain/repository"
)

var _ repository.StatsRepository = (*Stats)(nil)

// Stats implementa repository.StatsRepository calculando sobre el almacén.
type Stats struct{ s *Store }

// Stats repositorio de estadísticas sobre el almacén.
func (s *Store) Stats() *Stats { return &Stats{s} }

func (r *Stats) Count(context.Context) (repository.RequestCounts, error) {
	if err := r.s.begin(); err != nil {
		return repository.RequestCounts{}, err
	}
	defer r.s.mu.Unlock()
	var out repository.RequestCounts
	for _, req := range r.s.requests {
		out.Total++
		if req.Completed() {
			out.Completed++
		}
	}
	return out, nil
}

func (r *Stats) AverageRepairDays(context.Context) (decimal.Decimal, error) {
	if err := r.s.begin(); err != nil {
		return decimal.Zero, err
	}
	defer r.s.mu.Unlock()
	var sum, n int64
	for _, req := range r.s.requests {
		if days, ok := req.RepairDays(); ok {
			sum += int64(days)
			n++
		}
	}
	if n == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(n), 1), nil
}

func (r *Stats) ByTechType(context.Context) ([]repository.GroupCount, error) {
	return r.group(func(key string) string { return key }, func(i int64) string {
		return r.s.requests[i].TechType
	})
}

func (r *Stats) ByProblemType(context.Context) ([]repository.GroupCount, error) {
	return r.group(func(key string) string { return strings.ToLower(strings.TrimSpace(key)) }, func(i int64) string {
		return r.s.requests[i].ProblemDescription
	})
}

func (r *Stats) group(normalize func(string) string, field func(id int64) string) ([]repository.GroupCount, error) {
	if err := r.s.begin(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	counts := map[string]int64{}
	for id := range r.s.requests {
		counts[normalize(field(id))]++
	}
	out := make([]repository.GroupCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, repository.GroupCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}
