// Package settlement — testing.go: хранилище в памяти для тестов.
package settlement

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore — потокобезопасная реализация Store в памяти.
type MemoryStore struct {
	mu          sync.Mutex
	draws       map[int]*OfficialDraw
	predictions map[string]*Prediction
	order       []string // id в порядке создания
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		draws:       make(map[int]*OfficialDraw),
		predictions: make(map[string]*Prediction),
	}
}

func (s *MemoryStore) SaveDraw(_ context.Context, draw *OfficialDraw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *draw
	cp.Numbers = append([]int(nil), draw.Numbers...)
	s.draws[draw.Round] = &cp
	return nil
}

func (s *MemoryStore) GetDraw(_ context.Context, round int) (*OfficialDraw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw, ok := s.draws[round]
	if !ok {
		return nil, nil
	}
	cp := *draw
	cp.Numbers = append([]int(nil), draw.Numbers...)
	return &cp, nil
}

func (s *MemoryStore) RecentDraws(_ context.Context, limit int) ([]*OfficialDraw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rounds := make([]int, 0, len(s.draws))
	for r := range s.draws {
		rounds = append(rounds, r)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rounds)))

	out := make([]*OfficialDraw, 0, limit)
	for _, r := range rounds {
		if len(out) == limit {
			break
		}
		cp := *s.draws[r]
		cp.Numbers = append([]int(nil), s.draws[r].Numbers...)
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) CreatePrediction(_ context.Context, p *Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := clonePrediction(p)
	s.predictions[p.ID] = cp
	s.order = append(s.order, p.ID)
	return nil
}

func (s *MemoryStore) GetPrediction(_ context.Context, id string) (*Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.predictions[id]
	if !ok {
		return nil, nil
	}
	return clonePrediction(p), nil
}

func (s *MemoryStore) PendingForRound(_ context.Context, round int) ([]*Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Prediction
	for _, id := range s.order {
		p := s.predictions[id]
		if p.Round == round && p.Status == StatusPending {
			out = append(out, clonePrediction(p))
		}
	}
	return out, nil
}

func (s *MemoryStore) ApplySettlement(_ context.Context, id string, matched, prizeRank int, prizeAmount int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.predictions[id]
	if !ok || p.Status != StatusPending {
		return nil
	}
	p.MatchedCount = matched
	p.PrizeRank = prizeRank
	p.PrizeAmount = prizeAmount
	p.Status = StatusSettled
	ts := at
	p.SettledAt = &ts
	return nil
}

func (s *MemoryStore) MarkVoided(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.predictions[id]; ok {
		p.Status = StatusVoided
	}
	return nil
}

func (s *MemoryStore) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]*Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*Prediction
	for i := len(s.order) - 1; i >= 0; i-- {
		p := s.predictions[s.order[i]]
		if p.AccountID == accountID && p.Status != StatusVoided {
			all = append(all, p)
		}
	}
	var out []*Prediction
	for i := offset; i < len(all) && len(out) < limit; i++ {
		out = append(out, clonePrediction(all[i]))
	}
	return out, nil
}

func clonePrediction(p *Prediction) *Prediction {
	cp := *p
	cp.Numbers = append([]int(nil), p.Numbers...)
	if p.SettledAt != nil {
		ts := *p.SettledAt
		cp.SettledAt = &ts
	}
	return &cp
}
