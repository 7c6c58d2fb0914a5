package transfer

import (
	"context"
	"sort"
	"sync"

	id "dataspace/pkg/domain"
)

// InMemoryStore keeps transfers in process memory. It favors clarity over
// performance and is the default when no database is configured.
type InMemoryStore struct {
	mu        sync.RWMutex
	transfers map[id.TransferID]Transfer
	order     []id.TransferID // creation order, for stable listings
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{transfers: make(map[id.TransferID]Transfer)}
}

func (s *InMemoryStore) Create(_ context.Context, t Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transfers[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.transfers[t.ID] = t
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, transferID id.TransferID) (Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.transfers[transferID]; ok {
		return t, nil
	}
	return Transfer{}, ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, t Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[t.ID]; !ok {
		return ErrNotFound
	}
	s.transfers[t.ID] = t
	return nil
}

func (s *InMemoryStore) List(_ context.Context, q ListQuery) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Transfer, 0, len(s.order))
	for _, tid := range s.order {
		all = append(all, s.transfers[tid])
	}

	sort.SliceStable(all, func(i, j int) bool {
		less := lessBy(q.SortField, all[i], all[j])
		if q.Desc {
			return lessBy(q.SortField, all[j], all[i])
		}
		return less
	})

	start := q.Page * q.Size
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Size
	if end > len(all) {
		end = len(all)
	}

	items := make([]Summary, 0, end-start)
	for _, t := range all[start:end] {
		items = append(items, Summary{
			ID:         t.ID,
			ConsumerID: t.ConsumerID,
			ProviderID: t.ProviderID,
			DataType:   t.DataType,
			State:      t.State,
			CreatedAt:  t.CreatedAt,
		})
	}
	return Page{Items: items, Page: q.Page, Size: q.Size, Total: int64(len(all))}, nil
}

func lessBy(field string, a, b Transfer) bool {
	switch field {
	case "updated_at":
		return a.UpdatedAt.Before(b.UpdatedAt)
	case "state":
		return a.State < b.State
	case "data_type":
		return a.DataType < b.DataType
	case "consumer_id":
		return a.ConsumerID < b.ConsumerID
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (s *InMemoryStore) CountByState(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64)
	for _, t := range s.transfers {
		out[string(t.State)]++
	}
	return out, nil
}

func (s *InMemoryStore) CountByDataType(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64)
	for _, t := range s.transfers {
		out[t.DataType]++
	}
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.transfers)), nil
}
