package allocation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dyeing-bom/internal/storage"
)

// fakeStore keeps BOM index rows in memory with the same allocation
// semantics as the MySQL storage.
type fakeStore struct {
	boms map[string]*storage.BOMIndexItem
}

func newFakeStore(items ...storage.BOMIndexItem) *fakeStore {
	s := &fakeStore{boms: map[string]*storage.BOMIndexItem{}}
	for i := range items {
		item := items[i]
		if item.Status == "" {
			item.Status = storage.StatusUnallocated
		}
		s.boms[item.UID] = &item
	}
	return s
}

func (s *fakeStore) AllocateBOM(ctx context.Context, uid, dplanNo string) error {
	bom, ok := s.boms[uid]
	if !ok {
		return fmt.Errorf("uid=%s: %w", uid, storage.ErrBOMNotFound)
	}
	bom.Status = storage.StatusAllocated
	bom.DplanNo = dplanNo
	return nil
}

func (s *fakeStore) UnallocateBOM(ctx context.Context, uid string) error {
	bom, ok := s.boms[uid]
	if !ok {
		return fmt.Errorf("uid=%s: %w", uid, storage.ErrBOMNotFound)
	}
	bom.Status = storage.StatusUnallocated
	bom.DplanNo = ""
	return nil
}

func (s *fakeStore) GetDyeingPlans(ctx context.Context) ([]storage.DyeingPlan, error) {
	byPlan := map[string]*storage.DyeingPlan{}
	for _, bom := range s.boms {
		if bom.Status != storage.StatusAllocated || bom.DplanNo == "" {
			continue
		}
		plan, ok := byPlan[bom.DplanNo]
		if !ok {
			plan = &storage.DyeingPlan{DplanNo: bom.DplanNo, CreatedBy: bom.CreatedBy}
			byPlan[bom.DplanNo] = plan
		}
		plan.BomCount++
		plan.TotalQty += bom.PlanQty
	}

	plans := []storage.DyeingPlan{}
	for _, plan := range byPlan {
		plans = append(plans, *plan)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].DplanNo < plans[j].DplanNo })
	return plans, nil
}

func (s *fakeStore) GetBOMIndex(ctx context.Context, filter storage.BOMFilter) ([]storage.BOMIndexItem, error) {
	items := []storage.BOMIndexItem{}
	for _, bom := range s.boms {
		if filter.Status != "" && bom.Status != filter.Status {
			continue
		}
		if filter.DplanNo != "" && bom.DplanNo != filter.DplanNo {
			continue
		}
		items = append(items, *bom)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UID < items[j].UID })
	return items, nil
}

func TestAllocate_BlankPlanRejectsWholeBatch(t *testing.T) {
	store := newFakeStore(storage.BOMIndexItem{UID: "BOM-0001", PlanQty: 5000})
	service := NewService(store)

	_, err := service.Allocate(context.Background(), []string{"BOM-0001"}, "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrBlankPlanNo))

	// nothing was written
	assert.Equal(t, storage.StatusUnallocated, store.boms["BOM-0001"].Status)
}

func TestAllocate_EmptyUIDs(t *testing.T) {
	service := NewService(newFakeStore())

	_, err := service.Allocate(context.Background(), nil, "2609 DP")
	assert.True(t, errors.Is(err, ErrNoUIDs))
}

func TestAllocate_BestEffortPerID(t *testing.T) {
	store := newFakeStore(
		storage.BOMIndexItem{UID: "BOM-0001", PlanQty: 5000},
		storage.BOMIndexItem{UID: "BOM-0002", PlanQty: 3000},
	)
	service := NewService(store)

	result, err := service.Allocate(context.Background(), []string{"BOM-0001", "BOM-MISSING", "BOM-0002"}, "2609 DP")
	require.NoError(t, err)

	// the unknown uid is reported, the rest still went through
	assert.Equal(t, 2, result.Allocated)
	assert.Equal(t, []string{"BOM-MISSING"}, result.Failed)
	assert.Equal(t, storage.StatusAllocated, store.boms["BOM-0001"].Status)
	assert.Equal(t, "2609 DP", store.boms["BOM-0002"].DplanNo)
}

func TestAllocate_LastWriteWins(t *testing.T) {
	store := newFakeStore(storage.BOMIndexItem{UID: "BOM-0001", PlanQty: 5000})
	service := NewService(store)

	_, err := service.Allocate(context.Background(), []string{"BOM-0001"}, "2609 DP")
	require.NoError(t, err)

	// re-allocating to another plan overwrites the link
	result, err := service.Allocate(context.Background(), []string{"BOM-0001"}, "2610 DP")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Allocated)
	assert.Equal(t, "2610 DP", store.boms["BOM-0001"].DplanNo)
}

func TestUnallocate_RoundTripAndIdempotency(t *testing.T) {
	store := newFakeStore(storage.BOMIndexItem{UID: "BOM-0001", PlanQty: 5000})
	service := NewService(store)

	_, err := service.Allocate(context.Background(), []string{"BOM-0001"}, "2609 DP")
	require.NoError(t, err)

	result, err := service.Unallocate(context.Background(), []string{"BOM-0001"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unallocated)
	assert.Equal(t, storage.StatusUnallocated, store.boms["BOM-0001"].Status)
	assert.Equal(t, "", store.boms["BOM-0001"].DplanNo)

	members, err := service.PlanBOMs(context.Background(), "2609 DP")
	require.NoError(t, err)
	assert.Empty(t, members)

	// unallocating again is a no-op, not an error
	result, err = service.Unallocate(context.Background(), []string{"BOM-0001"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unallocated)
	assert.Empty(t, result.Failed)
}

func TestPlans_AggregatesOnRead(t *testing.T) {
	store := newFakeStore(
		storage.BOMIndexItem{UID: "BOM-0001", PlanQty: 5000},
		storage.BOMIndexItem{UID: "BOM-0002", PlanQty: 3000},
		storage.BOMIndexItem{UID: "BOM-0003", PlanQty: 4000},
	)
	service := NewService(store)

	_, err := service.Allocate(context.Background(), []string{"BOM-0001", "BOM-0002"}, "2609 DP")
	require.NoError(t, err)
	_, err = service.Allocate(context.Background(), []string{"BOM-0003"}, "2610 DP")
	require.NoError(t, err)

	plans, err := service.Plans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, "2609 DP", plans[0].DplanNo)
	assert.Equal(t, 2, plans[0].BomCount)
	assert.Equal(t, storage.Float(8000), plans[0].TotalQty)
	assert.Equal(t, "2610 DP", plans[1].DplanNo)
	assert.Equal(t, 1, plans[1].BomCount)
}

func TestPlanBOMs_BlankPlan(t *testing.T) {
	service := NewService(newFakeStore())

	_, err := service.PlanBOMs(context.Background(), "")
	assert.True(t, errors.Is(err, storage.ErrBlankPlanNo))
}
