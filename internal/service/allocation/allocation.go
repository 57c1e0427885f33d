// Package allocation moves BOMs between the unallocated pool and named
// dyeing plans. Batches are best effort: a bad uid is reported, the rest of
// the batch still goes through. Only a blank plan number fails the whole
// request, before any write.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dyeing-bom/internal/storage"
)

var ErrNoUIDs = errors.New("no BOM uids given")

type BOMStore interface {
	AllocateBOM(ctx context.Context, uid, dplanNo string) error
	UnallocateBOM(ctx context.Context, uid string) error
	GetDyeingPlans(ctx context.Context) ([]storage.DyeingPlan, error)
	GetBOMIndex(ctx context.Context, filter storage.BOMFilter) ([]storage.BOMIndexItem, error)
}

type Service struct {
	storage BOMStore
}

func NewService(storage BOMStore) *Service {
	return &Service{storage: storage}
}

type Result struct {
	Allocated   int      `json:"allocated,omitempty"`
	Unallocated int      `json:"unallocated,omitempty"`
	DplanNo     string   `json:"dplan_no,omitempty"`
	Failed      []string `json:"failed,omitempty"`
	Message     string   `json:"message"`
}

func (s *Service) Allocate(ctx context.Context, uids []string, dplanNo string) (*Result, error) {
	const op = "service.allocation.Allocate"

	dplanNo = strings.TrimSpace(dplanNo)
	if dplanNo == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrBlankPlanNo)
	}
	if len(uids) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoUIDs)
	}

	result := &Result{DplanNo: dplanNo}
	for _, uid := range uids {
		if err := s.storage.AllocateBOM(ctx, uid, dplanNo); err != nil {
			result.Failed = append(result.Failed, uid)
			continue
		}
		result.Allocated++
	}

	result.Message = fmt.Sprintf("%d BOMs allocated to %s", result.Allocated, dplanNo)
	return result, nil
}

func (s *Service) Unallocate(ctx context.Context, uids []string) (*Result, error) {
	const op = "service.allocation.Unallocate"

	if len(uids) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoUIDs)
	}

	result := &Result{}
	for _, uid := range uids {
		if err := s.storage.UnallocateBOM(ctx, uid); err != nil {
			result.Failed = append(result.Failed, uid)
			continue
		}
		result.Unallocated++
	}

	result.Message = fmt.Sprintf("%d BOMs unallocated", result.Unallocated)
	return result, nil
}

func (s *Service) Plans(ctx context.Context) ([]storage.DyeingPlan, error) {
	const op = "service.allocation.Plans"

	plans, err := s.storage.GetDyeingPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return plans, nil
}

func (s *Service) PlanBOMs(ctx context.Context, dplanNo string) ([]storage.BOMIndexItem, error) {
	const op = "service.allocation.PlanBOMs"

	dplanNo = strings.TrimSpace(dplanNo)
	if dplanNo == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrBlankPlanNo)
	}

	items, err := s.storage.GetBOMIndex(ctx, storage.BOMFilter{DplanNo: dplanNo})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
