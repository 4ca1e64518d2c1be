package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/repository"
)

type dropLogService struct {
	registry *controller.Registry
	drops    repository.DropLogRepo
}

func NewDropLogService(registry *controller.Registry, drops repository.DropLogRepo) DropLogService {
	return &dropLogService{registry: registry, drops: drops}
}

func (s *dropLogService) List(ctx context.Context, page string, limit int) ([]*contract.DropEvent, error) {
	if page != "" {
		if _, ok := s.registry.Lookup(page); !ok {
			return nil, fmt.Errorf("%q: %w", page, ErrUnknownPage)
		}
	}
	return s.drops.List(ctx, page, limit)
}
