package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/db"
	"github.com/alexanderramin/ganttkit/internal/repository"
)

type preferencesService struct {
	registry *controller.Registry
	prefs    repository.PreferencesRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPreferencesService(
	registry *controller.Registry,
	prefs repository.PreferencesRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PreferencesService {
	return &preferencesService{
		registry: registry,
		prefs:    prefs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *preferencesService) Show(ctx context.Context, page string) (*PreferencesView, error) {
	cfg, ok := s.registry.Lookup(page)
	if !ok {
		return nil, fmt.Errorf("%q: %w", page, ErrUnknownPage)
	}
	view := &PreferencesView{
		Page:       cfg.Name,
		StorageKey: cfg.StorageKey,
		Effective:  cfg.Defaults.Merge(nil),
	}

	stored, err := s.prefs.Get(ctx, cfg.StorageKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		view.Problem = err.Error()
	default:
		view.Stored = stored
		view.Effective = view.Effective.Merge(stored.Patch)
	}
	return view, nil
}

func (s *preferencesService) Reset(ctx context.Context, pages []string, clearDrops bool) (res *ResetResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"pages": len(pages), "clear_drops": clearDrops}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "reset-preferences",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	cfgs := make([]controller.PageConfig, 0, len(pages))
	for _, name := range pages {
		cfg, ok := s.registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownPage)
		}
		cfgs = append(cfgs, cfg)
	}

	res = &ResetResult{Pages: append([]string(nil), pages...)}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPrefs := repository.NewSQLitePreferencesRepo(tx)
		txDrops := repository.NewSQLiteDropLogRepo(tx)
		for _, cfg := range cfgs {
			switch err := txPrefs.Delete(ctx, cfg.StorageKey); {
			case err == nil:
				res.Cleared++
			case !errors.Is(err, repository.ErrNotFound):
				return err
			}
			if !clearDrops {
				continue
			}
			n, err := txDrops.DeleteByPage(ctx, cfg.Name)
			if err != nil {
				return err
			}
			res.DropsDeleted += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["cleared"] = res.Cleared
	fields["drops_deleted"] = res.DropsDeleted
	return res, nil
}
