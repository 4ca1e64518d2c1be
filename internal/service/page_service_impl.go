package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/fixture"
	"github.com/alexanderramin/ganttkit/internal/repository"
	"github.com/google/uuid"
)

type pageSession struct {
	mu       sync.Mutex
	id       string
	ctrl     *controller.Controller
	openedAt time.Time
}

type pageService struct {
	registry *controller.Registry
	source   fixture.Source
	prefs    repository.PreferencesRepo
	drops    repository.DropLogRepo
	logger   *slog.Logger
	observer UseCaseObserver
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*pageSession
}

// NewPageService builds the session service. prefs and drops may be nil, in
// which case nothing is persisted.
func NewPageService(
	registry *controller.Registry,
	source fixture.Source,
	prefs repository.PreferencesRepo,
	drops repository.DropLogRepo,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) PageService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &pageService{
		registry: registry,
		source:   source,
		prefs:    prefs,
		drops:    drops,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
		sessions: make(map[string]*pageSession),
	}
}

// sessionStore stamps saved preferences with the session that wrote them.
type sessionStore struct {
	repo      repository.PreferencesRepo
	sessionID string
}

func (s sessionStore) Load(ctx context.Context, key string) (*domain.PreferencesPatch, error) {
	return s.repo.Load(ctx, key)
}

func (s sessionStore) Save(ctx context.Context, key string, patch *domain.PreferencesPatch) error {
	return s.repo.Put(ctx, repository.StoredPreferences{PageKey: key, Patch: patch, SessionID: s.sessionID})
}

func (s *pageService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *pageService) Pages(_ context.Context) []contract.PageInfo {
	pages := s.registry.Pages()
	out := make([]contract.PageInfo, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageInfo(p))
	}
	return out
}

func pageInfo(p controller.PageConfig) contract.PageInfo {
	return contract.PageInfo{Name: p.Name, Title: p.Title, StorageKey: p.StorageKey, Dataset: string(p.Dataset)}
}

func (s *pageService) Open(ctx context.Context, page string) (resp *contract.SessionResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"page": page}
	defer func() { s.observe(ctx, "open-page", startedAt, fields, err) }()

	cfg, ok := s.registry.Lookup(page)
	if !ok {
		return nil, fmt.Errorf("%q: %w", page, ErrUnknownPage)
	}

	id := uuid.NewString()
	fields["session"] = id
	var store controller.PreferenceStore
	if s.prefs != nil {
		store = sessionStore{repo: s.prefs, sessionID: id}
	}
	ctrl, err := controller.New(ctx, cfg, s.source, store, s.logger.With("session", id))
	if err != nil {
		return nil, err
	}
	if err := ctrl.Load(ctx); err != nil {
		return nil, err
	}
	fields["rows"] = len(ctrl.Rows())

	sess := &pageSession{id: id, ctrl: ctrl, openedAt: s.now()}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return &contract.SessionResponse{ID: id, Page: cfg.Name, Props: ctrl.Props()}, nil
}

func (s *pageService) lookup(id string) (*pageSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownSession)
	}
	return sess, nil
}

// with runs fn on the session's controller while holding the session lock.
func (s *pageService) with(id string, fn func(c *controller.Controller) error) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.ctrl)
}

// props runs fn and returns the resulting chart props.
func (s *pageService) props(id string, fn func(c *controller.Controller) error) (*contract.ChartProps, error) {
	var p contract.ChartProps
	err := s.with(id, func(c *controller.Controller) error {
		if err := fn(c); err != nil {
			return err
		}
		p = c.Props()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pageService) Get(_ context.Context, id string) (*contract.SessionResponse, error) {
	var resp *contract.SessionResponse
	err := s.with(id, func(c *controller.Controller) error {
		resp = &contract.SessionResponse{ID: id, Page: c.Config().Name, Props: c.Props()}
		return nil
	})
	return resp, err
}

func (s *pageService) Close(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session": id}
	defer func() { s.observe(ctx, "close-page", startedAt, fields, err) }()

	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknownSession)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fields["page"] = sess.ctrl.Config().Name
	fields["open_for"] = s.now().Sub(sess.openedAt).Round(time.Second).String()
	return sess.ctrl.Unload(ctx)
}

func (s *pageService) Discard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknownSession)
	}
	delete(s.sessions, id)
	return nil
}

// CloseAll unloads every session, oldest first, joining the save errors.
func (s *pageService) CloseAll(ctx context.Context) error {
	s.mu.Lock()
	open := make([]*pageSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	sort.Slice(open, func(i, j int) bool { return open[i].openedAt.Before(open[j].openedAt) })

	var errs []error
	for _, sess := range open {
		if err := s.Close(ctx, sess.id); err != nil && !errors.Is(err, ErrUnknownSession) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *pageService) Toggle(_ context.Context, id string, t controller.Toggle) (*contract.ChartProps, error) {
	return s.props(id, func(c *controller.Controller) error { return c.Toggle(t) })
}

func (s *pageService) SelectTimeScale(_ context.Context, id string, req contract.TimeScaleRequest) (*contract.ChartProps, error) {
	return s.props(id, func(c *controller.Controller) error {
		c.SelectTimeScale(req.Name)
		return nil
	})
}

func (s *pageService) SetScale(_ context.Context, id string, req contract.ScaleRequest) (*contract.ChartProps, error) {
	return s.props(id, func(c *controller.Controller) error {
		c.SetScalePosition(req.Position)
		return nil
	})
}

func (s *pageService) SelectDetailLevel(_ context.Context, id string, req contract.DetailLevelRequest) (*contract.ChartProps, error) {
	return s.props(id, func(c *controller.Controller) error {
		c.SelectDetailLevel(req.ID)
		return nil
	})
}

func (s *pageService) SelectColorBy(_ context.Context, id string, req contract.ColorByRequest) (*contract.ChartProps, error) {
	return s.props(id, func(c *controller.Controller) error {
		c.SelectColorBy(req.Value)
		return nil
	})
}

func (s *pageService) UpdateWidths(_ context.Context, id string, w domain.WidthInfo) error {
	return s.with(id, func(c *controller.Controller) error {
		c.UpdateWidths(w)
		return nil
	})
}

func (s *pageService) UpdateRowStatus(_ context.Context, id string, status domain.RowStatus) error {
	return s.with(id, func(c *controller.Controller) error {
		c.UpdateRowStatus(status)
		return nil
	})
}

func (s *pageService) UpdateScrollLeft(_ context.Context, id string, req contract.ScrollLeftRequest) error {
	return s.with(id, func(c *controller.Controller) error {
		c.UpdateScrollLeft(req.ScrollLeft)
		return nil
	})
}

// Drop applies a finished drag and appends it to the drop log. A failed log
// write is logged; the drop itself stays applied.
func (s *pageService) Drop(ctx context.Context, id string, req contract.DropRequest) (resp *contract.DropResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session": id, "bar": req.Bar.ID}
	defer func() { s.observe(ctx, "drop-bar", startedAt, fields, err) }()

	var event *contract.DropEvent
	err = s.with(id, func(c *controller.Controller) error {
		res, ok := c.HandleBarDrop(ctx, req)
		props := c.Props()
		resp = &contract.DropResponse{Applied: ok, Props: &props}
		if !ok {
			return nil
		}
		resp.OffsetMin = int64(res.Offset / time.Minute)
		resp.Moved = res.Moved
		resp.RowChanged = res.RowChanged
		event = &contract.DropEvent{
			Page:         c.Config().Name,
			SessionID:    id,
			BarID:        req.Bar.ID,
			EntityType:   res.EntityType,
			EntityID:     res.EntityID,
			InitialRowID: req.InitialRow.ID,
			FinalRowID:   req.FinalRow.ID,
			OffsetMin:    resp.OffsetMin,
			RecordedAt:   s.now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["applied"] = resp.Applied

	if event != nil && s.drops != nil {
		if recErr := s.drops.Record(ctx, event); recErr != nil {
			s.logger.ErrorContext(ctx, "recording drop failed", "session", id, "error", recErr)
		}
	}
	return resp, nil
}

func (s *pageService) Click(_ context.Context, id string, req contract.ClickRequest) (*contract.ChartProps, error) {
	return s.props(id, func(c *controller.Controller) error {
		switch req.Kind {
		case contract.SelectBar:
			c.HandleBarClick(req.RowID, req.BarID)
		case contract.SelectBarContext:
			c.HandleBarRightClick(req.RowID, req.BarID)
		case contract.SelectRow:
			c.HandleRowClick(req.RowID)
		default:
			return fmt.Errorf("%q: %w", req.Kind, ErrInvalidClick)
		}
		return nil
	})
}

func (s *pageService) ReloadFixture(ctx context.Context, fixtureName string) (n int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"fixture": fixtureName}
	defer func() {
		fields["sessions"] = n
		s.observe(ctx, "reload-fixture", startedAt, fields, err)
	}()

	s.mu.Lock()
	var affected []*pageSession
	for _, sess := range s.sessions {
		if sess.ctrl.Config().FixtureName == fixtureName {
			affected = append(affected, sess)
		}
	}
	s.mu.Unlock()

	var errs []error
	for _, sess := range affected {
		sess.mu.Lock()
		rerr := sess.ctrl.Reload(ctx)
		sess.mu.Unlock()
		if rerr != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", sess.id, rerr))
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
