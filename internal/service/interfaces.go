package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/repository"
)

var (
	ErrUnknownPage    = errors.New("unknown page")
	ErrUnknownSession = errors.New("unknown session")
	ErrInvalidClick   = errors.New("invalid click kind")
)

// PageService owns the open page sessions. Each session wraps one
// controller; calls on a session are serialised.
type PageService interface {
	Pages(ctx context.Context) []contract.PageInfo
	Open(ctx context.Context, page string) (*contract.SessionResponse, error)
	Get(ctx context.Context, id string) (*contract.SessionResponse, error)
	// Close is the page-unload signal: it saves preferences and forgets the
	// session. The session is gone even when saving fails.
	Close(ctx context.Context, id string) error
	CloseAll(ctx context.Context) error
	// Discard forgets a session without saving its preferences.
	Discard(ctx context.Context, id string) error

	Toggle(ctx context.Context, id string, t controller.Toggle) (*contract.ChartProps, error)
	SelectTimeScale(ctx context.Context, id string, req contract.TimeScaleRequest) (*contract.ChartProps, error)
	SetScale(ctx context.Context, id string, req contract.ScaleRequest) (*contract.ChartProps, error)
	SelectDetailLevel(ctx context.Context, id string, req contract.DetailLevelRequest) (*contract.ChartProps, error)
	SelectColorBy(ctx context.Context, id string, req contract.ColorByRequest) (*contract.ChartProps, error)

	UpdateWidths(ctx context.Context, id string, w domain.WidthInfo) error
	UpdateRowStatus(ctx context.Context, id string, s domain.RowStatus) error
	UpdateScrollLeft(ctx context.Context, id string, req contract.ScrollLeftRequest) error

	Drop(ctx context.Context, id string, req contract.DropRequest) (*contract.DropResponse, error)
	Click(ctx context.Context, id string, req contract.ClickRequest) (*contract.ChartProps, error)

	// ReloadFixture re-reads the fixture in every session whose page uses it
	// and reports how many sessions reloaded.
	ReloadFixture(ctx context.Context, fixtureName string) (int, error)
}

// PreferencesView is a page's effective preferences next to what is stored.
type PreferencesView struct {
	Page       string
	StorageKey string
	Effective  domain.Preferences
	// Stored is nil when nothing is saved or the blob is unreadable.
	Stored *repository.StoredPreferences
	// Problem explains why a stored blob was ignored.
	Problem string
}

type ResetResult struct {
	Pages        []string
	Cleared      int
	DropsDeleted int64
}

type PreferencesService interface {
	Show(ctx context.Context, page string) (*PreferencesView, error)
	// Reset deletes the stored preferences of pages, and their drop log when
	// clearDrops is set, in one transaction.
	Reset(ctx context.Context, pages []string, clearDrops bool) (*ResetResult, error)
}

type DropLogService interface {
	// List returns recorded drops newest first. An empty page lists all.
	List(ctx context.Context, page string, limit int) ([]*contract.DropEvent, error)
}
