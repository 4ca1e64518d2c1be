package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/domain"
)

// StoredPreferences is one saved preference blob with its bookkeeping.
type StoredPreferences struct {
	PageKey   string
	Patch     *domain.PreferencesPatch
	SessionID string
	SavedAt   time.Time
}

type PreferencesRepo interface {
	// Load returns the stored patch for key, or nil when none is stored.
	Load(ctx context.Context, key string) (*domain.PreferencesPatch, error)
	Save(ctx context.Context, key string, patch *domain.PreferencesPatch) error
	Put(ctx context.Context, p StoredPreferences) error
	Get(ctx context.Context, key string) (*StoredPreferences, error)
	List(ctx context.Context) ([]*StoredPreferences, error)
	Delete(ctx context.Context, key string) error
}

type DropLogRepo interface {
	Record(ctx context.Context, e *contract.DropEvent) error
	// List returns the newest events first. An empty page lists every page;
	// limit <= 0 means no limit.
	List(ctx context.Context, page string, limit int) ([]*contract.DropEvent, error)
	DeleteByPage(ctx context.Context, page string) (int64, error)
}
