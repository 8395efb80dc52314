package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mohae/deepcopy"
	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
	"github.com/vladimiradmaev/diabetes-diary/internal/kvstore"
	"github.com/vladimiradmaev/diabetes-diary/internal/logger"
)

var _ domain.ProfileStore = (*ProfileRepository)(nil)

// ProfileRepository holds the single patient profile
type ProfileRepository struct {
	loadTracker

	store kvstore.Store
	log   *slog.Logger

	opMu sync.Mutex

	mu      sync.RWMutex
	profile *domain.PatientProfile
}

// NewProfileRepository creates a profile repository over store
func NewProfileRepository(store kvstore.Store) *ProfileRepository {
	r := &ProfileRepository{
		store: store,
		log:   logger.GetLogger().With("store", "profile"),
	}
	r.loadTracker.init()
	return r
}

// WithLogger replaces the logger
func (r *ProfileRepository) WithLogger(l *slog.Logger) *ProfileRepository {
	r.log = l.With("store", "profile")
	return r
}

// Load reads the stored profile. A missing or malformed profile yields nil
// without an error; only a failing storage backend is reported.
func (r *ProfileRepository) Load(ctx context.Context) (*domain.PatientProfile, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	raw, found, err := r.store.Get(ctx, ProfileKey)
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.log.Debug("Discarding cancelled load")
		return nil, ctxErr
	}
	if err != nil {
		appErr := apperrors.NewStorageError(err, ProfileKey)
		r.log.Error("Failed to load patient data", appErr.LogFields()...)
		r.resolve()
		return r.Profile(), appErr
	}

	decoded := decodeProfile(raw, found)
	switch decoded.Status {
	case StatusFallback:
		appErr := apperrors.NewDecodeError(decoded.Err, ProfileKey)
		r.log.Warn("Stored patient data is malformed, treating it as absent", appErr.LogFields()...)
	case StatusRepaired:
		r.log.Warn("Dropped insulins without a name", "key", ProfileKey, "dropped", decoded.Dropped)
	case StatusMigrated:
		r.log.Info("Read patient data written without a schema version", "key", ProfileKey)
	}

	r.mu.Lock()
	r.profile = decoded.Value
	r.mu.Unlock()
	r.resolve()

	return r.Profile(), nil
}

// Save replaces the stored profile. In-memory state only changes when the write succeeds.
func (r *ProfileRepository) Save(ctx context.Context, profile domain.PatientProfile) error {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	normalized := deepcopy.Copy(profile.Normalized()).(domain.PatientProfile)
	payload, err := encode(normalized)
	if err != nil {
		appErr := apperrors.NewInternalError(err).WithContext("key", ProfileKey)
		r.log.Error("Failed to encode patient data", appErr.LogFields()...)
		return appErr
	}

	if err := r.store.Set(ctx, ProfileKey, payload); err != nil {
		appErr := apperrors.NewStorageError(err, ProfileKey)
		r.log.Error("Failed to save patient data", appErr.LogFields()...)
		return appErr
	}

	r.mu.Lock()
	r.profile = &normalized
	r.mu.Unlock()
	return nil
}

// Profile returns a copy of the current profile, or nil when there is none
func (r *ProfileRepository) Profile() *domain.PatientProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.profile == nil {
		return nil
	}
	return deepcopy.Copy(r.profile).(*domain.PatientProfile)
}
