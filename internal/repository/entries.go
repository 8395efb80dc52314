package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/diabetes-diary/internal/errors"
	"github.com/vladimiradmaev/diabetes-diary/internal/kvstore"
	"github.com/vladimiradmaev/diabetes-diary/internal/logger"
	"github.com/vladimiradmaev/diabetes-diary/internal/utils"
)

var _ domain.EntryStore = (*EntryRepository)(nil)

// EntryRepository keeps the diary entries in memory and persists the whole
// collection under one key on every change.
type EntryRepository struct {
	loadTracker

	store kvstore.Store
	log   *slog.Logger
	now   func() time.Time
	newID func() (string, error)

	opMu sync.Mutex // serialises each read-modify-write

	mu      sync.RWMutex
	entries []domain.DiabetesEntry
	loaded  bool
	version uint64
}

// NewEntryRepository creates an entry repository over store
func NewEntryRepository(store kvstore.Store) *EntryRepository {
	r := &EntryRepository{
		store:   store,
		log:     logger.GetLogger().With("store", "entries"),
		now:     time.Now,
		newID:   newEntryID,
		entries: []domain.DiabetesEntry{},
	}
	r.loadTracker.init()
	return r
}

func newEntryID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// WithClock replaces the clock used to stamp new entries
func (r *EntryRepository) WithClock(now func() time.Time) *EntryRepository {
	r.now = now
	return r
}

// WithIDGenerator replaces the id generator used for new entries
func (r *EntryRepository) WithIDGenerator(newID func() (string, error)) *EntryRepository {
	r.newID = newID
	return r
}

// WithLogger replaces the logger
func (r *EntryRepository) WithLogger(l *slog.Logger) *EntryRepository {
	r.log = l.With("store", "entries")
	return r
}

// Load reads the stored entries. Missing or malformed data yields an empty list.
func (r *EntryRepository) Load(ctx context.Context) ([]domain.DiabetesEntry, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	entries, err := r.read(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.log.Debug("Discarding cancelled load")
		return nil, ctxErr
	}
	if err != nil {
		r.resolve()
		return r.Entries(), err
	}

	r.mu.Lock()
	r.entries = entries
	r.loaded = true
	r.version++
	r.mu.Unlock()
	r.resolve()

	return r.Entries(), nil
}

func (r *EntryRepository) read(ctx context.Context) ([]domain.DiabetesEntry, error) {
	raw, found, err := r.store.Get(ctx, EntriesKey)
	if err != nil {
		appErr := apperrors.NewStorageError(err, EntriesKey)
		r.log.Error("Failed to load entries", appErr.LogFields()...)
		return nil, appErr
	}

	decoded := decodeEntries(raw, found)
	switch decoded.Status {
	case StatusFallback:
		appErr := apperrors.NewDecodeError(decoded.Err, EntriesKey)
		r.log.Warn("Stored entries are malformed, starting from an empty list", appErr.LogFields()...)
	case StatusMigrated:
		r.log.Info("Read entries written without a schema version", "key", EntriesKey, "count", len(decoded.Value))
	}
	if decoded.Dropped > 0 {
		r.log.Warn("Dropped invalid stored entries", "key", EntriesKey, "dropped", decoded.Dropped)
	}
	if decoded.Status == StatusFallback || decoded.Dropped > 0 {
		r.backup(ctx, raw)
	}
	return decoded.Value, nil
}

// backup keeps the stored payload next to the key before a trimmed list replaces it
func (r *EntryRepository) backup(ctx context.Context, raw string) {
	if err := r.store.Set(ctx, EntriesKey+".corrupt", raw); err != nil {
		r.log.Warn("Failed to back up malformed entries", "error", err)
	}
}

// ensureLoaded loads once before the first write so a write never replaces
// data that was not read yet. Caller holds opMu.
func (r *EntryRepository) ensureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	entries, err := r.read(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = entries
	r.loaded = true
	r.version++
	r.mu.Unlock()
	r.resolve()
	return nil
}

// persist writes the full list and swaps it in only when the write succeeded
func (r *EntryRepository) persist(ctx context.Context, entries []domain.DiabetesEntry) error {
	payload, err := encode(entries)
	if err != nil {
		appErr := apperrors.NewInternalError(err).WithContext("key", EntriesKey)
		r.log.Error("Failed to encode entries", appErr.LogFields()...)
		return appErr
	}

	if err := r.store.Set(ctx, EntriesKey, payload); err != nil {
		appErr := apperrors.NewStorageError(err, EntriesKey)
		r.log.Error("Failed to save entries", appErr.LogFields()...)
		return appErr
	}

	r.mu.Lock()
	r.entries = entries
	r.version++
	r.mu.Unlock()
	return nil
}

func (r *EntryRepository) current() []domain.DiabetesEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DiabetesEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Add stamps a new entry with an id and the current time and puts it first
func (r *EntryRepository) Add(ctx context.Context, input domain.NewEntry) (domain.DiabetesEntry, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return domain.DiabetesEntry{}, err
	}

	id, err := r.newID()
	if err != nil {
		return domain.DiabetesEntry{}, apperrors.NewInternalError(err)
	}

	doses := make([]domain.InsulinDose, len(input.InsulinEntries))
	copy(doses, input.InsulinEntries)

	entry := domain.DiabetesEntry{
		ID:             id,
		Date:           utils.FormatTimestamp(r.now()),
		BloodSugar:     input.BloodSugar,
		InsulinEntries: doses,
		Notes:          input.Notes,
	}

	current := r.current()
	updated := make([]domain.DiabetesEntry, 0, len(current)+1)
	updated = append(updated, entry)
	updated = append(updated, current...)

	if err := r.persist(ctx, updated); err != nil {
		return domain.DiabetesEntry{}, err
	}

	r.log.Debug("Entry added", "id", entry.ID)
	return deepcopy.Copy(entry).(domain.DiabetesEntry), nil
}

// Update merges patch onto the entry with the given id. Unknown ids are a no-op.
func (r *EntryRepository) Update(ctx context.Context, id string, patch domain.EntryPatch) (bool, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return false, err
	}

	updated := r.current()
	idx := indexOf(updated, id)
	if idx < 0 {
		r.log.Debug("Update of unknown entry ignored", "id", id)
		return false, nil
	}
	updated[idx] = patch.Apply(updated[idx])

	if err := r.persist(ctx, updated); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the entry with the given id. Unknown ids are a no-op.
func (r *EntryRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return false, err
	}

	current := r.current()
	idx := indexOf(current, id)
	if idx < 0 {
		r.log.Debug("Delete of unknown entry ignored", "id", id)
		return false, nil
	}

	updated := make([]domain.DiabetesEntry, 0, len(current)-1)
	updated = append(updated, current[:idx]...)
	updated = append(updated, current[idx+1:]...)

	if err := r.persist(ctx, updated); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns a copy of the entry with the given id
func (r *EntryRepository) Get(id string) (domain.DiabetesEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := indexOf(r.entries, id)
	if idx < 0 {
		return domain.DiabetesEntry{}, false
	}
	return deepcopy.Copy(r.entries[idx]).(domain.DiabetesEntry), true
}

// Entries returns a deep copy of the collection in stored order
func (r *EntryRepository) Entries() []domain.DiabetesEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return deepcopy.Copy(r.entries).([]domain.DiabetesEntry)
}

// Version changes whenever the in-memory collection changes
func (r *EntryRepository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func indexOf(entries []domain.DiabetesEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
