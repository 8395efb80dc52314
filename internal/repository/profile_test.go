package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/diabetes-diary/internal/domain"
	"github.com/vladimiradmaev/diabetes-diary/internal/kvstore"
)

func sampleProfile() domain.PatientProfile {
	return domain.PatientProfile{
		Name:         "Ana Lima",
		Age:          "34",
		Gender:       "female",
		DiabetesType: "1",
		StartYear:    "2015",
		TargetMin:    "80",
		TargetMax:    "160",
		Insulins: []domain.InsulinPlan{
			{Name: "Novorapid", Timings: []string{"Breakfast", "Lunch", "Dinner"}},
			{Name: "", Timings: []string{"Bedtime"}},
		},
	}
}

func TestProfileAbsent(t *testing.T) {
	r := NewProfileRepository(kvstore.NewMemoryStore())
	assert.True(t, r.IsLoading())

	p, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, r.Profile())
	assert.False(t, r.IsLoading())
}

func TestProfileSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	r := NewProfileRepository(store)
	_, err := r.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, r.Save(ctx, sampleProfile()))

	current := r.Profile()
	require.NotNil(t, current)
	require.Len(t, current.Insulins, 1, "insulins without a name are dropped")
	assert.Equal(t, "Novorapid", current.Insulins[0].Name)

	reloaded := NewProfileRepository(store)
	got, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, current, got)
}

func TestProfileSaveFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	r := NewProfileRepository(store)
	require.NoError(t, r.Save(ctx, sampleProfile()))

	store.FailSets(errors.New("read-only"))
	changed := sampleProfile()
	changed.Name = "Someone Else"
	require.Error(t, r.Save(ctx, changed))

	assert.Equal(t, "Ana Lima", r.Profile().Name)
}

func TestProfileCopyIsolated(t *testing.T) {
	ctx := context.Background()
	r := NewProfileRepository(kvstore.NewMemoryStore())
	require.NoError(t, r.Save(ctx, sampleProfile()))

	p := r.Profile()
	p.Name = "changed"
	p.Insulins[0].Timings[0] = "changed"

	fresh := r.Profile()
	assert.Equal(t, "Ana Lima", fresh.Name)
	assert.Equal(t, "Breakfast", fresh.Insulins[0].Timings[0])
}

func TestProfileSaveDoesNotAliasCaller(t *testing.T) {
	ctx := context.Background()
	r := NewProfileRepository(kvstore.NewMemoryStore())
	profile := sampleProfile()
	require.NoError(t, r.Save(ctx, profile))

	profile.Insulins[0].Timings[0] = "changed"

	assert.Equal(t, "Breakfast", r.Profile().Insulins[0].Timings[0])
}

func TestProfileMalformedIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, ProfileKey, `{"schemaVersion":1,"data":"nope"}`))

	r := NewProfileRepository(store)
	p, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, r.IsLoading())
}

func TestProfileLegacyPayload(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, ProfileKey,
		`{"name":"Ana","age":"34","gender":"","diabetesType":"2","startYear":"2020","targetMin":"70","targetMax":"180","notes":"","insulins":[{"name":"Lantus","timings":["Bedtime"]}]}`))

	r := NewProfileRepository(store)
	p, err := r.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "2", p.DiabetesType)
	assert.Equal(t, []domain.InsulinPlan{{Name: "Lantus", Timings: []string{"Bedtime"}}}, p.Insulins)
}

func TestProfileLoadFailureResolves(t *testing.T) {
	store := kvstore.NewMemoryStore()
	store.FailGets(errors.New("io error"))

	r := NewProfileRepository(store)
	_, err := r.Load(context.Background())
	require.Error(t, err)
	assert.False(t, r.IsLoading())
	assert.Nil(t, r.Profile())
}
