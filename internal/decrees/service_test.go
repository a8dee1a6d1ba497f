package decrees

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID    map[string]Decree
	created []Decree
	updated []Decree
	deleted []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]Decree)}
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Decree, int, error) {
	all, _ := f.ListAll(ctx)
	return all, len(all), nil
}

func (f *fakeRepo) ListAll(context.Context) ([]Decree, error) {
	out := make([]Decree, 0, len(f.byID))
	for _, d := range f.byID {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*Decree, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (f *fakeRepo) Create(_ context.Context, d Decree) error {
	for _, existing := range f.byID {
		if existing.ActNumber == d.ActNumber {
			return ErrDuplicateAct
		}
	}
	f.byID[d.ID] = d
	f.created = append(f.created, d)
	return nil
}

func (f *fakeRepo) Update(_ context.Context, d Decree) error {
	if _, ok := f.byID[d.ID]; !ok {
		return ErrNotFound
	}
	f.byID[d.ID] = d
	f.updated = append(f.updated, d)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBumper struct {
	bumps int
}

func (f *fakeBumper) Bump(context.Context) error {
	f.bumps++
	return nil
}

func validCreateRequest() CreateDecreeRequest {
	return CreateDecreeRequest{
		ActNumber: "2024/55",
		RUT:       "12.345.678-5",
		Name:      "María González",
		Kind:      KindLegalHoliday,
		StartDate: "2024-02-05",
		EndDate:   "2024-02-09",
		Days:      5,
	}
}

func TestCreateAssignsIDAndBumpsCache(t *testing.T) {
	repo := newFakeRepo()
	bumper := &fakeBumper{}
	svc := NewService(repo, bumper)

	d, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "2024/55", d.ActNumber)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Equal(t, 1, bumper.bumps)
	require.Len(t, repo.created, 1)
}

func TestCreateDuplicateActDoesNotBump(t *testing.T) {
	repo := newFakeRepo()
	bumper := &fakeBumper{}
	svc := NewService(repo, bumper)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validCreateRequest())
	require.ErrorIs(t, err, ErrDuplicateAct)
	assert.Equal(t, 1, bumper.bumps)
}

func TestUpdateReplacesFields(t *testing.T) {
	repo := newFakeRepo()
	bumper := &fakeBumper{}
	svc := NewService(repo, bumper)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	req := validCreateRequest()
	req.Days = 4
	req.EndDate = "2024-02-08"
	updated, err := svc.Update(context.Background(), created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 4.0, updated.Days)
	assert.Equal(t, "2024-02-08", updated.EndDate)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 2, bumper.bumps)
}

func TestUpdateMissingDecree(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Update(context.Background(), "nope", validCreateRequest())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBumpsCache(t *testing.T) {
	repo := newFakeRepo()
	bumper := &fakeBumper{}
	svc := NewService(repo, bumper)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Equal(t, 2, bumper.bumps)
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrNotFound)
}

func TestServiceWorksWithoutBumper(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	d, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), d.ID))
}
