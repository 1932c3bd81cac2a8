package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"climbtrack/internal/domain/session"
	"climbtrack/internal/kv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore builds a store on the given substrate with a controllable
// clock. Mutating *now advances time for TTL and streak behavior.
func newTestStore(kvs kv.Store, opts Options) (*Store, *time.Time) {
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	opts.Now = func() time.Time { return now }
	return New(kvs, opts, testLogger()), &now
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func testSession(id string, date time.Time) *session.Session {
	return &session.Session{
		ID:        id,
		UserID:    "u1",
		GymID:     "g1",
		GymName:   "Boulder Barn",
		Date:      date,
		Duration:  90,
		Condition: 4,
		Rating:    4,
		GradeCounts: map[string]int{
			"V3": 2,
		},
	}
}

func TestSaveSession_RoundTrip(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	sess := testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	require.NoError(t, st.SaveSession(ctx, sess))

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, "Boulder Barn", got[0].GymName)
	assert.Equal(t, 90, got[0].Duration)
	assert.Equal(t, map[string]int{"V3": 2}, got[0].GradeCounts)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.False(t, got[0].UpdatedAt.Before(got[0].CreatedAt))
}

func TestSaveSession_GeneratesID(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	sess := testSession("", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	require.NoError(t, st.SaveSession(ctx, sess))
	assert.NotEmpty(t, sess.ID)
}

func TestSaveSession_Invalid(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	sess := testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	sess.Duration = 0
	assert.ErrorIs(t, st.SaveSession(ctx, sess), session.ErrInvalidData)

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveSession_IdempotentUpsert(t *testing.T) {
	st, now := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	sess := testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	require.NoError(t, st.SaveSession(ctx, sess))
	originalCreated := sess.CreatedAt

	*now = now.Add(time.Hour)
	replacement := testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	replacement.Duration = 120
	require.NoError(t, st.SaveSession(ctx, replacement))

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1, "upsert must replace in place")
	assert.Equal(t, 120, got[0].Duration)
	assert.Equal(t, originalCreated, got[0].CreatedAt, "createdAt is immutable")
	assert.True(t, got[0].UpdatedAt.After(originalCreated))
}

func TestSaveSession_CapEnforcement(t *testing.T) {
	st, now := newTestStore(kv.NewMemory(), Options{MaxSessions: 3})
	ctx := context.Background()

	for i, id := range []string{"s1", "s2", "s3", "s4"} {
		*now = time.Date(2024, 1, 1+i, 12, 0, 0, 0, time.UTC)
		sess := testSession(id, *now)
		require.NoError(t, st.SaveSession(ctx, sess))
	}

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, s := range got {
		assert.NotEqual(t, "s1", s.ID, "the single oldest record is evicted")
	}
}

func TestUpdateSession_Merge(t *testing.T) {
	st, now := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	sess := testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	require.NoError(t, st.SaveSession(ctx, sess))

	*now = now.Add(time.Hour)
	duration := 150
	notes := "long endurance day"
	updated, err := st.UpdateSession(ctx, "s1", session.Update{Duration: &duration, Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, 150, updated.Duration)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, "Boulder Barn", updated.GymName, "unset fields stay")
	assert.Equal(t, sess.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestUpdateSession_NotFound(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	sess := testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	require.NoError(t, st.SaveSession(ctx, sess))

	duration := 60
	_, err := st.UpdateSession(ctx, "nonexistent", session.Update{Duration: &duration})
	assert.ErrorIs(t, err, session.ErrNotFound)

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 90, got[0].Duration, "failed update leaves the collection unchanged")
}

func TestDeleteSession(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveSession(ctx, testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))))
	require.NoError(t, st.SaveSession(ctx, testSession("s2", time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))))

	require.NoError(t, st.DeleteSession(ctx, "s1"))

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)
}

func TestDeleteSession_MissingIsNoop(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveSession(ctx, testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))))
	require.NoError(t, st.DeleteSession(ctx, "nonexistent"))

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSessionsByMonthAndDate(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveSession(ctx, testSession("jan1", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC))))
	require.NoError(t, st.SaveSession(ctx, testSession("jan2", time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC))))
	require.NoError(t, st.SaveSession(ctx, testSession("feb", time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC))))

	jan, err := st.SessionsByMonth(ctx, 2024, time.January)
	require.NoError(t, err)
	assert.Len(t, jan, 2)

	day, err := st.SessionsByDate(ctx, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "jan2", day[0].ID)
}

func TestClearAll(t *testing.T) {
	mem := kv.NewMemory()
	st, _ := newTestStore(mem, Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveSession(ctx, testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))))
	require.NoError(t, st.ClearAll(ctx))

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	p, err := st.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	keys, err := mem.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMigration_WritesMarker(t *testing.T) {
	mem := kv.NewMemory()
	st, _ := newTestStore(mem, Options{})
	ctx := context.Background()

	assert.False(t, st.MigrationDegraded())

	marker, err := mem.Get(ctx, keySchemaVersion)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, marker)
}

func TestMigration_PreservesData(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()

	// Data written under the legacy schema, no version marker.
	legacy := testSession("legacy", time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC))
	legacy.CreatedAt = legacy.Date
	legacy.UpdatedAt = legacy.Date
	require.NoError(t, mem.Set(ctx, keySessions, `[`+mustJSON(t, legacy)+`]`))

	st, _ := newTestStore(mem, Options{})
	assert.False(t, st.MigrationDegraded())

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "legacy", got[0].ID)
}

// MockKV is a testify mock of the substrate, for failure injection.
type MockKV struct {
	mock.Mock
}

func (m *MockKV) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockKV) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKV) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockKV) RemoveMany(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockKV) Keys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockKV) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestMigration_DegradedOnWriteFailure(t *testing.T) {
	mockKV := new(MockKV)
	mockKV.On("Get", mock.Anything, keySchemaVersion).Return("", kv.ErrNotFound)
	mockKV.On("Get", mock.Anything, keySessions).Return("", kv.ErrNotFound)
	mockKV.On("Get", mock.Anything, keyCache).Return("", kv.ErrNotFound)
	mockKV.On("Set", mock.Anything, keySchemaVersion, SchemaVersion).Return(errors.New("disk full"))

	st, _ := newTestStore(mockKV, Options{})
	assert.True(t, st.MigrationDegraded())
}

// failingKV lets writes fail while reads keep working.
type failingKV struct {
	kv.Store
	failSet bool
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("substrate write failure")
	}
	return f.Store.Set(ctx, key, value)
}

func TestSaveSession_PersistFailure(t *testing.T) {
	fkv := &failingKV{Store: kv.NewMemory()}
	st, _ := newTestStore(fkv, Options{})
	ctx := context.Background()

	fkv.failSet = true
	err := st.SaveSession(ctx, testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrPersist)
}

func TestSessions_ReadFailureDegradesToEmpty(t *testing.T) {
	mockKV := new(MockKV)
	mockKV.On("Get", mock.Anything, keySchemaVersion).Return(SchemaVersion, nil)
	mockKV.On("Get", mock.Anything, keyCache).Return("", kv.ErrNotFound)
	mockKV.On("Get", mock.Anything, keySessions).Return("", errors.New("substrate read failure"))

	st, _ := newTestStore(mockKV, Options{})
	got, err := st.Sessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got, "a failed read degrades to an empty collection")
}
