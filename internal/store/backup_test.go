package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climbtrack/internal/domain/profile"
	"climbtrack/internal/kv"
)

func TestExport_BundleShape(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveSession(ctx, testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))))
	require.NoError(t, st.SaveProfile(ctx, &profile.Profile{Nickname: "ana"}))

	text, err := st.Export(ctx)
	require.NoError(t, err)

	var bundle Bundle
	require.NoError(t, json.Unmarshal([]byte(text), &bundle))
	assert.Equal(t, backupVersion, bundle.Version)
	assert.NotEmpty(t, bundle.Timestamp)
	require.Len(t, bundle.Sessions, 1)
	require.NotNil(t, bundle.UserProfile)
	assert.Equal(t, "ana", bundle.UserProfile.Nickname)
	assert.Equal(t, 1, bundle.Metadata.TotalSessions)

	sessionJSON, err := json.Marshal(bundle.Sessions)
	require.NoError(t, err)
	assert.Equal(t, checksum(sessionJSON), bundle.Metadata.Checksum)
	assert.Equal(t, len(sessionJSON), bundle.Metadata.TotalSize)
}

func TestImportExport_RoundTrip(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveSession(ctx, testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))))
	require.NoError(t, st.SaveSession(ctx, testSession("s2", time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))))
	require.NoError(t, st.SaveProfile(ctx, &profile.Profile{Nickname: "ana", Level: "V5"}))

	before, err := st.Sessions(ctx)
	require.NoError(t, err)
	beforeProfile, err := st.Profile(ctx)
	require.NoError(t, err)

	text, err := st.Export(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Import(ctx, text))

	after, err := st.Sessions(ctx)
	require.NoError(t, err)
	afterProfile, err := st.Profile(ctx)
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, beforeProfile, afterProfile)
}

func TestImport_MalformedLeavesStateUntouched(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveSession(ctx, testSession("s1", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))))

	tests := []struct {
		name   string
		bundle string
	}{
		{name: "not json", bundle: "{{{"},
		{name: "version not a string", bundle: `{"version":1,"timestamp":"t","sessions":[]}`},
		{name: "timestamp not a string", bundle: `{"version":"1.0","timestamp":42,"sessions":[]}`},
		{name: "sessions missing", bundle: `{"version":"1.0","timestamp":"t"}`},
		{name: "sessions not an array", bundle: `{"version":"1.0","timestamp":"t","sessions":{}}`},
		{name: "profile not an object", bundle: `{"version":"1.0","timestamp":"t","sessions":[],"userProfile":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := st.Import(ctx, tt.bundle)
			assert.ErrorIs(t, err, ErrMalformedBackup)

			got, err := st.Sessions(ctx)
			require.NoError(t, err)
			assert.Len(t, got, 1, "a rejected bundle must not mutate state")
		})
	}
}

func TestImport_WritesSafetyBackup(t *testing.T) {
	mem := kv.NewMemory()
	st, _ := newTestStore(mem, Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveSession(ctx, testSession("old", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))))
	priorState, err := st.Export(ctx)
	require.NoError(t, err)

	incoming := `{"version":"1.0","timestamp":"2024-02-01T00:00:00Z","sessions":[],"userProfile":null}`
	require.NoError(t, st.Import(ctx, incoming))

	keys, err := mem.Keys(ctx)
	require.NoError(t, err)
	var safetyKey string
	for _, k := range keys {
		if strings.HasPrefix(k, backupKeyPrefix) {
			safetyKey = k
		}
	}
	require.NotEmpty(t, safetyKey, "import must keep the prior state recoverable")

	saved, err := mem.Get(ctx, safetyKey)
	require.NoError(t, err)
	assert.Equal(t, priorState, saved)

	got, err := st.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "the bundle's contents replace the collection")
}

func TestImport_NullProfileRemovesProfile(t *testing.T) {
	st, _ := newTestStore(kv.NewMemory(), Options{})
	ctx := context.Background()

	require.NoError(t, st.SaveProfile(ctx, &profile.Profile{Nickname: "ana"}))

	incoming := `{"version":"1.0","timestamp":"2024-02-01T00:00:00Z","sessions":[],"userProfile":null}`
	require.NoError(t, st.Import(ctx, incoming))

	p, err := st.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}
