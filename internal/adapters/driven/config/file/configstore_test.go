package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test_key", "test_value"))

	val, ok := store.Get("test_key")
	assert.True(t, ok)
	assert.Equal(t, "test_value", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyUsername, "someone@example.org"))
	require.NoError(t, store.Set(KeyVenueLimit, 50))
	require.NoError(t, store.Set("verbose", true))
	require.NoError(t, store.Set(KeyVenueInvitations, []string{"Blind_Submission"}))

	assert.Equal(t, "someone@example.org", store.GetString(KeyUsername))
	assert.Equal(t, 50, store.GetInt(KeyVenueLimit))
	assert.True(t, store.GetBool("verbose"))
	assert.Equal(t, []string{"Blind_Submission"}, store.GetStringSlice(KeyVenueInvitations))

	// Absent or mistyped keys fall back to zero values.
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt(KeyUsername))
	assert.False(t, store.GetBool(KeyUsername))
	assert.Nil(t, store.GetStringSlice(KeyUsername))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyVenueID, "ICLR.cc/2024/Conference"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "ICLR.cc/2024/Conference", reopened.GetString(KeyVenueID))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[openreview]
base_url = "https://api.openreview.net"

[venue]
id = "NeurIPS.cc/2023/Conference"
limit = 25
invitations = ["Submission"]
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.openreview.net", store.GetString(KeyBaseURL))
	assert.Equal(t, "NeurIPS.cc/2023/Conference", store.GetString(KeyVenueID))
	assert.Equal(t, 25, store.GetInt(KeyVenueLimit))
}

func TestConfigStore_Venue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// Defaults when nothing is configured.
	venue := store.Venue()
	assert.Empty(t, venue.ID)
	assert.Equal(t, []string{"Blind_Submission", "Submission"}, venue.InvitationSuffixes)

	require.NoError(t, store.Set(KeyVenueID, "ICLR.cc/2024/Conference"))
	require.NoError(t, store.Set(KeyVenueInvitations, []string{"Blind_Submission"}))
	require.NoError(t, store.Set(KeyVenueReviewFrags, []string{"Official_Review"}))
	require.NoError(t, store.Set(KeyVenueLimit, 10))

	venue = store.Venue()
	assert.Equal(t, "ICLR.cc/2024/Conference", venue.ID)
	assert.Equal(t, []string{"Blind_Submission"}, venue.InvitationSuffixes)
	assert.Equal(t, []string{"Official_Review"}, venue.ReviewFragments)
	assert.Equal(t, 10, venue.Limit)
}
