package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/drive"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/scheduler"
)

func testConfig(t *testing.T) *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.Drive.CredentialsDir = t.TempDir()
	cfg.Storage.UploadDir = t.TempDir()
	return cfg
}

func TestNew_WithoutCredentials(t *testing.T) {
	app, err := New(context.Background(), testConfig(t), arbor.NewLogger())
	require.NoError(t, err)
	defer app.Close()

	_, unavailable := app.Storage.(*drive.Unavailable)
	assert.True(t, unavailable, "missing credentials install the unavailable backend")
	assert.Equal(t, common.DefaultRootFolderID, app.Storage.RootFolderID())

	assert.NotNil(t, app.APIHandler)
	assert.NotNil(t, app.UploadHandler)
	assert.NotNil(t, app.FilesHandler)

	status := app.Credentials.CredentialStatus()
	assert.False(t, status.Files.TokenExists)
}

func TestNew_JanitorScheduled(t *testing.T) {
	app, err := New(context.Background(), testConfig(t), arbor.NewLogger())
	require.NoError(t, err)

	assert.True(t, app.Scheduler.IsRunning())
	status, err := app.Scheduler.GetJobStatus(scheduler.JanitorJobName)
	require.NoError(t, err)
	assert.Equal(t, "@every 1h", status.Schedule)

	require.NoError(t, app.Close())
	assert.False(t, app.Scheduler.IsRunning())
}

func TestNew_JanitorDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Janitor.Enabled = false

	app, err := New(context.Background(), cfg, arbor.NewLogger())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Janitor)
	assert.False(t, app.Scheduler.IsRunning())
}
