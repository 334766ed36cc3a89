package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_NoBootstrap(t *testing.T) {
	resetFlags(rootCmd)
	SetBootstrap(nil)
	rootCmd.SetArgs([]string{"list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRoot_BootstrapError(t *testing.T) {
	resetFlags(rootCmd)
	SetBootstrap(func(context.Context, Options) (*Runtime, error) {
		return nil, errors.New("database locked")
	})
	defer SetBootstrap(nil)
	rootCmd.SetArgs([]string{"list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.EqualError(t, err, "database locked")
}

func TestRoot_PassesOptionsAndCloses(t *testing.T) {
	env := newTestEnv(t)
	var got Options
	closed := false
	env.rt.Close = func() error {
		closed = true
		return nil
	}
	resetFlags(rootCmd)
	SetBootstrap(func(_ context.Context, o Options) (*Runtime, error) {
		got = o
		return env.rt, nil
	})
	defer SetBootstrap(nil)
	rootCmd.SetArgs([]string{"--config-dir", "/tmp/daybook-test", "list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/daybook-test", got.ConfigDir)
	assert.True(t, closed)
	assert.Nil(t, rt)
}

func TestRoot_WaitReadyFailure(t *testing.T) {
	env := newTestEnv(t)
	env.rt.WaitReady = func(context.Context) error { return errors.New("corrupt journal") }

	_, err := env.run(t, "", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load journal: corrupt journal")
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
