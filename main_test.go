// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vault/cliparse"
	"github.com/danielhkuo/vault/session"
	"github.com/danielhkuo/vault/testutil"
)

func TestStartSweeper(t *testing.T) {
	store := session.NewSQLStore(testutil.SetupTestDB(t))

	t.Run("sql backend is swept", func(t *testing.T) {
		cfg := cliparse.Config{SessionBackend: cliparse.SessionBackendSQL, SessionSweep: "@every 10m"}

		sweeper, err := startSweeper(cfg, store)
		require.NoError(t, err)
		require.NotNil(t, sweeper)
		<-sweeper.Stop().Done()
	})

	t.Run("redis backend expires on its own", func(t *testing.T) {
		cfg := cliparse.Config{SessionBackend: cliparse.SessionBackendRedis, SessionSweep: "@every 10m"}

		sweeper, err := startSweeper(cfg, store)
		require.NoError(t, err)
		assert.Nil(t, sweeper)
	})

	t.Run("bad schedule", func(t *testing.T) {
		cfg := cliparse.Config{SessionBackend: cliparse.SessionBackendSQL, SessionSweep: "whenever"}

		_, err := startSweeper(cfg, store)
		assert.Error(t, err)
	})
}
