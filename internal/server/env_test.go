// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironmentVariables(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		envVars, err := loadServerConfig()
		require.NoError(t, err)
		assert.Equal(t, &config{
			HTTPHost:              "0.0.0.0",
			HTTPPort:              3000,
			DisableStartupMessage: true,
			BodyLimit:             1048576,
			MaxBatchSize:          500,
		}, envVars)
	})

	t.Run("custom port", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "8080")
		envVars, err := loadServerConfig()
		require.NoError(t, err)
		assert.Equal(t, 8080, envVars.HTTPPort)
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "655350")
		_, err := loadServerConfig()
		require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})

	t.Run("port is not a number", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "http")
		_, err := loadServerConfig()
		require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})
}

func TestValidateEnvironmentVariables(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		envVars     *config
		expectedErr string
	}{
		"negative port": {
			envVars:     &config{HTTPPort: -1, BodyLimit: 1, MaxBatchSize: 1},
			expectedErr: "HTTP_PORT is out of valid range (1-65535)",
		},
		"invalid limits": {
			envVars:     &config{HTTPPort: 3000},
			expectedErr: "LOGKIT_COLLECTOR_BODY_LIMIT must be positive, LOGKIT_COLLECTOR_MAX_BATCH must be positive",
		},
		"valid": {
			envVars: &config{HTTPPort: 3000, BodyLimit: 1, MaxBatchSize: 1},
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validateEnvironmentVariables(test.envVars)
			if test.expectedErr != "" {
				require.ErrorIs(t, err, ErrEnvVariablesNotValid)
				assert.ErrorContains(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
