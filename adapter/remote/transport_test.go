// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logkit"
)

func TestClientCredentialsValidate(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		credentials *ClientCredentials
		expectedErr error
	}{
		"nil credentials": {},
		"empty credentials": {
			credentials: &ClientCredentials{},
		},
		"missing secret": {
			credentials: &ClientCredentials{TokenURL: "http://localhost/token", ClientID: "id"},
			expectedErr: ErrIncompleteCredentials,
		},
		"complete credentials": {
			credentials: &ClientCredentials{TokenURL: "http://localhost/token", ClientID: "id", ClientSecret: "secret"},
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			err := test.credentials.validate()
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAuthenticatedRequests(t *testing.T) {
	t.Parallel()

	var tokenRequests atomic.Int32
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		user, password, ok := r.BasicAuth()
		if !ok || user != "client" || password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-123","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenServer.Close)

	collector, requests := newTestServer(t, http.StatusNoContent)

	adapter, err := New(Options{
		ID:       "remote",
		Endpoint: collector.URL,
		Credentials: &ClientCredentials{
			TokenURL:     tokenServer.URL,
			ClientID:     "client",
			ClientSecret: "secret",
		},
	})
	require.NoError(t, err)

	require.NoError(t, adapter.Log(t.Context(), logkit.INFO, "Cart", "first"))
	require.NoError(t, adapter.Log(t.Context(), logkit.INFO, "Cart", "second"))

	received := requests()
	require.Len(t, received, 2)
	for _, request := range received {
		assert.Equal(t, "Bearer token-123", request.headers.Get("Authorization"))
	}
	assert.Equal(t, int32(1), tokenRequests.Load())
}

func TestNewWithIncompleteCredentials(t *testing.T) {
	t.Parallel()

	_, err := New(Options{
		ID:          "remote",
		Endpoint:    "http://localhost/logs",
		Credentials: &ClientCredentials{ClientID: "client"},
	})
	require.ErrorIs(t, err, ErrIncompleteCredentials)
}
