// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrIncompleteCredentials is returned when only part of the client credentials is set.
	ErrIncompleteCredentials = errors.New("client credentials need token url, client id and client secret")
)

// ClientCredentials authenticates the requests with the OAuth2 client credentials flow.
type ClientCredentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

func (c *ClientCredentials) empty() bool {
	return c == nil || (c.TokenURL == "" && c.ClientID == "" && c.ClientSecret == "")
}

func (c *ClientCredentials) validate() error {
	if c.empty() {
		return nil
	}
	if c.TokenURL == "" || c.ClientID == "" || c.ClientSecret == "" {
		return ErrIncompleteCredentials
	}
	return nil
}

// authenticatedClient returns a copy of client whose requests carry a bearer
// token obtained with credentials. Tokens are requested through client as well.
func authenticatedClient(client *http.Client, credentials *ClientCredentials) *http.Client {
	if credentials.empty() {
		return client
	}

	config := clientcredentials.Config{
		ClientID:     credentials.ClientID,
		ClientSecret: credentials.ClientSecret,
		TokenURL:     credentials.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	tokenClient := &http.Client{Timeout: client.Timeout, Transport: base}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, tokenClient)

	authenticated := *client
	authenticated.Transport = &oauth2.Transport{
		Source: config.TokenSource(ctx),
		Base:   base,
	}
	return &authenticated
}
