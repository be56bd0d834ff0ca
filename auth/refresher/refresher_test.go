// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package refresher_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-a2a/agentcore/auth/refresher"
	"github.com/go-a2a/agentcore/types"
)

func TestCredentialRefresherRegistry(t *testing.T) {
	registry := refresher.NewCredentialRefresherRegistry()
	oauth2Refresher := &refresher.OAuth2CredentialRefresher{}

	registry.Register(types.OAuth2CredentialTypes, oauth2Refresher)

	got, ok := registry.GetRefresher(types.OAuth2CredentialTypes)
	if !ok {
		t.Fatal("registered refresher not found")
	}
	if got != oauth2Refresher {
		t.Error("GetRefresher returned a different refresher")
	}

	if _, ok := registry.GetRefresher(types.APIKeyCredentialTypes); ok {
		t.Error("GetRefresher found a refresher for an unregistered type")
	}
}

func TestOAuth2IsRefreshNeeded(t *testing.T) {
	r := &refresher.OAuth2CredentialRefresher{}
	ctx := context.Background()

	expired := &types.AuthCredential{
		AuthType: types.OAuth2CredentialTypes,
		OAuth2: &types.OAuth2Auth{
			AccessToken: "stale",
			ExpiresAt:   time.Now().Add(-time.Hour),
		},
	}
	if !r.IsRefreshNeeded(ctx, expired, nil) {
		t.Error("IsRefreshNeeded = false for an expired token, want true")
	}

	fresh := &types.AuthCredential{
		AuthType: types.OAuth2CredentialTypes,
		OAuth2: &types.OAuth2Auth{
			AccessToken: "fresh",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	if r.IsRefreshNeeded(ctx, fresh, nil) {
		t.Error("IsRefreshNeeded = true for a valid token, want false")
	}

	nonOAuth := &types.AuthCredential{
		AuthType: types.APIKeyCredentialTypes,
		APIKey:   "key",
	}
	if r.IsRefreshNeeded(ctx, nonOAuth, nil) {
		t.Error("IsRefreshNeeded = true for a non-OAuth2 credential, want false")
	}
}

func TestOAuth2RefreshSkipsValidToken(t *testing.T) {
	r := &refresher.OAuth2CredentialRefresher{}
	cred := &types.AuthCredential{
		AuthType: types.OAuth2CredentialTypes,
		OAuth2: &types.OAuth2Auth{
			AccessToken: "fresh",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	scheme := &types.OpenIDConnectWithConfig{TokenEndpoint: "https://auth.example.com/token"}

	got, err := r.Refresh(context.Background(), cred, scheme)
	if err != nil {
		t.Fatal(err)
	}
	if got != cred {
		t.Error("Refresh replaced a credential whose token is still valid")
	}
	if got.OAuth2.AccessToken != "fresh" {
		t.Errorf("access token = %q, want unchanged", got.OAuth2.AccessToken)
	}
}
