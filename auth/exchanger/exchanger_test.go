// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package exchanger_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-a2a/agentcore/auth/exchanger"
	"github.com/go-a2a/agentcore/types"
)

func TestCredentialExchangerRegistry(t *testing.T) {
	registry := exchanger.NewCredentialExchangerRegistry()
	oauth2Exchanger := &exchanger.OAuth2CredentialExchanger{}

	registry.Register(types.OAuth2CredentialTypes, oauth2Exchanger)

	got, ok := registry.GetExchanger(types.OAuth2CredentialTypes)
	if !ok {
		t.Fatal("registered exchanger not found")
	}
	if got != oauth2Exchanger {
		t.Error("GetExchanger returned a different exchanger")
	}

	if _, ok := registry.GetExchanger(types.APIKeyCredentialTypes); ok {
		t.Error("GetExchanger found an exchanger for an unregistered type")
	}
}

func TestOAuth2ExchangeRequiresScheme(t *testing.T) {
	e := &exchanger.OAuth2CredentialExchanger{}

	_, err := e.Exchange(context.Background(), &types.AuthCredential{
		AuthType: types.OAuth2CredentialTypes,
		OAuth2:   &types.OAuth2Auth{},
	}, nil)
	if err == nil {
		t.Fatal("Exchange with nil scheme succeeded, want error")
	}
}

func TestOAuth2ExchangeKeepsExistingToken(t *testing.T) {
	e := &exchanger.OAuth2CredentialExchanger{}
	cred := &types.AuthCredential{
		AuthType: types.OAuth2CredentialTypes,
		OAuth2:   &types.OAuth2Auth{AccessToken: "already-exchanged"},
	}
	scheme := &types.OpenIDConnectWithConfig{TokenEndpoint: "https://auth.example.com/token"}

	got, err := e.Exchange(context.Background(), cred, scheme)
	if err != nil {
		t.Fatal(err)
	}
	if got != cred {
		t.Error("Exchange replaced a credential that already carries a token")
	}
	if got.OAuth2.AccessToken != "already-exchanged" {
		t.Errorf("access token = %q, want unchanged", got.OAuth2.AccessToken)
	}
}

func TestOAuth2ExchangeRejectsStateMismatch(t *testing.T) {
	e := &exchanger.OAuth2CredentialExchanger{}
	cred := &types.AuthCredential{
		AuthType: types.OAuth2CredentialTypes,
		OAuth2: &types.OAuth2Auth{
			ClientID:        "client",
			ClientSecret:    "secret",
			State:           "expected-state",
			AuthResponseURI: "https://app.example.com/callback?state=tampered&code=abc",
		},
	}
	scheme := &types.OpenIDConnectWithConfig{TokenEndpoint: "https://auth.example.com/token"}

	_, err := e.Exchange(context.Background(), cred, scheme)
	if err == nil || !strings.Contains(err.Error(), "state mismatch") {
		t.Errorf("error = %v, want state mismatch", err)
	}
}
