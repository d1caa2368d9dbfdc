// Package auth builds HTTP clients authenticated with the OAuth2 client
// credentials flow.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTimeout bounds every request made by clients from HTTPClient.
const DefaultTimeout = 30 * time.Second

// ClientCred caches the access token of one client credentials grant.
type ClientCred struct {
	conf Conf
	base *http.Client
	src  oauth2.TokenSource
}

// NewClientCred prepares the grant. No request is made until a token is
// needed.
func NewClientCred(conf Conf) *ClientCred {
	base := &http.Client{Timeout: DefaultTimeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	cc := conf.toOauth2Config()
	return &ClientCred{conf: conf, base: base, src: oauth2.ReuseTokenSource(nil, cc.TokenSource(ctx))}
}

// Token returns a valid access token, fetching a new one when the cached
// token expired.
func (c *ClientCred) Token() (string, error) {
	tok, err := c.src.Token()
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return tok.AccessToken, nil
}

// HTTPClient returns a client that adds the bearer token to every request.
// Without a token endpoint it returns a plain client.
func (c *ClientCred) HTTPClient() *http.Client {
	if !c.conf.Enabled() {
		return c.base
	}
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &oauth2.Transport{Source: c.src, Base: c.base.Transport},
	}
}
