// Package hosted implements identity.Provider against a hosted user-pool
// service exposing standard OAuth2 endpoints plus a userInfo and a groups
// endpoint under the same domain.
package hosted

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contextual-chatbot-be/pkg/identity"
	"contextual-chatbot-be/pkg/provider"

	"golang.org/x/oauth2"
)

const defaultScope = "email openid profile"

type Config struct {
	Domain       string // e.g. https://auth.example.com
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type Provider struct {
	cfg        Config
	oauthConf  *oauth2.Config
	httpClient *http.Client
}

func New(cfg Config) *Provider {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       strings.Fields(defaultScope),
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.Domain + "/oauth2/authorize",
			TokenURL: cfg.Domain + "/oauth2/token",
		},
	}

	return &Provider{
		cfg:       cfg,
		oauthConf: conf,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *Provider) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConf.Exchange(ctx, code)
	if err != nil {
		return "", provider.Wrap("identity", "exchange code", err)
	}
	return token.AccessToken, nil
}

func (p *Provider) Authenticate(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {p.cfg.ClientID},
		"username":   {username},
		"password":   {password},
		"scope":      {defaultScope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.oauthConf.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", provider.Wrap("identity", "authenticate", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := p.do(req, "authenticate")
	if err != nil {
		return "", err
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", provider.Wrap("identity", "authenticate", err)
	}
	if tokenResp.AccessToken == "" {
		return "", provider.Wrap("identity", "authenticate", fmt.Errorf("token endpoint returned no access token"))
	}
	return tokenResp.AccessToken, nil
}

func (p *Provider) DescribeUser(ctx context.Context, accessToken string) (*identity.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.Domain+"/oauth2/userInfo", nil)
	if err != nil {
		return nil, provider.Wrap("identity", "describe user", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := p.do(req, "describe user")
	if err != nil {
		return nil, err
	}

	var userInfo struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, provider.Wrap("identity", "describe user", err)
	}
	if userInfo.Username == "" {
		return nil, provider.Wrap("identity", "describe user", fmt.Errorf("userInfo returned no username"))
	}

	return &identity.UserProfile{
		UserName: userInfo.Username,
		Email:    userInfo.Email,
	}, nil
}

func (p *Provider) ListGroups(ctx context.Context, username string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/users/%s/groups", p.cfg.Domain, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, provider.Wrap("identity", "list groups", err)
	}

	body, err := p.do(req, "list groups")
	if err != nil {
		return nil, err
	}

	var groupsResp struct {
		Groups []struct {
			GroupName string `json:"group_name"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(body, &groupsResp); err != nil {
		return nil, provider.Wrap("identity", "list groups", err)
	}

	groups := make([]string, 0, len(groupsResp.Groups))
	for _, g := range groupsResp.Groups {
		groups = append(groups, g.GroupName)
	}
	return groups, nil
}

func (p *Provider) HostedURLs() identity.HostedURLs {
	query := fmt.Sprintf(
		"client_id=%s&response_type=code&scope=%s&redirect_uri=%s",
		url.QueryEscape(p.cfg.ClientID),
		url.QueryEscape(defaultScope),
		url.QueryEscape(p.cfg.RedirectURI),
	)
	return identity.HostedURLs{
		Login:          fmt.Sprintf("%s/login?%s", p.cfg.Domain, query),
		ForgotPassword: fmt.Sprintf("%s/forgotPassword?%s", p.cfg.Domain, query),
		SignUp:         fmt.Sprintf("%s/signup?%s", p.cfg.Domain, query),
	}
}

func (p *Provider) do(req *http.Request, op string) ([]byte, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, provider.Wrap("identity", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.Wrap("identity", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, provider.Wrap("identity", op, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}
	return body, nil
}
