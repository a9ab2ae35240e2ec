package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"boba-pos/internal/apierr"

	"github.com/google/uuid"
)

const (
	googleAuthURI     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURI    = "https://oauth2.googleapis.com/token"
	googleUserinfoURI = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleOAuth drives the server side of the Google login flow.
type GoogleOAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPClient   *http.Client
}

func NewGoogleOAuth(clientID, clientSecret, redirectURI string) *GoogleOAuth {
	return &GoogleOAuth{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether credentials were provided.
func (g *GoogleOAuth) Configured() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// AuthURL builds the consent-screen URL plus the state nonce the front end
// must send back.
func (g *GoogleOAuth) AuthURL(state string) (string, string, error) {
	if !g.Configured() {
		return "", "", apierr.BadRequest("Google OAuth not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}
	if state == "" {
		state = uuid.NewString()
	}

	params := url.Values{}
	params.Set("client_id", g.ClientID)
	params.Set("redirect_uri", g.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "openid email profile")
	params.Set("state", state)
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")

	return googleAuthURI + "?" + params.Encode(), state, nil
}

// GoogleUser is the subset of the userinfo response we keep.
type GoogleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ExchangeCode trades an authorization code for an access token.
func (g *GoogleOAuth) ExchangeCode(code string) (string, error) {
	if !g.Configured() {
		return "", apierr.BadRequest("Google OAuth not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", g.ClientID)
	form.Set("client_secret", g.ClientSecret)
	form.Set("redirect_uri", g.RedirectURI)
	form.Set("grant_type", "authorization_code")

	resp, err := g.HTTPClient.PostForm(googleTokenURI, form)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", apierr.BadRequest("Failed to exchange code: %s", strings.TrimSpace(string(body)))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", apierr.BadRequest("Failed to get access token")
	}
	return token.AccessToken, nil
}

// UserInfo fetches the Google profile for an access token.
func (g *GoogleOAuth) UserInfo(accessToken string) (*GoogleUser, error) {
	req, err := http.NewRequest(http.MethodGet, googleUserinfoURI, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, apierr.BadRequest("Failed to get user info: %s", strings.TrimSpace(string(body)))
	}

	var user GoogleUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, apierr.BadRequest("Email not provided by Google")
	}
	return &user, nil
}

// DefaultRoleForEmail maps a login email to its starting role. Shop staff
// addresses get admin; everyone else starts as a customer.
func DefaultRoleForEmail(email, staffDomain string) string {
	if staffDomain != "" && strings.HasSuffix(email, "@"+staffDomain) {
		return "admin"
	}
	return "customer"
}

// BearerToken strips the "Bearer " prefix off an Authorization header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return "", fmt.Errorf("authorization header must start with Bearer")
	}
	return token, nil
}
