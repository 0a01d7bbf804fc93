package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopmydish/domain"
	"shopmydish/pkg/jwt"
	"shopmydish/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const StateTTL = 10 * time.Minute

type (
	AuthService interface {
		LoginURL(ctx context.Context) (string, error)
		Callback(ctx context.Context, code string, state string) (domain.LoginResponse, error)
		LogoutURL(returnTo string) string
	}

	// ProviderConfig describes the Auth0 tenant. Domain may carry a scheme,
	// which is only useful against a local stand-in of the tenant.
	ProviderConfig struct {
		Domain       string
		ClientID     string
		ClientSecret string
		CallbackURL  string
	}

	authService struct {
		oauth       *oauth2.Config
		baseURL     string
		clientID    string
		states      fiber.Storage
		userService user.UserService
		jwtService  jwt.JWTService
	}
)

func NewAuthService(cfg ProviderConfig, states fiber.Storage, userService user.UserService, jwtService jwt.JWTService) AuthService {
	base := strings.TrimRight(cfg.Domain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return &authService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/authorize",
				TokenURL: base + "/oauth/token",
			},
		},
		baseURL:     base,
		clientID:    cfg.ClientID,
		states:      states,
		userService: userService,
		jwtService:  jwtService,
	}
}

// LoginURL remembers a fresh state value and returns the provider's
// authorize URL carrying it.
func (s *authService) LoginURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.states.Set(state, []byte("1"), StateTTL); err != nil {
		return "", fmt.Errorf("store login state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// Callback consumes the state, trades the code for a token, and signs the
// user in under the identity the provider reports.
func (s *authService) Callback(ctx context.Context, code string, state string) (domain.LoginResponse, error) {
	if state == "" {
		return domain.LoginResponse{}, domain.ErrAuthStateInvalid
	}
	known, err := s.states.Get(state)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("load login state: %w", err)
	}
	if known == nil {
		return domain.LoginResponse{}, domain.ErrAuthStateInvalid
	}
	if err := s.states.Delete(state); err != nil {
		log.Warnw("failed to drop login state", "error", err)
	}
	if code == "" {
		return domain.LoginResponse{}, domain.ErrAuthCodeMissing
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("exchange code: %w", err)
	}
	claims, err := s.userInfo(ctx, token)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	u, err := s.userService.SyncIdentity(ctx, claims)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	session, err := s.jwtService.GenerateTokenUser(u.ID.String())
	if err != nil {
		return domain.LoginResponse{}, err
	}

	log.Infow("user signed in", "user_id", u.ID)
	return domain.LoginResponse{Token: session, User: u}, nil
}

func (s *authService) userInfo(ctx context.Context, token *oauth2.Token) (domain.IdentityClaims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/userinfo", nil)
	if err != nil {
		return domain.IdentityClaims{}, err
	}
	resp, err := s.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return domain.IdentityClaims{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.IdentityClaims{}, fmt.Errorf("fetch userinfo: unexpected status %d", resp.StatusCode)
	}
	var claims domain.IdentityClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return domain.IdentityClaims{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return claims, nil
}

func (s *authService) LogoutURL(returnTo string) string {
	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("returnTo", returnTo)
	return s.baseURL + "/v2/logout?" + q.Encode()
}
