package usecase

import (
	"context"
	"fmt"
	"net/url"
	"os"

	userrepo "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/repository/port"
)

// ConnectPlatformUseCase links a user account to the external meeting
// platform. The token exchange itself is mocked: this service only records
// the connected flag, the real OAuth dance lives with the platform vendor.
type ConnectPlatformUseCase struct {
	Users userrepo.UserRepository
}

func NewConnectPlatformUseCase(users userrepo.UserRepository) *ConnectPlatformUseCase {
	return &ConnectPlatformUseCase{Users: users}
}

// OAuthURL builds the platform authorization URL for the user. The user id
// rides along in state so the callback can identify who authorized.
func (uc *ConnectPlatformUseCase) OAuthURL(userID string) (string, error) {
	clientID := os.Getenv("PLATFORM_CLIENT_ID")
	redirect := os.Getenv("PLATFORM_OAUTH_REDIRECT_URI")
	if clientID == "" || redirect == "" {
		return "", fmt.Errorf("platform: PLATFORM_CLIENT_ID and PLATFORM_OAUTH_REDIRECT_URI must be set")
	}

	u, _ := url.Parse("https://zoom.us/oauth/authorize")
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirect)
	q.Set("state", userID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HandleCallback consumes the authorization code. Mocked: the code is
// accepted as-is and the account is marked connected.
func (uc *ConnectPlatformUseCase) HandleCallback(ctx context.Context, userID, code string) error {
	if code == "" {
		return fmt.Errorf("platform: authorization code is required")
	}
	return uc.Users.SetPlatformConnected(ctx, userID, true)
}
