package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/utils"
)

// Client wraps the Gmail API client
type Client struct {
	service      *gmail.Service
	sender       string
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient creates a new Gmail client using an existing OAuth token.
// The token should already carry the gmail.send scope.
func NewClient(ctx context.Context, clientFile *config.GoogleClientFile, token *oauth2.Token, sender string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(clientFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{
		service: service,
		sender:  sender,
	}, nil
}
