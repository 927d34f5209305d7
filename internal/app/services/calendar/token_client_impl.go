package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
)

type tokenClient struct {
	TokenUrl     string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

func NewTokenClient(calendarConfig config.Calendar) contracts.TokenClient {
	return &tokenClient{
		TokenUrl:     calendarConfig.TokenUrl,
		ClientID:     calendarConfig.ClientID,
		ClientSecret: calendarConfig.ClientSecret,
		HTTPClient: &http.Client{
			Timeout: time.Duration(calendarConfig.RequestTimeoutInSeconds) * time.Second,
		},
	}
}

func (c *tokenClient) Exchange(ctx context.Context, refreshToken string) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.TokenUrl, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, exceptions.ErrCalendarRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEFormURLEncoded)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", 0, exceptions.ErrCalendarRequest(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, exceptions.ErrCalendarRequest(err)
	}

	switch resp.StatusCode {
	case constvars.StatusOK:
	case constvars.StatusBadRequest, constvars.StatusUnauthorized, constvars.StatusForbidden:
		return "", 0, exceptions.ErrCredentialExchange(fmt.Errorf("token endpoint returned %s: %s", resp.Status, string(body)))
	default:
		return "", 0, exceptions.ErrCalendarRequest(fmt.Errorf("token endpoint returned %s", resp.Status))
	}

	var token wireTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", 0, exceptions.ErrCalendarDecode(err)
	}
	if token.AccessToken == "" {
		return "", 0, exceptions.ErrCredentialExchange(fmt.Errorf("token endpoint returned an empty access token"))
	}
	return token.AccessToken, time.Duration(token.ExpiresIn) * time.Second, nil
}
