package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const defaultKakaoProfileURL = "https://kapi.kakao.com/v2/user/me"

// KakaoClient resolves a provider access token into an account profile. The
// OAuth code exchange itself happens on the client; the backend only ever
// sees the provider token.
type KakaoClient interface {
	Profile(ctx context.Context, providerToken string) (KakaoProfile, error)
}

type HTTPKakaoClient struct {
	httpClient *http.Client
	profileURL string
}

func NewHTTPKakaoClient(httpClient *http.Client, profileURL string) *HTTPKakaoClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(profileURL) == "" {
		profileURL = defaultKakaoProfileURL
	}

	return &HTTPKakaoClient{
		httpClient: httpClient,
		profileURL: profileURL,
	}
}

func (c *HTTPKakaoClient) Profile(ctx context.Context, providerToken string) (KakaoProfile, error) {
	if strings.TrimSpace(providerToken) == "" {
		return KakaoProfile{}, ErrInvalidInput
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return KakaoProfile{}, fmt.Errorf("build kakao profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+providerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return KakaoProfile{}, fmt.Errorf("request kakao profile: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return KakaoProfile{}, ErrUnauthorized
	}

	var payload struct {
		ID         int64 `json:"id"`
		Properties struct {
			Nickname string `json:"nickname"`
		} `json:"properties"`
		KakaoAccount struct {
			Gender   string `json:"gender"`
			Birthday string `json:"birthday"`
			AgeRange string `json:"age_range"`
		} `json:"kakao_account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return KakaoProfile{}, fmt.Errorf("decode kakao profile: %w", err)
	}
	if payload.ID <= 0 {
		return KakaoProfile{}, ErrUnauthorized
	}

	return KakaoProfile{
		KakaoUID: payload.ID,
		Nickname: payload.Properties.Nickname,
		Gender:   payload.KakaoAccount.Gender,
		Birthday: payload.KakaoAccount.Birthday,
		AgeRange: payload.KakaoAccount.AgeRange,
	}, nil
}
