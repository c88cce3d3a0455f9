package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/model"
)

// HTTPError is a non-2xx answer from the backend auth API.
// It is surfaced to the user as is and never retried automatically.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s failed: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsHTTPError checks if error is HTTPError
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// AuthAPIClient is a client for the backend auth endpoints
type AuthAPIClient struct {
	baseURL string
	client  *http.Client
}

// NewAuthAPIClient creates a new backend auth client
func NewAuthAPIClient(baseURL string) *AuthAPIClient {
	return &AuthAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// InitOTPAuth asks the backend to send an OTP to the contact
func (c *AuthAPIClient) InitOTPAuth(ctx context.Context, req model.InitOTPRequest) (*model.InitOTPResponse, error) {
	var resp model.InitOTPResponse
	if err := c.post(ctx, "/api/auth/initOtpAuth", req, &resp); err != nil {
		return nil, err
	}
	if resp.OTPID == "" || resp.OrganizationID == "" {
		return nil, errors.New("initOtpAuth: empty otpId or organizationId")
	}
	return &resp, nil
}

// OTPAuth completes the OTP login and returns the credential bundle
func (c *AuthAPIClient) OTPAuth(ctx context.Context, req model.OTPAuthRequest) (*model.CredentialResponse, error) {
	var resp model.CredentialResponse
	if err := c.post(ctx, "/api/auth/otpAuth", req, &resp); err != nil {
		return nil, err
	}
	if resp.CredentialBundle == "" {
		return nil, errors.New("otpAuth: empty credential bundle")
	}
	return &resp, nil
}

// OAuthLogin exchanges an OIDC token for a credential bundle
func (c *AuthAPIClient) OAuthLogin(ctx context.Context, req model.OAuthLoginRequest) (*model.CredentialResponse, error) {
	var resp model.CredentialResponse
	if err := c.post(ctx, "/api/auth/oAuthLogin", req, &resp); err != nil {
		return nil, err
	}
	if resp.CredentialBundle == "" {
		return nil, errors.New("oAuthLogin: empty credential bundle")
	}
	return &resp, nil
}

// CreateSubOrg registers a passkey and returns the new sub-organization
func (c *AuthAPIClient) CreateSubOrg(ctx context.Context, req model.CreateSubOrgRequest) (*model.CreateSubOrgResponse, error) {
	var resp model.CreateSubOrgResponse
	if err := c.post(ctx, "/api/auth/createSubOrg", req, &resp); err != nil {
		return nil, err
	}
	if resp.SubOrganizationID == "" {
		return nil, errors.New("createSubOrg: empty subOrganizationId")
	}
	return &resp, nil
}

// FetchProfile gets the profile of a wallet address
func (c *AuthAPIClient) FetchProfile(ctx context.Context, address string) (*model.Profile, error) {
	endpoint := "/api/profile/" + url.PathEscape(address)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var profile model.Profile
	if err := c.do(httpReq, endpoint, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *AuthAPIClient) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, endpoint, out)
}

func (c *AuthAPIClient) do(httpReq *http.Request, endpoint string, out any) error {
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} from a failed response, or the raw text
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var errResp model.ErrorResponse
	if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}
	return strings.TrimSpace(string(raw))
}
