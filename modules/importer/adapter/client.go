package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"recruitsync/core/constants"
	"recruitsync/core/errors"
	"recruitsync/core/storage"
	"recruitsync/core/utils"
)

// apiClient wraps provider HTTP calls: bearer auth, JSON decoding, token
// rejection detection, and optional raw-payload archiving.
type apiClient struct {
	provider string
	http     *http.Client
	archive  *storage.PayloadArchive
}

func newAPIClient(provider string, archive *storage.PayloadArchive) *apiClient {
	return &apiClient{
		provider: provider,
		http:     &http.Client{Timeout: constants.HTTPClientTimeout},
		archive:  archive,
	}
}

// getJSON issues an authenticated GET. A 401/403 maps to ErrTokenRejected;
// everything else unsuccessful maps to ErrProviderUnavailable.
func (c *apiClient) getJSON(ctx context.Context, rawURL string, token string, userID string, kind string, dest any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, token, nil)
	if err != nil {
		return err
	}

	if c.archive != nil && userID != "" {
		ts := time.Now().UTC().Format("20060102T150405")
		c.archive.Store(ctx, utils.GenerateArchiveKey(c.provider, userID, kind, ts), body)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return errors.NewAppError(errors.ErrProviderUnavailable, "failed to parse provider response", err)
	}
	return nil
}

// sendJSON issues an authenticated request with an optional JSON body and
// decodes the response into dest when dest is non-nil.
func (c *apiClient) sendJSON(ctx context.Context, method string, rawURL string, token string, payload any, dest any) error {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	body, err := c.do(ctx, method, rawURL, token, reqBody)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errors.NewAppError(errors.ErrProviderUnavailable, "failed to parse provider response", err)
	}
	return nil
}

func (c *apiClient) do(ctx context.Context, method string, rawURL string, token string, reqBody []byte) ([]byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderUnavailable, "failed to build provider request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderUnavailable, "provider request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderUnavailable, "failed to read provider response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrTokenRejected
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewAppError(errors.ErrProviderUnavailable,
			fmt.Sprintf("provider returned %d", resp.StatusCode), fmt.Errorf("%s", string(respBody)))
	}

	return respBody, nil
}
