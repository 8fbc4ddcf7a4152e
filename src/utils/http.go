package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stratbench/stratbench/src/models"
)

var client = http.Client{
	Timeout: 30 * time.Second,
}

// Get fetches url and returns the raw body. A status >= 400 is an error; if
// the provider returned a JSON error payload its message is surfaced.
func Get(url string) ([]byte, error) {
	return GetWithHeaders(url, nil)
}

func GetWithHeaders(url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("Get: failed to create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, getErr := client.Do(req)
	if getErr != nil {
		return nil, fmt.Errorf("Get: request failed: %w", getErr)
	}

	if res.Body != nil {
		defer res.Body.Close()
	}

	body, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, fmt.Errorf("Get: failed to read body: %w", readErr)
	}

	if res.StatusCode >= 400 {
		var errDTO models.ErrorDTO
		if jsonErr := json.Unmarshal(body, &errDTO); jsonErr == nil && errDTO.Msg != "" {
			return nil, fmt.Errorf("Get: %s returned %d: %v", url, res.StatusCode, errDTO.Msg)
		}

		return nil, fmt.Errorf("Get: %s returned %d", url, res.StatusCode)
	}

	return body, nil
}
