package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxFetchBytes caps a single download.
const MaxFetchBytes = 32 << 20

// FetchBytes GETs url and returns the body of a 200 response.
// The caller bounds the wait through ctx.
func FetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes))
}
