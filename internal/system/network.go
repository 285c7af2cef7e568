package system

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jxwalker/pixnix/internal/errors"
)

var proxyVars = []string{"HTTP_PROXY", "HTTPS_PROXY", "NO_PROXY", "http_proxy", "https_proxy", "no_proxy"}

// CheckHTTP GETs rawURL. Any HTTP response, whatever its status, counts as reachable.
func CheckHTTP(ctx context.Context, client *http.Client, rawURL string) (int, error) {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		fe := errors.NetworkError(err)
		if proxies := DetectProxySettings(); len(proxies) > 0 {
			names := make([]string, 0, len(proxies))
			for _, k := range proxyVars {
				if _, ok := proxies[k]; ok {
					names = append(names, k)
				}
			}
			fe.Suggestion += "\nProxy variables in effect: " + strings.Join(names, ", ")
		}
		return 0, fe
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// DetectProxySettings returns the proxy environment variables that are set.
func DetectProxySettings() map[string]string {
	out := make(map[string]string)
	for _, k := range proxyVars {
		if v := os.Getenv(k); v != "" {
			out[k] = v
		}
	}
	return out
}
