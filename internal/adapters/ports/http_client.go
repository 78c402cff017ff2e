package ports

import "net/http"

// HTTPClient is the minimal HTTP client surface the transport needs
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
