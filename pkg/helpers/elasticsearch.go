package helpers

import (
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewESClient creates an Elasticsearch client for the event index.
// At least one address is required; basic auth is optional.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	if len(addrs) == 0 {
		return nil, errors.New("elasticsearch: no addresses configured")
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     addrs,
		Username:      username,
		Password:      password,
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    2,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
}
