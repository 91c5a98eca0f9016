package utils

import (
	"net/http"
	"time"
)

// HttpClient is the shared client for product page fetches. The overall
// deadline per request is set by the caller through the request context;
// this timeout is only the hard upper bound.
var HttpClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: time.Minute,
}
