package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient pravi deljeni HTTP klijent za pozive ka drugim servisima.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
	}
}
