package util

import (
	"net/url"
)

// ValidateEndpointName bounds the document key used for an endpoint.
func ValidateEndpointName(name string) bool {
	return len(name) >= 1 && len(name) <= 64
}

// ValidateWebhookURL accepts absolute http/https URLs only.
func ValidateWebhookURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
