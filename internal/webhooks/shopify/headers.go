package shopify

import (
	"errors"
	"net/http"
	"strings"
)

// Recognized header name variants. Lookup is case-insensitive; the platform
// and some event-bus bridges disagree on exact spelling.
var (
	shopDomainHeaders = []string{"X-Shopify-Shop-Domain", "X-Shop-Domain"}
	topicHeaders      = []string{"X-Shopify-Topic", "X-Topic"}
	signatureHeaders  = []string{"X-Shopify-Hmac-Sha256", "X-Hmac-Sha256"}
)

// ErrMissingShopDomain indicates no recognized shop domain header was present.
var ErrMissingShopDomain = errors.New("missing shop domain header")

// ExtractShopDomain returns the tenant shop domain or ErrMissingShopDomain.
func ExtractShopDomain(headers http.Header) (string, error) {
	value := headerValue(headers, shopDomainHeaders)
	if value == "" {
		return "", ErrMissingShopDomain
	}
	return value, nil
}

// ExtractTopic returns the webhook topic, "unknown" when absent.
func ExtractTopic(headers http.Header) string {
	value := headerValue(headers, topicHeaders)
	if value == "" {
		return "unknown"
	}
	return value
}

// ExtractSignature returns the HMAC signature header, empty when absent.
func ExtractSignature(headers http.Header) string {
	return headerValue(headers, signatureHeaders)
}

func headerValue(headers http.Header, names []string) string {
	for _, name := range names {
		if value := strings.TrimSpace(headers.Get(name)); value != "" {
			return value
		}
	}
	// Header.Get only sees canonical keys; scan for values stored under
	// non-canonical spellings.
	for key, values := range headers {
		for _, name := range names {
			if strings.EqualFold(key, name) && len(values) > 0 {
				if value := strings.TrimSpace(values[0]); value != "" {
					return value
				}
			}
		}
	}
	return ""
}
