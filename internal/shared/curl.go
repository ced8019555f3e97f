// Utilities for lifting credentials out of cURL commands.
//
// The TMDb API reference pages offer a "copy as cURL" snippet that carries the
// read access token in an Authorization header; `reel setup token` accepts it verbatim.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRegex = regexp.MustCompile(`(?:-H|--header)\s+'([^']+)'|(?:-H|--header)\s+"([^"]+)"`)
	curlURLRegex    = regexp.MustCompile(`(https?://[^\s'"]+)`)
)

// CurlRequest represents the parts of a cURL command reel cares about.
type CurlRequest struct {
	URL     string
	Headers map[string]string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts its request.
func ParseCurlFile(path string) (*CurlRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string and extracts the URL and headers.
//
// Header names are kept as written; lookups through [CurlRequest.Header] are case-insensitive.
func ParseCurlCommand(curlCmd string) (*CurlRequest, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	for _, match := range curlHeaderRegex.FindAllStringSubmatch(curlCmd, -1) {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}
		headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}

	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}

	req := &CurlRequest{Headers: headers}
	if m := curlURLRegex.FindStringSubmatch(curlCmd); len(m) > 1 {
		req.URL = m[1]
	}

	return req, nil
}

// Header returns the value of the named header, ignoring case.
func (c *CurlRequest) Header(name string) (string, bool) {
	for k, v := range c.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// BearerToken returns the token of a "Bearer" Authorization header.
func (c *CurlRequest) BearerToken() (string, error) {
	auth, ok := c.Header("Authorization")
	if !ok {
		return "", fmt.Errorf("%w: no Authorization header", ErrMissingCredentials)
	}

	scheme, token, found := strings.Cut(auth, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: Authorization header is not a bearer token", ErrMissingCredentials)
	}

	return strings.TrimSpace(token), nil
}
