package client

import "net/http"

// ValidateResponse is exported for testing
var ValidateResponse = validateResponse

// ErrorDetail is exported for testing
var ErrorDetail = errorDetail

// HTTPClient is exported for testing
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}
