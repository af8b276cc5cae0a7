package workproof

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Client wraps the backend REST endpoints
type Client struct {
	api *apiclient.Client
}

// NewClient creates a Client on top of an authenticated API client
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// API returns the underlying HTTP client
func (c *Client) API() *apiclient.Client {
	return c.api
}

func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}
