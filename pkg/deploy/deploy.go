package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var networkPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func init() {
	validate = validator.New()
}

// TokenInfo describes the deployed WPT token
type TokenInfo struct {
	Name          string `json:"name" validate:"required"`
	Symbol        string `json:"symbol" validate:"required"`
	Decimals      int    `json:"decimals" validate:"min=0,max=18"`
	InitialSupply string `json:"initialSupply" validate:"required,number"`
}

// Record is the deployment output of the upgradeable WPT token contract
type Record struct {
	Network               string    `json:"network" validate:"required"`
	ProxyAddress          string    `json:"proxyAddress" validate:"required,eth_addr"`
	ImplementationAddress string    `json:"implementationAddress" validate:"required,eth_addr"`
	Deployer              string    `json:"deployer" validate:"required,eth_addr"`
	DeployedAt            time.Time `json:"deployedAt" validate:"required"`
	TokenInfo             TokenInfo `json:"tokenInfo"`
}

// Validate checks addresses, network name and token decimals
func (r *Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("deployment record validation failed: %w", err)
	}
	if !networkPattern.MatchString(r.Network) {
		return fmt.Errorf("deployment record validation failed: invalid network name %q", r.Network)
	}
	return nil
}

// Path returns the record location for network under dir
func Path(dir, network string) string {
	return filepath.Join(dir, network+".json")
}

// Write validates rec and writes it to <dir>/<network>.json, creating dir if needed
func Write(dir string, rec *Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create deployments directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal deployment record: %w", err)
	}

	path := Path(dir, rec.Network)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write deployment record: %w", err)
	}

	return path, nil
}

// Read loads and validates the record for network
func Read(dir, network string) (*Record, error) {
	if !networkPattern.MatchString(network) {
		return nil, fmt.Errorf("invalid network name %q", network)
	}

	data, err := os.ReadFile(Path(dir, network))
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse deployment record: %w", err)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}
