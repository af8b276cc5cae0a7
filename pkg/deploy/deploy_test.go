package deploy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *Record {
	return &Record{
		Network:               "amoy",
		ProxyAddress:          "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		ImplementationAddress: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		Deployer:              "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		DeployedAt:            time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		TokenInfo: TokenInfo{
			Name:          "WorkProof Token",
			Symbol:        "WPT",
			Decimals:      18,
			InitialSupply: "1000000000",
		},
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deployments")

	path, err := Write(dir, validRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "amoy.json"), path)

	rec, err := Read(dir, "amoy")
	require.NoError(t, err)
	assert.Equal(t, "WPT", rec.TokenInfo.Symbol)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", rec.ProxyAddress)
	assert.True(t, validRecord().DeployedAt.Equal(rec.DeployedAt))
}

func TestWrite_UsesCamelCaseKeys(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, validRecord())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "amoy.json"))
	require.NoError(t, err)

	for _, key := range []string{`"proxyAddress"`, `"implementationAddress"`, `"deployedAt"`, `"tokenInfo"`, `"initialSupply"`} {
		assert.Contains(t, string(data), key)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Record)
	}{
		{"bad proxy address", func(r *Record) { r.ProxyAddress = "0x1234" }},
		{"missing deployer", func(r *Record) { r.Deployer = "" }},
		{"empty network", func(r *Record) { r.Network = "" }},
		{"path in network", func(r *Record) { r.Network = "../etc" }},
		{"too many decimals", func(r *Record) { r.TokenInfo.Decimals = 19 }},
		{"non-numeric supply", func(r *Record) { r.TokenInfo.InitialSupply = "lots" }},
		{"zero deployedAt", func(r *Record) { r.DeployedAt = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)

			err := rec.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}

	assert.NoError(t, validRecord().Validate())
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(t.TempDir(), "mainnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read deployment record")
}

func TestRead_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "amoy.json"), []byte("{"), 0644))

	_, err := Read(dir, "amoy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse deployment record")
}

func TestRead_RejectsPathInNetworkName(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.json"), []byte("{}"), 0644))
	dir := filepath.Join(root, "deployments")

	for _, network := range []string{"../x", "a/b", ""} {
		_, err := Read(dir, network)
		require.Error(t, err, network)
		assert.Contains(t, err.Error(), "invalid network name")
	}
}
