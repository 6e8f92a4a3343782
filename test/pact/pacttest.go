//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "cbt-marketplace-api"
	ConsumerName = "cbt-storefront"

	StateCatalogSeeded  = "demo catalog seeded"
	StateProductMissing = "no product with id 999"
	StateGatewayReady   = "gateway merchant configured"
)

const (
	ExistingProductID uint64 = 1
	MissingProductID  uint64 = 999

	// Wallets of the demo seed; the seller doubles as the gateway merchant.
	SellerWallet = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	BuyerWallet  = "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the seeded laptop as the storefront renders it.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":          ExistingProductID,
		"companyRuc":  "1790012345001",
		"companyName": "Andes Tech",
		"name":        "Laptop",
		"price":       "100",
		"stock":       5,
		"iva":         15,
		"active":      true,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
