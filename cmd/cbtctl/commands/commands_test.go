package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inMemory(t *testing.T) {
	t.Helper()
	for _, key := range []string{"RPC_URL", "ECOMMERCE_ADDRESS", "ADMIN_ADDRESS", "POSTGRES_DSN", "REDIS_URL", "NATS_URL", "STRIPE_SECRET_KEY", "CBT_CONFIG_FILE"} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestProducts(t *testing.T) {
	inMemory(t)
	out, err := run(t, "products")
	require.NoError(t, err)
	assert.Contains(t, out, "Laptop")
	assert.Contains(t, out, "Andes Tech")
	assert.Contains(t, out, "100.00")
}

func TestOrders(t *testing.T) {
	inMemory(t)
	out, err := run(t, "orders", "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	require.NoError(t, err)
	assert.Contains(t, out, "no orders")

	_, err = run(t, "orders", "not-an-address")
	require.Error(t, err)
}

func TestInvoicesAndPurge(t *testing.T) {
	inMemory(t)
	out, err := run(t, "invoices", "--ruc", "1790012345001")
	require.NoError(t, err)
	assert.Contains(t, out, "INVOICE")

	out, err = run(t, "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "purged 0 sessions and 0 carts")
}

func TestMint_RequiresFlagsAndKnownIntent(t *testing.T) {
	inMemory(t)
	_, err := run(t, "mint", "--intent", "pi_1")
	require.Error(t, err)

	_, err = run(t, "mint", "--intent", "pi_missing", "--address", "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc", "--amount", "10")
	require.Error(t, err)
}
