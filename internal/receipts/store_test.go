package receipts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreSave(t *testing.T) {
	store, err := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	t.Run("groups by the order's month", func(t *testing.T) {
		path, err := store.Save("20250215-1000-42", []byte("receipt"), "Іван Петренко", "txt")
		require.NoError(t, err)

		assert.Equal(t, "Лютий 2025", filepath.Base(filepath.Dir(path)))
		assert.Equal(t, "2025-02-15_1000__Іван Петренко.txt", filepath.Base(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "receipt", string(data))
	})

	t.Run("falls back to the order id without a name", func(t *testing.T) {
		path, err := store.Save("20250215-1100-43", []byte("receipt"), "", "txt")
		require.NoError(t, err)
		assert.Equal(t, "2025-02-15_1100__order_20250215-1100-43.txt", filepath.Base(path))
	})

	t.Run("strips unsafe filename characters", func(t *testing.T) {
		path, err := store.Save("20250215-1200-44", []byte("receipt"), `Ivan "/etc" Petrenko`, "txt")
		require.NoError(t, err)
		base := filepath.Base(path)
		assert.NotContains(t, base, `"`)
		assert.NotContains(t, base, "/")
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := store.Save("20250215-1300-45", nil, "", "txt")
		assert.Error(t, err)
	})
}

func TestFormatReceipt(t *testing.T) {
	now := time.Date(2025, 2, 15, 14, 30, 0, 0, time.UTC)
	text := FormatReceipt("20250215-1000-42", 1850, "Іван Петренко", "0671234567", now)

	for _, want := range []string{
		"=== TEST RECEIPT ===",
		"Order ID:   20250215-1000-42",
		"Customer:   Іван Петренко",
		"Phone:      +380671234567",
		"Amount:     1850 UAH",
		"PAID (test)",
	} {
		assert.True(t, strings.Contains(text, want), "receipt missing %q:\n%s", want, text)
	}
}

func TestFormatReceiptUnknownCustomer(t *testing.T) {
	text := FormatReceipt("20250215-1000-42", 100, "", "", time.Now())
	assert.Contains(t, text, "Customer:   —")
	assert.Contains(t, text, "Phone:      —")
}
