package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-2025-0001", FormatNumber(2025, 1))
	assert.Equal(t, "INV-2025-0012", FormatNumber(2025, 12))
	assert.Equal(t, "INV-2026-9999", FormatNumber(2026, 9999))
	assert.Equal(t, "INV-2026-10000", FormatNumber(2026, 10000))
}
