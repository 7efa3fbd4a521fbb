package domain

import "fmt"

// FormatNumber renders an invoice number, e.g. INV-2025-0007. The sequence is
// zero-padded to four digits and keeps growing past 9999 without truncation.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%04d-%04d", year, seq)
}
