package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/soat-quoter/internal/normalizer"
)

// NewRecordID returns a random UUID v4 string.
func NewRecordID() string {
	return uuid.NewString()
}

// QuoteNumber formats a human quote number: <prefix>-MMDD-HHMM.
func QuoteNumber(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, t.Format("0102-1504"))
}

// DocumentName is the file name of the rendered quote document.
// Empty parts are dropped.
func DocumentName(customer, brand, model, usage string, t time.Time) string {
	parts := []string{"COTISOAT"}
	for _, p := range []string{customer, brand, model, usage} {
		if s := normalizer.Slug(p); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, t.Format("020106_1504"))
	return strings.Join(parts, "_") + ".pdf"
}
