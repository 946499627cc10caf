package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordID(t *testing.T) {
	a, b := NewRecordID(), NewRecordID()
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestQuoteNumber(t *testing.T) {
	at := time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "2000-0307-0905", QuoteNumber("2000", at))
}

func TestDocumentName(t *testing.T) {
	at := time.Date(2024, time.March, 7, 17, 45, 0, 0, time.UTC)
	tests := []struct {
		name                          string
		customer, brand, model, usage string
		want                          string
	}{
		{"full", "José Pérez", "Toyota", "Yaris", "Particular", "COTISOAT_Jose_Perez_Toyota_Yaris_Particular_070324_1745.pdf"},
		{"punctuation removed", "Ana M.", "Kia", "Rio 1.4", "Taxi", "COTISOAT_Ana_M_Kia_Rio_14_Taxi_070324_1745.pdf"},
		{"blank parts dropped", "", "Nissan", "", "Carga", "COTISOAT_Nissan_Carga_070324_1745.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocumentName(tt.customer, tt.brand, tt.model, tt.usage, at))
		})
	}
}
