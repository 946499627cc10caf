package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"accents", "  Ámbito Público ", "AMBITO PUBLICO"},
		{"lowercase accents", "camión", "CAMION"},
		{"keeps enie", "compañía", "COMPAÑIA"},
		{"decomposed input", "Cusco\u0301", "CUSCO"},
		{"already normalized", "STATION WAGON", "STATION WAGON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"Pacífico", " la libertad ", "Madre de Dios", "MOTOCICLETA ELÉCTRICA", "P.V.P"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), s)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"HILUX", "RAV4", "YARIS"}, SplitList("HILUX, RAV4/YARIS", ListSeparators))
	assert.Equal(t, []string{"PARTICULAR"}, SplitList("PARTICULAR,", ListSeparators))
	assert.Empty(t, SplitList("", ListSeparators))
	assert.Equal(t, []string{"LIMA", "CALLAO", "ICA", "PISCO"}, SplitList("LIMA; CALLAO - ICA/PISCO", ZoneSeparators))
}

func TestIsGeneric(t *testing.T) {
	markers := []string{"TODOS", "GENERAL", "NAN", ""}
	assert.True(t, IsGeneric("todos", markers))
	assert.True(t, IsGeneric(" ", markers))
	assert.True(t, IsGeneric("nan", markers))
	assert.False(t, IsGeneric("AUTOMOVIL", markers))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "Jose_Nunez", Slug("  José Núñez "))
	assert.Equal(t, "KIA_PICANTO", Slug("KIA PICANTO!"))
	assert.Equal(t, "", Slug("  "))
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules()
	require.NoError(t, err)

	assert.Equal(t, []string{"Rimac", "La Positiva", "Pacífico", "Protecta", "Mapfre"}, rules.Insurers)
	assert.Equal(t, "GENERAL", rules.DefaultGroup)
	assert.Equal(t, 0.85, rules.Thresholds.Region)
	assert.Equal(t, 0.90, rules.Thresholds.Zone)
	assert.Contains(t, rules.Markers.Generic, "")
	assert.Equal(t, []string{"COMISION", "%"}, rules.Columns.Tariff.Commission)
	assert.Equal(t, []string{"ASEGURADORA", "COMPAÑIA"}, rules.Columns.Campaigns.Insurer)

	to, ok := rules.Synonym("CUSCO")
	assert.True(t, ok)
	assert.Equal(t, "CUZCO", to)
	to, ok = rules.Synonym("MADRE DE DIOS")
	assert.True(t, ok)
	assert.Equal(t, "M. DE DIOS", to)
	_, ok = rules.Synonym("LIMA")
	assert.False(t, ok)
}
