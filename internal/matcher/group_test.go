package matcher

import (
	"testing"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
	"github.com/stretchr/testify/assert"
)

func groupRegistry(groups *tables.Table) *tables.Registry {
	return tables.NewRegistry(&tables.InsurerTables{Insurer: "Rimac", Groups: groups})
}

func TestGroupDetectorDetect(t *testing.T) {
	groups := tables.New("GRUPOS", []string{"Marca", "Modelos", "Clase", "Uso", "Grupo"}, [][]string{
		{"TOYOTA", "HILUX / RAV4", "CAMIONETA", "PARTICULAR", "3.0"},
		{"TOYOTA", "Hilux", "PICK UP", "TAXI, CARGA", "7"},
		{"TOYOTA", "YARIS", "AUTOMOVIL", "", "2"},
		{"TOYOTA", "YARIS", "AUTOMOVIL", "PARTICULAR", "9"},
		{"KIA", "TODOS", "", "PARTICULAR", "4"},
		{"HYUNDAI", "ACCENT", "AUTOMOVIL", "PARTICULAR", ""},
	})
	d := NewGroupDetector(newTestMatcher(), groupRegistry(groups))

	tests := []struct {
		name                        string
		brand, model, class, usage string
		want                        string
	}{
		{"list with slash and trailing .0", "toyota", "rav4", "camioneta", "PARTICULAR", "3"},
		{"first fitting row wins", "TOYOTA", "HILUX", "PICK UP", "TAXI", "7"},
		{"usage substring of user usage", "TOYOTA", "HILUX", "PICK UP", "CARGA PESADA", "7"},
		{"blank usage cell accepts any usage", "TOYOTA", "YARIS", "AUTOMOVIL", "TAXI", "2"},
		{"first match wins", "TOYOTA", "YARIS", "AUTOMOVIL", "PARTICULAR", "2"},
		{"TODOS models", "KIA", "PICANTO", "AUTOMOVIL", "PARTICULAR", "4"},
		{"class mismatch", "TOYOTA", "HILUX", "BUS", "PARTICULAR", "GENERAL"},
		{"unknown brand", "NISSAN", "SENTRA", "AUTOMOVIL", "PARTICULAR", "GENERAL"},
		{"blank group cell", "HYUNDAI", "ACCENT", "AUTOMOVIL", "PARTICULAR", "GENERAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect("Rimac", tt.brand, tt.model, tt.class, tt.usage))
		})
	}
}

func TestGroupDetectorDefaults(t *testing.T) {
	m := newTestMatcher()

	d := NewGroupDetector(m, tables.NewRegistry())
	assert.Equal(t, "GENERAL", d.Detect("Rimac", "TOYOTA", "HILUX", "CAMIONETA", "PARTICULAR"))

	noGroupCol := tables.New("GRUPOS", []string{"MARCA", "MODELO"}, [][]string{{"TOYOTA", "HILUX"}})
	d = NewGroupDetector(m, groupRegistry(noGroupCol))
	assert.Equal(t, "GENERAL", d.Detect("Rimac", "TOYOTA", "HILUX", "CAMIONETA", "PARTICULAR"))
}

func TestGroupDetectorDeterministic(t *testing.T) {
	groups := tables.New("GRUPOS", []string{"MARCA", "MODELO", "GRUPO"}, [][]string{
		{"KIA", "RIO", "1"},
		{"KIA", "RIO", "2"},
	})
	d := NewGroupDetector(newTestMatcher(), groupRegistry(groups))
	for i := 0; i < 5; i++ {
		assert.Equal(t, "1", d.Detect("Rimac", "KIA", "RIO", "AUTOMOVIL", "PARTICULAR"))
	}
}

func TestGroupCode(t *testing.T) {
	assert.Equal(t, "3", GroupCode("3.0", "GENERAL"))
	assert.Equal(t, "B", GroupCode(" b ", "GENERAL"))
	assert.Equal(t, "GENERAL", GroupCode("", "GENERAL"))
	assert.Equal(t, "12.5", GroupCode("12.5", "GENERAL"))
	assert.Equal(t, "GENERAL", normalizer.DefaultRules().DefaultGroup)
}
