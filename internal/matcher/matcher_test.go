package matcher

import (
	"testing"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/stretchr/testify/assert"
)

func newTestMatcher() *Matcher {
	return New(normalizer.DefaultRules())
}

func TestClassMatches(t *testing.T) {
	m := newTestMatcher()
	tests := []struct {
		name  string
		table string
		user  string
		want  bool
	}{
		{"equal after normalization", "AUTOMOVIL", "automóvil", true},
		{"generic TODOS", "TODOS", "CAMIONETA RURAL", true},
		{"generic blank", "", "BUS", true},
		{"generic NAN", "nan", "BUS", true},
		{"pick up", "CAMIONETA PICK UP 4X4", "PICK UP", true},
		{"pick up hyphen", "PICK-UP", "PICK UP", true},
		{"pick up miss", "AUTOMOVIL", "PICK UP", false},
		{"camion vs camioneta", "CAMIONETA", "CAMION", false},
		{"camion row with both", "CAMIONES Y CAMIONETAS", "CAMION", false},
		{"camion", "CAMION / REMOLCADOR", "CAMION", true},
		{"station wagon abbreviation", "AUTO/SW", "STATION WAGON", true},
		{"station wagon substring", "STATION WAGON FAMILIAR", "STATION WAGON", true},
		{"motocicleta exact", "MOTOCICLETA", "MOTOCICLETA", true},
		{"motocicleta never trimoto", "TRIMOTO", "MOTOCICLETA", false},
		{"motocicleta no substring", "MOTOCICLETA LINEAL", "MOTOCICLETA", false},
		{"electric", "MOTO ELECTRICA", "MOTOCICLETA ELECTRICA", true},
		{"quad", "CUATRIMOTOS", "CUATRIMOTO", true},
		{"trimoto", "TRIMOTO CARGA", "TRIMOTO", true},
		{"unknown moto exact", "MOTONETA", "MOTONETA", true},
		{"unknown moto substring", "MOTONETA URBANA", "MOTONETA", false},
		{"substring fallback", "AUTOMOVIL, STATION WAGON", "AUTOMOVIL", true},
		{"no match", "BUS", "MICROBUS", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ClassMatches(tt.table, tt.user))
		})
	}
}

func TestSeatsMatch(t *testing.T) {
	m := newTestMatcher()
	tests := []struct {
		table string
		seats int
		want  bool
	}{
		{"5", 5, true},
		{"5", 4, false},
		{"TODOS", 9, true},
		{"", 3, true},
		{"4-7", 5, true},
		{"4-7", 4, true},
		{"4-7", 7, true},
		{"4-7", 8, false},
		{"4 - 7", 4, true},
		{"A-B", 5, false},
		{"1-2-3", 2, false},
		{"HASTA 5", 5, true},
		{"HASTA 5", 6, false},
		{"hasta 5 asientos", 3, true},
		{"HASTA-5", 3, true},
		{"HASTA", 3, false},
		{"MAS DE 5", 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.want, m.SeatsMatch(tt.table, tt.seats))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("LIMA", "LIMA"))
	assert.InDelta(t, 0.8, Ratio("CUSCO", "CUZCO"), 1e-9)
	assert.InDelta(t, 0.0, Ratio("ABC", "XYZ"), 1e-9)
	assert.InDelta(t, 8.0/9.0, Ratio("MOQUEGUA", "MOQUEGUA."), 1e-9)
}

func TestClosestMatch(t *testing.T) {
	col, ok := ClosestMatch("LIMA", []string{"USO", "CLASE", "LIMA", "ICA"}, 0.85)
	assert.True(t, ok)
	assert.Equal(t, "LIMA", col)

	_, ok = ClosestMatch("CUSCO", []string{"CUZCO", "LIMA"}, 0.85)
	assert.False(t, ok, "CUSCO and CUZCO are only 0.8 similar")

	col, ok = ClosestMatch("PUNO", []string{"1PUNO", "PUNO1"}, 0.8)
	assert.True(t, ok)
	assert.Equal(t, "PUNO1", col, "equal ratios settle on Jaro-Winkler")

	col, ok = ClosestMatch("PUNO", []string{"PUNOX", "PUNOY"}, 0.8)
	assert.True(t, ok)
	assert.Equal(t, "PUNOX", col, "full ties keep candidate order")

	_, ok = ClosestMatch("PUNO", nil, 0.5)
	assert.False(t, ok)
}
