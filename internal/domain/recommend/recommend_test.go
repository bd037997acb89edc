package recommend_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/domain/recommend"
)

func baskets() [][]string {
	return [][]string{
		{"Latte", "Croissant"},
		{"Latte", "Croissant", "Muffin"},
		{"Latte", "Muffin", "Latte"},
		{"Espresso"},
		{"Latte", "Croissant"},
		{},
	}
}

func TestTrainApriori_ConjuntosFrecuentes(t *testing.T) {
	m := recommend.TrainApriori(baskets(), 0.3, 0.5)

	assert.Equal(t, 5, m.Transactions)
	assert.InDelta(t, 0.8, m.Support("Latte"), 1e-9)
	assert.InDelta(t, 0.6, m.Support("Croissant"), 1e-9)
	assert.InDelta(t, 0.4, m.Support("Muffin"), 1e-9)
	assert.Zero(t, m.Support("Espresso"))

	var pairs int
	for _, is := range m.Itemsets {
		assert.LessOrEqual(t, len(is.Items), 2)
		if len(is.Items) == 2 {
			pairs++
		}
	}
	assert.Equal(t, 2, pairs)
	assert.Len(t, m.Rules, 4)
}

func TestTrainApriori_ConjuntosSinLimiteDeTamano(t *testing.T) {
	combo := []string{"Americano", "Bagel", "Cookie", "Donut", "Espresso"}
	m := recommend.TrainApriori([][]string{combo, combo, {"Americano"}}, 0.5, 0.5)

	var largest []string
	for _, is := range m.Itemsets {
		if len(is.Items) > len(largest) {
			largest = is.Items
		}
	}
	assert.Equal(t, combo, largest)
	assert.Len(t, m.Itemsets, 31)
}

func TestTrainApriori_ReglasConLift(t *testing.T) {
	m := recommend.TrainApriori(baskets(), 0.3, 0.5)
	require.NotEmpty(t, m.Rules)

	var found bool
	for _, r := range m.Rules {
		if r.Antecedent[0] == "Croissant" && r.Consequent[0] == "Latte" {
			found = true
			assert.InDelta(t, 1.0, r.Confidence, 1e-9)
			assert.InDelta(t, 1.25, r.Lift, 1e-9)
			assert.InDelta(t, 0.6, r.Support, 1e-9)
		}
	}
	assert.True(t, found)
	// ordenadas por confianza descendente
	for i := 1; i < len(m.Rules); i++ {
		assert.GreaterOrEqual(t, m.Rules[i-1].Confidence, m.Rules[i].Confidence)
	}
}

func TestApriori_RecommendExcluyeCesta(t *testing.T) {
	m := recommend.TrainApriori(baskets(), 0.3, 0.5)

	recs := m.Recommend([]string{"Latte"}, 3)
	require.Len(t, recs, 2)
	assert.Equal(t, "Croissant", recs[0].Item)
	assert.InDelta(t, 0.75, recs[0].Confidence, 1e-9)
	assert.Equal(t, "Muffin", recs[1].Item)

	recs = m.Recommend([]string{"Latte", "Croissant"}, 3)
	require.Len(t, recs, 1)
	assert.Equal(t, "Muffin", recs[0].Item)

	assert.Empty(t, m.Recommend([]string{"Té"}, 3))
}

func TestApriori_RecommendTopK(t *testing.T) {
	m := recommend.TrainApriori(baskets(), 0.3, 0.5)
	assert.Len(t, m.Recommend([]string{"Latte"}, 1), 1)
}

func TestTrainApriori_SinCestas(t *testing.T) {
	m := recommend.TrainApriori(nil, 0, 0)
	assert.Equal(t, recommend.DefaultMinSupport, m.MinSupport)
	assert.Equal(t, recommend.DefaultMinConfidence, m.MinConfidence)
	assert.Empty(t, m.Rules)
	assert.Empty(t, m.Recommend([]string{"Latte"}, 3))
}

func TestCooccurrence_Recommend(t *testing.T) {
	c := recommend.TrainCooccurrence(baskets())
	assert.Equal(t, 4, c.Total)

	recs := c.Recommend("Croissant", 5)
	require.Len(t, recs, 2)
	assert.Equal(t, "Latte", recs[0].Item)
	assert.InDelta(t, 1.0, recs[0].Confidence, 1e-9)
	assert.InDelta(t, 0.75, recs[0].Support, 1e-9)
	assert.Equal(t, "Muffin", recs[1].Item)
	assert.InDelta(t, 1.0/3.0, recs[1].Confidence, 1e-9)

	assert.Empty(t, c.Recommend("Espresso", 5))
}

func TestModel_MarshalUnmarshal(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := recommend.Train(baskets(), 0.3, 0.5, now)

	data, err := m.Marshal()
	require.NoError(t, err)

	back, err := recommend.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, m.Stats(), back.Stats())
	assert.Equal(t, m.Recommend([]string{"Latte"}, 3), back.Recommend([]string{"Latte"}, 3))
	assert.InDelta(t, 0.8, back.Apriori.Support("Latte"), 1e-9)
}

func TestUnmarshal_Invalido(t *testing.T) {
	_, err := recommend.Unmarshal([]byte("{"))
	assert.Error(t, err)
	_, err = recommend.Unmarshal([]byte(`{"version":1}`))
	assert.Error(t, err)
}

func TestModel_RecommendCompletaConCoocurrencia(t *testing.T) {
	m := recommend.Train(baskets(), 0.3, 0.9, time.Now())
	// Con confianza 0.9 solo quedan Croissant→Latte y Muffin→Latte.
	recs := m.Recommend([]string{"Muffin"}, 3)
	require.Len(t, recs, 2)
	assert.Equal(t, "Latte", recs[0].Item)
	assert.Equal(t, "Croissant", recs[1].Item)
}
