package recommend

import (
	"encoding/json"
	"fmt"
	"time"
)

// Model modelo persistido: ambos recomendadores y metadatos del entrenamiento.
type Model struct {
	Version      int           `json:"version"`
	TrainedAt    time.Time     `json:"trained_at"`
	Baskets      int           `json:"baskets"`
	Apriori      *Apriori      `json:"apriori"`
	Cooccurrence *Cooccurrence `json:"cooccurrence"`
}

// ModelVersion versión actual del formato JSON.
const ModelVersion = 1

// Train entrena ambos recomendadores sobre las cestas.
func Train(baskets [][]string, minSupport, minConfidence float64, now time.Time) *Model {
	return &Model{
		Version:      ModelVersion,
		TrainedAt:    now.UTC(),
		Baskets:      len(baskets),
		Apriori:      TrainApriori(baskets, minSupport, minConfidence),
		Cooccurrence: TrainCooccurrence(baskets),
	}
}

// Recommend combina reglas de asociación y, si no bastan, co-ocurrencia del último producto de la cesta.
func (m *Model) Recommend(basket []string, topK int) []Recommendation {
	if topK <= 0 {
		topK = DefaultTopK
	}
	out := m.Apriori.Recommend(basket, topK)
	if len(out) >= topK || m.Cooccurrence == nil {
		return out
	}
	seen := map[string]bool{}
	for _, b := range basket {
		seen[b] = true
	}
	for _, r := range out {
		seen[r.Item] = true
	}
	for i := len(basket) - 1; i >= 0 && len(out) < topK; i-- {
		for _, r := range m.Cooccurrence.Recommend(basket[i], topK) {
			if seen[r.Item] {
				continue
			}
			seen[r.Item] = true
			out = append(out, r)
			if len(out) == topK {
				break
			}
		}
	}
	return out
}

// Stats resumen del modelo.
type Stats struct {
	TrainedAt     time.Time `json:"trained_at"`
	Baskets       int       `json:"baskets"`
	Itemsets      int       `json:"itemsets"`
	Rules         int       `json:"rules"`
	MinSupport    float64   `json:"min_support"`
	MinConfidence float64   `json:"min_confidence"`
}

// Stats devuelve el resumen del modelo.
func (m *Model) Stats() Stats {
	return Stats{
		TrainedAt:     m.TrainedAt,
		Baskets:       m.Baskets,
		Itemsets:      len(m.Apriori.Itemsets),
		Rules:         len(m.Apriori.Rules),
		MinSupport:    m.Apriori.MinSupport,
		MinConfidence: m.Apriori.MinConfidence,
	}
}

// Marshal serializa el modelo a JSON indentado.
func (m *Model) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Unmarshal reconstruye un modelo desde JSON.
func Unmarshal(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("recommend: modelo inválido: %w", err)
	}
	if m.Apriori == nil {
		return nil, fmt.Errorf("recommend: modelo sin reglas de asociación")
	}
	if m.Version > ModelVersion {
		return nil, fmt.Errorf("recommend: versión de modelo %d no soportada", m.Version)
	}
	m.Apriori.index()
	if m.Cooccurrence == nil {
		m.Cooccurrence = TrainCooccurrence(nil)
	}
	return &m, nil
}
