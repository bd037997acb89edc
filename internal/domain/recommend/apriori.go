// Package recommend implementa los recomendadores de productos a partir de cestas de pedidos:
// reglas de asociación (Apriori) y co-ocurrencia de pares.
package recommend

import (
	"sort"
	"strings"
)

// Valores por defecto de entrenamiento.
const (
	DefaultMinSupport    = 0.05
	DefaultMinConfidence = 0.3
	DefaultTopK          = 3
)

// Itemset conjunto frecuente con su soporte.
type Itemset struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`
}

// Rule regla de asociación antecedente → consecuente.
type Rule struct {
	Antecedent []string `json:"antecedent"`
	Consequent []string `json:"consequent"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

// Recommendation producto sugerido con su puntuación.
type Recommendation struct {
	Item       string  `json:"item"`
	Confidence float64 `json:"confidence"`
	Support    float64 `json:"support"`
}

// Apriori modelo de reglas de asociación.
type Apriori struct {
	MinSupport    float64   `json:"min_support"`
	MinConfidence float64   `json:"min_confidence"`
	Transactions  int       `json:"transactions"`
	Itemsets      []Itemset `json:"itemsets"`
	Rules         []Rule    `json:"rules"`

	support map[string]float64
}

// TrainApriori calcula conjuntos frecuentes y reglas. Las cestas vacías se ignoran
// y los productos repetidos dentro de una cesta cuentan una vez.
func TrainApriori(baskets [][]string, minSupport, minConfidence float64) *Apriori {
	if minSupport <= 0 {
		minSupport = DefaultMinSupport
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	m := &Apriori{MinSupport: minSupport, MinConfidence: minConfidence}

	sets := make([]map[string]bool, 0, len(baskets))
	for _, b := range baskets {
		u := unique(b)
		if len(u) == 0 {
			continue
		}
		s := make(map[string]bool, len(u))
		for _, it := range u {
			s[it] = true
		}
		sets = append(sets, s)
	}
	m.Transactions = len(sets)
	if m.Transactions == 0 {
		m.index()
		return m
	}
	total := float64(m.Transactions)

	counts := map[string]int{}
	for _, s := range sets {
		for it := range s {
			counts[it]++
		}
	}
	var current [][]string
	for it, c := range counts {
		if sup := float64(c) / total; sup >= minSupport {
			current = append(current, []string{it})
			m.Itemsets = append(m.Itemsets, Itemset{Items: []string{it}, Support: sup})
		}
	}
	sortSets(current)

	// Crece mientras haya al menos dos conjuntos frecuentes del tamaño anterior.
	for k := 2; len(current) > 1; k++ {
		candidates := generateCandidates(current, k)
		var next [][]string
		for _, cand := range candidates {
			n := 0
			for _, s := range sets {
				if containsAll(s, cand) {
					n++
				}
			}
			if sup := float64(n) / total; sup >= minSupport {
				next = append(next, cand)
				m.Itemsets = append(m.Itemsets, Itemset{Items: cand, Support: sup})
			}
		}
		current = next
	}

	sort.Slice(m.Itemsets, func(i, j int) bool {
		a, b := m.Itemsets[i], m.Itemsets[j]
		if len(a.Items) != len(b.Items) {
			return len(a.Items) < len(b.Items)
		}
		return key(a.Items) < key(b.Items)
	})
	m.index()
	m.generateRules()
	return m
}

func (m *Apriori) index() {
	m.support = make(map[string]float64, len(m.Itemsets))
	for _, is := range m.Itemsets {
		m.support[key(is.Items)] = is.Support
	}
}

func (m *Apriori) generateRules() {
	m.Rules = nil
	for _, is := range m.Itemsets {
		if len(is.Items) < 2 {
			continue
		}
		for _, ante := range properSubsets(is.Items) {
			anteSup := m.support[key(ante)]
			if anteSup <= 0 {
				continue
			}
			conf := is.Support / anteSup
			if conf < m.MinConfidence {
				continue
			}
			cons := difference(is.Items, ante)
			lift := 0.0
			if consSup := m.support[key(cons)]; consSup > 0 {
				lift = conf / consSup
			}
			m.Rules = append(m.Rules, Rule{Antecedent: ante, Consequent: cons, Support: is.Support, Confidence: conf, Lift: lift})
		}
	}
	sort.SliceStable(m.Rules, func(i, j int) bool {
		if m.Rules[i].Confidence != m.Rules[j].Confidence {
			return m.Rules[i].Confidence > m.Rules[j].Confidence
		}
		return key(m.Rules[i].Antecedent)+"→"+key(m.Rules[i].Consequent) < key(m.Rules[j].Antecedent)+"→"+key(m.Rules[j].Consequent)
	})
}

// Support soporte de un producto individual (0 si no es frecuente).
func (m *Apriori) Support(item string) float64 {
	if m.support == nil {
		m.index()
	}
	return m.support[item]
}

// Recommend consecuentes de reglas cuyo antecedente está contenido en la cesta,
// excluyendo productos ya presentes; puntuación = confianza máxima.
func (m *Apriori) Recommend(basket []string, topK int) []Recommendation {
	if topK <= 0 {
		topK = DefaultTopK
	}
	in := make(map[string]bool, len(basket))
	for _, b := range basket {
		in[b] = true
	}
	scores := map[string]float64{}
	for _, r := range m.Rules {
		if !containsAll(in, r.Antecedent) {
			continue
		}
		for _, c := range r.Consequent {
			if in[c] {
				continue
			}
			if r.Confidence > scores[c] {
				scores[c] = r.Confidence
			}
		}
	}
	out := make([]Recommendation, 0, len(scores))
	for it, conf := range scores {
		out = append(out, Recommendation{Item: it, Confidence: conf, Support: m.Support(it)})
	}
	sortRecommendations(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

func key(items []string) string { return strings.Join(items, "\x1f") }

func sortSets(sets [][]string) {
	sort.Slice(sets, func(i, j int) bool { return key(sets[i]) < key(sets[j]) })
}

// generateCandidates une pares de (k-1)-conjuntos que difieren en un elemento.
func generateCandidates(prev [][]string, k int) [][]string {
	seen := map[string]bool{}
	var out [][]string
	for i := 0; i < len(prev); i++ {
		for j := i + 1; j < len(prev); j++ {
			u := unique(append(append([]string{}, prev[i]...), prev[j]...))
			if len(u) != k {
				continue
			}
			if kk := key(u); !seen[kk] {
				seen[kk] = true
				out = append(out, u)
			}
		}
	}
	sortSets(out)
	return out
}

func containsAll(set map[string]bool, items []string) bool {
	for _, it := range items {
		if !set[it] {
			return false
		}
	}
	return true
}

// properSubsets subconjuntos no vacíos y propios, ordenados.
func properSubsets(items []string) [][]string {
	n := len(items)
	var out [][]string
	for mask := 1; mask < (1<<n)-1; mask++ {
		var s []string
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				s = append(s, items[i])
			}
		}
		out = append(out, s)
	}
	return out
}

func difference(all, sub []string) []string {
	skip := make(map[string]bool, len(sub))
	for _, s := range sub {
		skip[s] = true
	}
	var out []string
	for _, a := range all {
		if !skip[a] {
			out = append(out, a)
		}
	}
	return out
}

func sortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].Item < recs[j].Item
	})
}
