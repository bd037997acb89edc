package recommend

// Cooccurrence recomendador ligero por frecuencia de pares.
type Cooccurrence struct {
	Pairs     map[string]map[string]int `json:"pairs"`
	Frequency map[string]int            `json:"frequency"`
	Total     int                       `json:"total"`
}

// TrainCooccurrence cuenta pares sobre cestas con al menos dos productos distintos.
func TrainCooccurrence(baskets [][]string) *Cooccurrence {
	c := &Cooccurrence{Pairs: map[string]map[string]int{}, Frequency: map[string]int{}}
	for _, b := range baskets {
		items := unique(b)
		if len(items) < 2 {
			continue
		}
		c.Total++
		for _, it := range items {
			c.Frequency[it]++
		}
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				c.inc(items[i], items[j])
				c.inc(items[j], items[i])
			}
		}
	}
	return c
}

func (c *Cooccurrence) inc(a, b string) {
	m, ok := c.Pairs[a]
	if !ok {
		m = map[string]int{}
		c.Pairs[a] = m
	}
	m[b]++
}

// Recommend productos que aparecen junto a base: confianza = pares/frecuencia(base),
// soporte = pares/total de cestas.
func (c *Cooccurrence) Recommend(base string, topK int) []Recommendation {
	if topK <= 0 {
		topK = DefaultTopK
	}
	pairs, ok := c.Pairs[base]
	if !ok {
		return []Recommendation{}
	}
	freq := c.Frequency[base]
	if freq == 0 {
		freq = 1
	}
	total := c.Total
	if total == 0 {
		total = 1
	}
	out := make([]Recommendation, 0, len(pairs))
	for it, n := range pairs {
		out = append(out, Recommendation{
			Item:       it,
			Confidence: float64(n) / float64(freq),
			Support:    float64(n) / float64(total),
		})
	}
	sortRecommendations(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// PairCount pares distintos observados.
func (c *Cooccurrence) PairCount() int {
	n := 0
	for _, m := range c.Pairs {
		n += len(m)
	}
	return n / 2
}
