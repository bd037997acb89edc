package modelstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/domain/recommend"
	"github.com/jhoicas/cafecraft/internal/infrastructure/modelstore"
)

func TestFileStore_SinArchivo(t *testing.T) {
	s := modelstore.NewFileStore(filepath.Join(t.TempDir(), "models", "recommender.json"))
	m, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestFileStore_GuardarYCargar(t *testing.T) {
	ctx := context.Background()
	s := modelstore.NewFileStore(filepath.Join(t.TempDir(), "models", "recommender.json"))
	baskets := [][]string{{"Latte", "Croissant"}, {"Latte", "Croissant"}, {"Latte"}, {"Americano", "Muffin"}}
	trained := recommend.Train(baskets, 0.05, 0.3, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	require.NoError(t, s.Save(ctx, trained))
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, trained.TrainedAt, loaded.TrainedAt)
	assert.Equal(t, trained.Stats(), loaded.Stats())
	assert.Equal(t, trained.Recommend([]string{"Latte"}, 3), loaded.Recommend([]string{"Latte"}, 3))
}

func TestFileStore_ArchivoCorrupto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommender.json")
	require.NoError(t, os.WriteFile(path, []byte("{no json"), 0o644))
	_, err := modelstore.NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}
