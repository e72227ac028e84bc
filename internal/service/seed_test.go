package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"catalogue/internal/storage"
	"catalogue/internal/validation"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validSeed = `
categories:
  - libelle: Fruits
    image: img/fruits.png
    produits:
      - libelle: Pomme
        prix: "1.50"
        dateCreation: 2024-05-01T10:00:00Z
        description: Pomme croquante du verger
        cru: true
        cuit: false
        bio: true
        debutDisponibilite: 2024-09-01
        finDisponibilite: 2024-12-31
      - libelle: Poire
        prix: "2.10"
        dateCreation: 2024-05-01T10:00:00Z
        description: Poire williams bien juteuse
        cru: true
        cuit: true
        bio: false
        image: img/poire.png
  - libelle: Légumes
`

type seedFixture struct {
	store    *mockStore
	uploader *storage.Uploader
	seeder   *Seeder
}

func newSeedFixture(t *testing.T) *seedFixture {
	t.Helper()
	source := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(source, "img/fruits.png", pngBytes, 0o644))
	require.NoError(t, afero.WriteFile(source, "img/poire.png", pngBytes, 0o644))

	store := newMockStore()
	uploader := storage.NewUploader(afero.NewMemMapFs(), "images", zap.NewNop()).
		WithNamer(func(original string, _ []byte) string { return "stored-" + original })

	return &seedFixture{
		store:    store,
		uploader: uploader,
		seeder:   NewSeeder(store, uploader, source, zap.NewNop(), WithClock(func() time.Time { return fixedNow })),
	}
}

func parse(t *testing.T, doc string) *Seed {
	t.Helper()
	seed, err := ParseSeed(strings.NewReader(doc))
	require.NoError(t, err)
	return seed
}

func TestParseSeed_RejectsUnknownFields(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("categories:\n  - libelle: Fruits\n    couleur: rouge\n"))
	assert.Error(t, err)
}

func TestSeeder_Seed(t *testing.T) {
	f := newSeedFixture(t)

	report, err := f.seeder.Seed(context.Background(), parse(t, validSeed))
	require.NoError(t, err)

	assert.Equal(t, SeedReport{Categories: 2, Produits: 2, Images: 2}, report)
	assert.Len(t, f.store.categories, 2)
	assert.Len(t, f.store.produits, 2)

	for _, row := range f.store.produits {
		assert.Equal(t, "Fruits", f.store.categories[row.CategorieID].Libelle)
	}

	ok, err := f.uploader.Exists("categories", "stored-fruits.png")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.uploader.Exists("produits", "stored-poire.png")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeeder_InvalidRecordsWriteNothing(t *testing.T) {
	f := newSeedFixture(t)
	doc := `
categories:
  - libelle: Fruits
    image: img/fruits.png
    produits:
      - libelle: Po
        prix: douze
        dateCreation: 2024-05-01T10:00:00Z
        description: trop court
        cuit: false
        bio: false
`

	_, err := f.seeder.Seed(context.Background(), parse(t, doc))

	violations, ok := validation.AsViolations(err)
	require.True(t, ok)
	for _, field := range []string{
		"categories[0].produits[0].libelle",
		"categories[0].produits[0].prix",
		"categories[0].produits[0].description",
		"categories[0].produits[0].cru",
	} {
		_, found := violations.Field(field)
		assert.True(t, found, field)
	}

	assert.Empty(t, f.store.categories)
	exists, err := f.uploader.Exists("categories", "stored-fruits.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSeeder_FailedTransactionRemovesImages(t *testing.T) {
	f := newSeedFixture(t)
	doc := `
categories:
  - libelle: Fruits
    image: img/fruits.png
    produits:
      - libelle: Refusé
        prix: "3.00"
        dateCreation: 2024-05-01T10:00:00Z
        description: Produit refusé par le stockage
        cru: false
        cuit: false
        bio: false
`

	_, err := f.seeder.Seed(context.Background(), parse(t, doc))
	assert.ErrorIs(t, err, errProduitRejected)

	assert.Empty(t, f.store.categories)
	assert.Empty(t, f.store.produits)
	exists, err := f.uploader.Exists("categories", "stored-fruits.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSeeder_MissingImageFails(t *testing.T) {
	f := newSeedFixture(t)
	doc := "categories:\n  - libelle: Fruits\n    image: img/absent.png\n"

	_, err := f.seeder.Seed(context.Background(), parse(t, doc))

	assert.ErrorIs(t, err, storage.ErrStorage)
	assert.Empty(t, f.store.categories)
}
