package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_CategorieImageURLFollowsImageName(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("imageUrl is the categories prefix plus imageName", prop.ForAll(
		func(name string) bool {
			c := NewCategorie("Fruits")
			c.SetImageName(&name)
			url := c.ImageURL()
			return url != nil && *url == "/images/categories/"+name
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCategorie_ImageURLAbsentWithoutName(t *testing.T) {
	c := NewCategorie("Fruits")
	assert.Nil(t, c.ImageURL())

	name := "pomme.png"
	c.SetImageName(&name)
	c.SetImageName(nil)
	assert.Nil(t, c.ImageURL())
}

func TestProperty_CategorieLibelleLength(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("libelle is accepted iff 3 <= len <= 50", prop.ForAll(
		func(n int) bool {
			c := NewCategorie(strings.Repeat("é", n))
			_, rejected := c.Validate().Field("libelle")
			return rejected == (n < CategorieLibelleMin || n > CategorieLibelleMax)
		},
		gen.IntRange(0, 80),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCategorie_LibelleMessages(t *testing.T) {
	cases := []struct {
		libelle string
		message string
	}{
		{"", "Le libellé est obligatoire"},
		{"ab", "Le libellé doit comporter au moins 3 caractères"},
		{strings.Repeat("a", 51), "Le libellé ne peut pas dépasser 50 caractères"},
	}

	for _, tc := range cases {
		v := NewCategorie(tc.libelle).Validate()
		require.Len(t, v, 1, "libelle %q", tc.libelle)
		assert.Equal(t, "libelle", v[0].Field)
		assert.Equal(t, tc.message, v[0].Message)
	}

	assert.Empty(t, NewCategorie("abc").Validate())
	assert.Empty(t, NewCategorie(strings.Repeat("a", 50)).Validate())
}

func TestCategorie_AddProduitSetsOwner(t *testing.T) {
	c := NewCategorie("Fruits")
	p := NewProduit("Pomme")

	c.AddProduit(p)
	c.AddProduit(p)

	assert.Same(t, c, p.Categorie())
	assert.Equal(t, []*Produit{p}, c.Produits())
}

func TestCategorie_RemoveProduitClearsOwner(t *testing.T) {
	c := NewCategorie("Fruits")
	p := NewProduit("Pomme")
	c.AddProduit(p)

	c.RemoveProduit(p)

	assert.Nil(t, p.Categorie())
	assert.False(t, c.HasProduit(p))
}

func TestCategorie_RemoveProduitKeepsReassignment(t *testing.T) {
	fruits := LoadCategorie(CategorieRow{ID: 1, Libelle: "Fruits"})
	legumes := LoadCategorie(CategorieRow{ID: 2, Libelle: "Légumes"})
	p := NewProduit("Tomate")

	// A stale collection still lists p after p moved elsewhere.
	fruits.produits = append(fruits.produits, p)
	p.categorie = legumes
	legumes.produits = append(legumes.produits, p)

	fruits.RemoveProduit(p)

	assert.Same(t, legumes, p.Categorie())
	assert.False(t, fruits.HasProduit(p))
	assert.True(t, legumes.HasProduit(p))
}

func TestProduit_SetCategorieMovesBetweenCollections(t *testing.T) {
	fruits := NewCategorie("Fruits")
	legumes := NewCategorie("Légumes")
	p := NewProduit("Tomate")

	fruits.AddProduit(p)
	p.SetCategorie(legumes)

	assert.Same(t, legumes, p.Categorie())
	assert.False(t, fruits.HasProduit(p))
	assert.True(t, legumes.HasProduit(p))

	// Removing from the old collection is a no-op now.
	fruits.RemoveProduit(p)
	assert.Same(t, legumes, p.Categorie())

	p.SetCategorie(nil)
	assert.Empty(t, legumes.Produits())
}

func TestCategorie_StagingStampsUpdatedAt(t *testing.T) {
	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	tick := base
	c := NewCategorie("Fruits")
	c.SetClock(func() time.Time { return tick })

	assert.Nil(t, c.UpdatedAt())

	c.SetImageFile(StagedBytes("pomme.png", []byte("png")))
	require.NotNil(t, c.UpdatedAt())
	assert.Equal(t, base, *c.UpdatedAt())

	tick = base.Add(time.Second)
	c.SetImageFile(StagedBytes("poire.png", []byte("png")))
	assert.True(t, c.UpdatedAt().After(base))

	// Staging nothing leaves the stamp alone.
	tick = base.Add(time.Hour)
	c.SetImageFile(nil)
	assert.Nil(t, c.ImageFile())
	assert.Equal(t, base.Add(time.Second), *c.UpdatedAt())
}

func TestLoadCategorie_RoundTripsRow(t *testing.T) {
	name := "pomme.png"
	size := int64(42)
	at := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	row := CategorieRow{ID: 9, Libelle: "Fruits", ImageName: &name, ImageSize: &size, UpdatedAt: &at}

	c := LoadCategorie(row)

	assert.Equal(t, row, c.Row())
	c.AssignID(10)
	assert.Equal(t, int64(9), c.ID())
}
