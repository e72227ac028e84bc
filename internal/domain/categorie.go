package domain

import "time"

const (
	// CategorieImageMapping is the storage namespace for category images.
	CategorieImageMapping = "categories"
	// CategorieImagePrefix is the public path of category images.
	CategorieImagePrefix = "/images/" + CategorieImageMapping + "/"
)

// Categorie groups produits under a label.
type Categorie struct {
	attachment

	id       int64
	libelle  string
	produits []*Produit
}

// NewCategorie returns an unsaved category.
func NewCategorie(libelle string) *Categorie {
	return &Categorie{libelle: libelle}
}

// CategorieRow holds the persisted columns of a Categorie.
type CategorieRow struct {
	ID        int64
	Libelle   string
	ImageName *string
	ImageSize *int64
	UpdatedAt *time.Time
}

// LoadCategorie rebuilds a category from its stored columns.
func LoadCategorie(row CategorieRow) *Categorie {
	c := &Categorie{id: row.ID, libelle: row.Libelle}
	c.restore(row.ImageName, row.ImageSize, row.UpdatedAt)
	return c
}

// Row returns the persisted columns of c.
func (c *Categorie) Row() CategorieRow {
	return CategorieRow{
		ID:        c.id,
		Libelle:   c.libelle,
		ImageName: c.name,
		ImageSize: c.size,
		UpdatedAt: c.updatedAt,
	}
}

// ID is zero until the category has been stored.
func (c *Categorie) ID() int64 { return c.id }

// AssignID records the generated key. It has no effect once an id is set.
func (c *Categorie) AssignID(id int64) {
	if c.id == 0 {
		c.id = id
	}
}

func (c *Categorie) Libelle() string { return c.libelle }

func (c *Categorie) SetLibelle(libelle string) { c.libelle = libelle }

// ImageURL is nil when no image is attached.
func (c *Categorie) ImageURL() *string { return c.imageURL(CategorieImagePrefix) }

// ImageMapping names the storage namespace of c's image.
func (c *Categorie) ImageMapping() string { return CategorieImageMapping }

// Produits returns a copy of the loaded collection.
func (c *Categorie) Produits() []*Produit {
	return append([]*Produit(nil), c.produits...)
}

// HasProduit reports whether p is in the collection.
func (c *Categorie) HasProduit(p *Produit) bool {
	return c.indexOf(p) >= 0
}

// AddProduit puts p in the collection and points p at c.
func (c *Categorie) AddProduit(p *Produit) {
	if c.HasProduit(p) {
		return
	}
	c.produits = append(c.produits, p)
	p.SetCategorie(c)
}

// RemoveProduit takes p out of the collection. p's reference is cleared
// only while it still points at c.
func (c *Categorie) RemoveProduit(p *Produit) {
	if !c.detach(p) {
		return
	}
	if p.categorie == c {
		p.categorie = nil
	}
}

func (c *Categorie) indexOf(p *Produit) int {
	for i, candidate := range c.produits {
		if candidate == p {
			return i
		}
	}
	return -1
}

func (c *Categorie) attach(p *Produit) {
	if !c.HasProduit(p) {
		c.produits = append(c.produits, p)
	}
}

func (c *Categorie) detach(p *Produit) bool {
	i := c.indexOf(p)
	if i < 0 {
		return false
	}
	c.produits = append(c.produits[:i], c.produits[i+1:]...)
	return true
}
