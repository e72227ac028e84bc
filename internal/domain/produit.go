package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ProduitImageMapping is the storage namespace for product images.
	ProduitImageMapping = "produits"
	// ProduitImagePrefix is the public path of product images.
	ProduitImagePrefix = "/images/" + ProduitImageMapping + "/"

	// PrixScale matches the DECIMAL(7,2) column.
	PrixScale = 2
)

// Produit is a sellable item. It belongs to exactly one Categorie once
// stored.
type Produit struct {
	attachment

	id                 int64
	libelle            string
	prix               decimal.NullDecimal
	dateCreation       time.Time
	description        *string
	cru                bool
	cuit               bool
	bio                bool
	debutDisponibilite *time.Time
	finDisponibilite   *time.Time
	categorie          *Categorie
}

// NewProduit returns an unsaved product.
func NewProduit(libelle string) *Produit {
	return &Produit{libelle: libelle}
}

// ProduitRow holds the persisted columns of a Produit.
type ProduitRow struct {
	ID                 int64
	Libelle            string
	Prix               decimal.Decimal
	DateCreation       time.Time
	Description        *string
	Cru                bool
	Cuit               bool
	Bio                bool
	DebutDisponibilite *time.Time
	FinDisponibilite   *time.Time
	CategorieID        int64
	ImageName          *string
	ImageSize          *int64
	UpdatedAt          *time.Time
}

// LoadProduit rebuilds a product from its stored columns. The categorie
// reference is left for the caller to resolve from CategorieID.
func LoadProduit(row ProduitRow) *Produit {
	p := &Produit{
		id:                 row.ID,
		libelle:            row.Libelle,
		prix:               decimal.NewNullDecimal(row.Prix),
		dateCreation:       row.DateCreation,
		description:        row.Description,
		cru:                row.Cru,
		cuit:               row.Cuit,
		bio:                row.Bio,
		debutDisponibilite: row.DebutDisponibilite,
		finDisponibilite:   row.FinDisponibilite,
	}
	p.restore(row.ImageName, row.ImageSize, row.UpdatedAt)
	return p
}

// Row returns the persisted columns of p.
func (p *Produit) Row() ProduitRow {
	row := ProduitRow{
		ID:                 p.id,
		Libelle:            p.libelle,
		Prix:               p.prix.Decimal,
		DateCreation:       p.dateCreation,
		Description:        p.description,
		Cru:                p.cru,
		Cuit:               p.cuit,
		Bio:                p.bio,
		DebutDisponibilite: p.debutDisponibilite,
		FinDisponibilite:   p.finDisponibilite,
		ImageName:          p.name,
		ImageSize:          p.size,
		UpdatedAt:          p.updatedAt,
	}
	if p.categorie != nil {
		row.CategorieID = p.categorie.id
	}
	return row
}

func (p *Produit) ID() int64 { return p.id }

// AssignID records the generated key. It has no effect once an id is set.
func (p *Produit) AssignID(id int64) {
	if p.id == 0 {
		p.id = id
	}
}

func (p *Produit) Libelle() string { return p.libelle }

func (p *Produit) SetLibelle(libelle string) { p.libelle = libelle }

// Prix reports the price and whether one is set.
func (p *Produit) Prix() (decimal.Decimal, bool) { return p.prix.Decimal, p.prix.Valid }

// PrixString renders the price with the column scale, or "" when unset.
func (p *Produit) PrixString() string {
	if !p.prix.Valid {
		return ""
	}
	return p.prix.Decimal.StringFixed(PrixScale)
}

// SetPrix stores prix rounded to the column scale.
func (p *Produit) SetPrix(prix decimal.Decimal) {
	p.prix = decimal.NewNullDecimal(prix.Round(PrixScale))
}

func (p *Produit) DateCreation() time.Time { return p.dateCreation }

func (p *Produit) SetDateCreation(t time.Time) { p.dateCreation = t }

func (p *Produit) Description() *string { return p.description }

func (p *Produit) SetDescription(description *string) { p.description = description }

func (p *Produit) Cru() bool { return p.cru }

func (p *Produit) SetCru(cru bool) { p.cru = cru }

func (p *Produit) Cuit() bool { return p.cuit }

func (p *Produit) SetCuit(cuit bool) { p.cuit = cuit }

func (p *Produit) Bio() bool { return p.bio }

func (p *Produit) SetBio(bio bool) { p.bio = bio }

func (p *Produit) DebutDisponibilite() *time.Time { return p.debutDisponibilite }

// SetDebutDisponibilite keeps only the calendar date of t.
func (p *Produit) SetDebutDisponibilite(t *time.Time) { p.debutDisponibilite = dateOnly(t) }

func (p *Produit) FinDisponibilite() *time.Time { return p.finDisponibilite }

// SetFinDisponibilite keeps only the calendar date of t.
func (p *Produit) SetFinDisponibilite(t *time.Time) { p.finDisponibilite = dateOnly(t) }

func (p *Produit) Categorie() *Categorie { return p.categorie }

// SetCategorie moves p to c, updating both collections.
func (p *Produit) SetCategorie(c *Categorie) {
	if p.categorie == c {
		return
	}
	old := p.categorie
	p.categorie = c
	if old != nil {
		old.detach(p)
	}
	if c != nil {
		c.attach(p)
	}
}

// ImageURL is nil when no image is attached.
func (p *Produit) ImageURL() *string { return p.imageURL(ProduitImagePrefix) }

// ImageMapping names the storage namespace of p's image.
func (p *Produit) ImageMapping() string { return ProduitImageMapping }

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return &d
}
