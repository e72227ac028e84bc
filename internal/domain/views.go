package domain

import (
	"time"

	"catalogue/internal/view"
)

// Serialization groups.
const (
	GroupCategorieRead  view.Group = "categorie:read"
	GroupCategorieWrite view.Group = "categorie:write"
	GroupProduitRead    view.Group = "produit:read"
)

// DateTimeLayout is the wire format of dates: RFC 3339 with a numeric offset.
const DateTimeLayout = "2006-01-02T15:04:05-07:00"

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateTimeLayout)
}

// CategorieView lists the output properties of Categorie. Inside a
// produit the nested category is limited to id, libelle and imageUrl.
var CategorieView = view.Table[*Categorie]{
	{
		Name:   "id",
		Groups: []view.Group{GroupCategorieRead, GroupCategorieWrite, GroupProduitRead},
		Value:  func(c *Categorie) any { return c.id },
	},
	{
		Name:   "libelle",
		Groups: []view.Group{GroupCategorieRead, GroupCategorieWrite, GroupProduitRead},
		Value:  func(c *Categorie) any { return c.libelle },
	},
	{
		Name:   "imageUrl",
		Groups: []view.Group{GroupCategorieRead, GroupProduitRead},
		Value:  func(c *Categorie) any { return c.ImageURL() },
	},
}

var produitRead = []view.Group{GroupProduitRead}

// ProduitView lists the output properties of Produit.
var ProduitView = view.Table[*Produit]{
	{Name: "id", Groups: produitRead, Value: func(p *Produit) any { return p.id }},
	{Name: "libelle", Groups: produitRead, Value: func(p *Produit) any { return p.libelle }},
	{Name: "prix", Groups: produitRead, Value: func(p *Produit) any {
		if !p.prix.Valid {
			return nil
		}
		return p.PrixString()
	}},
	{Name: "dateCreation", Groups: produitRead, Value: func(p *Produit) any { return formatTime(&p.dateCreation) }},
	{Name: "description", Groups: produitRead, Value: func(p *Produit) any { return p.description }},
	{Name: "cru", Groups: produitRead, Value: func(p *Produit) any { return p.cru }},
	{Name: "cuit", Groups: produitRead, Value: func(p *Produit) any { return p.cuit }},
	{Name: "bio", Groups: produitRead, Value: func(p *Produit) any { return p.bio }},
	{Name: "debutDisponibilite", Groups: produitRead, Value: func(p *Produit) any { return formatTime(p.debutDisponibilite) }},
	{Name: "finDisponibilite", Groups: produitRead, Value: func(p *Produit) any { return formatTime(p.finDisponibilite) }},
	{Name: "categorie", Groups: produitRead, Value: func(p *Produit) any {
		if p.categorie == nil {
			return nil
		}
		return p.categorie
	}},
	{Name: "imageUrl", Groups: produitRead, Value: func(p *Produit) any { return p.ImageURL() }},
}

// Project renders c for group g.
func (c *Categorie) Project(g view.Group) *view.Object {
	return CategorieView.Project(c, g)
}

// Project renders p for group g.
func (p *Produit) Project(g view.Group) *view.Object {
	return ProduitView.Project(p, g)
}
