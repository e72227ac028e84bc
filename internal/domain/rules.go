package domain

import (
	"strconv"

	"catalogue/internal/validation"
)

// Constraint messages are part of the public API contract.
const (
	msgLibelleRequired     = "Le libellé est obligatoire"
	msgLibelleMin          = "Le libellé doit comporter au moins " + validation.LimitPlaceholder + " caractères"
	msgLibelleMax          = "Le libellé ne peut pas dépasser " + validation.LimitPlaceholder + " caractères"
	msgPrixRequired        = "Le prix est obligatoire"
	msgPrixRange           = "Cette valeur doit être comprise entre 0.1 et 999."
	msgDescriptionRequired = "La description est obligatoire"
	msgDescriptionMin      = "La description doit comporter au moins " + validation.LimitPlaceholder + " caractères"
	msgDescriptionMax      = "La description ne peut pas dépasser " + validation.LimitPlaceholder + " caractères"
	msgNotNull             = "Cette valeur ne doit pas être nulle."
	msgGreaterOrEqual      = "Cette valeur doit être supérieure ou égale à " + validation.LimitPlaceholder + "."
)

// Length bounds of the libelle columns.
const (
	CategorieLibelleMin = 3
	CategorieLibelleMax = 50
	ProduitLibelleMin   = 3
	ProduitLibelleMax   = 40
)

// DateLayout renders calendar dates in messages.
const DateLayout = "2006-01-02"

func lengthTags(min, max int) string {
	return "required,min=" + strconv.Itoa(min) + ",max=" + strconv.Itoa(max)
}

func libelleMessages() map[string]string {
	return map[string]string{
		"required": msgLibelleRequired,
		"min":      msgLibelleMin,
		"max":      msgLibelleMax,
	}
}

// CategorieRules is the constraint table of Categorie.
var CategorieRules = validation.Rules[*Categorie]{
	{
		Field:    "libelle",
		Tags:     lengthTags(CategorieLibelleMin, CategorieLibelleMax),
		Value:    func(c *Categorie) any { return c.libelle },
		Messages: libelleMessages(),
	},
}

// ProduitRules is the constraint table of Produit.
var ProduitRules = validation.Rules[*Produit]{
	{
		Field:    "libelle",
		Tags:     lengthTags(ProduitLibelleMin, ProduitLibelleMax),
		Value:    func(p *Produit) any { return p.libelle },
		Messages: libelleMessages(),
	},
	{
		Field: "prix",
		Tags:  "required,decimal_gt=0.1,decimal_lt=999",
		Value: func(p *Produit) any { return p.PrixString() },
		Messages: map[string]string{
			"required":   msgPrixRequired,
			"decimal_gt": msgPrixRange,
			"decimal_lt": msgPrixRange,
		},
	},
	{
		Field:    "dateCreation",
		Tags:     "required",
		Value:    func(p *Produit) any { return p.dateCreation },
		Messages: map[string]string{"required": msgNotNull},
	},
	{
		Field: "description",
		Tags:  lengthTags(15, 255),
		Value: func(p *Produit) any {
			if p.description == nil {
				return ""
			}
			return *p.description
		},
		Messages: map[string]string{
			"required": msgDescriptionRequired,
			"min":      msgDescriptionMin,
			"max":      msgDescriptionMax,
		},
	},
	{
		Field: "finDisponibilite",
		Tags:  "gtefield",
		Value: func(p *Produit) any { return *p.finDisponibilite },
		Other: func(p *Produit) any { return *p.debutDisponibilite },
		Skip: func(p *Produit) bool {
			return p.debutDisponibilite == nil || p.finDisponibilite == nil
		},
		Limit:    func(p *Produit) string { return p.debutDisponibilite.Format(DateLayout) },
		Messages: map[string]string{"gtefield": msgGreaterOrEqual},
	},
	{
		Field:    "categorie",
		Tags:     "required",
		Value:    func(p *Produit) any { return p.categorie != nil },
		Messages: map[string]string{"required": msgNotNull},
	},
}

// Validate checks c against CategorieRules.
func (c *Categorie) Validate() validation.Violations {
	return CategorieRules.Validate(c)
}

// Validate checks p against ProduitRules.
func (p *Produit) Validate() validation.Violations {
	return ProduitRules.Validate(p)
}
