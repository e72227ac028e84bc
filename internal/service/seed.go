package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"catalogue/internal/domain"
	"catalogue/internal/repository"
	"catalogue/internal/storage"
	"catalogue/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML document loaded by the seeder.
type Seed struct {
	Categories []SeedCategorie `yaml:"categories"`
}

type SeedCategorie struct {
	Libelle  string        `yaml:"libelle"`
	Image    string        `yaml:"image"`
	Produits []SeedProduit `yaml:"produits"`
}

type SeedProduit struct {
	Libelle            string     `yaml:"libelle"`
	Prix               string     `yaml:"prix"`
	DateCreation       *time.Time `yaml:"dateCreation"`
	Description        *string    `yaml:"description"`
	Cru                *bool      `yaml:"cru"`
	Cuit               *bool      `yaml:"cuit"`
	Bio                *bool      `yaml:"bio"`
	DebutDisponibilite *time.Time `yaml:"debutDisponibilite"`
	FinDisponibilite   *time.Time `yaml:"finDisponibilite"`
	Image              string     `yaml:"image"`
}

// ParseSeed decodes a seed document.
func ParseSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// SeedReport counts the stored rows.
type SeedReport struct {
	Categories int
	Produits   int
	Images     int
}

// Seeder loads categories and produits in a single transaction.
type Seeder struct {
	store  repository.Store
	images ImageStore
	source afero.Fs
	logger *zap.Logger
	opts   options
}

// NewSeeder creates a Seeder. Image paths in the seed are read from source.
func NewSeeder(store repository.Store, images ImageStore, source afero.Fs, logger *zap.Logger, opts ...Option) *Seeder {
	return &Seeder{
		store:  store,
		images: images,
		source: source,
		logger: logger,
		opts:   collectOptions(opts),
	}
}

type committed struct {
	rec    storage.Uploadable
	stored *storage.Stored
}

// Seed validates every record first and writes nothing when any record is
// invalid. Images committed before a failed transaction are removed.
func (s *Seeder) Seed(ctx context.Context, seed *Seed) (SeedReport, error) {
	categories, violations := s.build(seed)
	if err := violations.Err(); err != nil {
		return SeedReport{}, err
	}

	var (
		report SeedReport
		files  []committed
	)
	commit := func(rec storage.Uploadable) error {
		stored, err := s.images.Commit(ctx, rec)
		if err != nil {
			return err
		}
		if stored != nil {
			files = append(files, committed{rec: rec, stored: stored})
			report.Images++
		}
		return nil
	}

	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		for _, categorie := range categories {
			if err := commit(categorie); err != nil {
				return err
			}
			if err := tx.Categories().Create(ctx, categorie); err != nil {
				return err
			}
			report.Categories++

			for _, produit := range categorie.Produits() {
				if err := commit(produit); err != nil {
					return err
				}
				if err := tx.Produits().Create(ctx, produit); err != nil {
					return err
				}
				report.Produits++
			}
		}
		return nil
	})
	if err != nil {
		for _, f := range files {
			s.images.Rollback(f.rec, f.stored)
		}
		return SeedReport{}, fmt.Errorf("failed to seed catalogue: %w", err)
	}

	s.logger.Info("Catalogue seeded",
		zap.Int("categories", report.Categories),
		zap.Int("produits", report.Produits),
		zap.Int("images", report.Images),
	)
	return report, nil
}

func (s *Seeder) build(seed *Seed) ([]*domain.Categorie, validation.Violations) {
	var (
		categories []*domain.Categorie
		violations validation.Violations
	)

	for i, sc := range seed.Categories {
		prefix := fmt.Sprintf("categories[%d].", i)

		categorie := domain.NewCategorie(sc.Libelle)
		categorie.SetClock(s.opts.clock)
		if sc.Image != "" {
			categorie.SetImageFile(s.stage(sc.Image))
		}
		violations = append(violations, prefixed(prefix, categorie.Validate())...)

		for j, sp := range sc.Produits {
			produitPrefix := fmt.Sprintf("%sproduits[%d].", prefix, j)
			produit, pv := s.buildProduit(sp)
			categorie.AddProduit(produit)
			violations = append(violations, prefixed(produitPrefix, pv)...)
			violations = append(violations, prefixed(produitPrefix, produit.Validate())...)
		}

		categories = append(categories, categorie)
	}

	return categories, violations
}

// buildProduit maps a seed entry onto a Produit. Violations returned here
// cover what the domain type cannot represent: unset flags and
// unparsable prices.
func (s *Seeder) buildProduit(sp SeedProduit) (*domain.Produit, validation.Violations) {
	var violations validation.Violations

	produit := domain.NewProduit(sp.Libelle)
	produit.SetClock(s.opts.clock)

	if sp.Prix != "" {
		prix, err := decimal.NewFromString(sp.Prix)
		if err != nil {
			violations = append(violations, validation.Violation{Field: "prix", Message: "Cette valeur doit être un nombre valide."})
		} else {
			produit.SetPrix(prix)
		}
	}
	if sp.DateCreation != nil {
		produit.SetDateCreation(*sp.DateCreation)
	}
	produit.SetDescription(sp.Description)

	for _, flag := range []struct {
		field string
		value *bool
		set   func(bool)
	}{
		{"cru", sp.Cru, produit.SetCru},
		{"cuit", sp.Cuit, produit.SetCuit},
		{"bio", sp.Bio, produit.SetBio},
	} {
		if flag.value == nil {
			violations = append(violations, validation.Violation{Field: flag.field, Message: "Cette valeur ne doit pas être nulle."})
			continue
		}
		flag.set(*flag.value)
	}

	produit.SetDebutDisponibilite(sp.DebutDisponibilite)
	produit.SetFinDisponibilite(sp.FinDisponibilite)
	if sp.Image != "" {
		produit.SetImageFile(s.stage(sp.Image))
	}

	return produit, violations
}

func (s *Seeder) stage(name string) *domain.StagedFile {
	return domain.NewStagedFile(path.Base(name), 0, func() (io.ReadCloser, error) {
		f, err := s.source.Open(name)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}

func prefixed(prefix string, v validation.Violations) validation.Violations {
	out := make(validation.Violations, 0, len(v))
	for _, violation := range v {
		out = append(out, validation.Violation{Field: prefix + violation.Field, Message: violation.Message})
	}
	return out
}
