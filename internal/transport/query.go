package transport

import (
	"net/url"
	"strconv"
	"strings"

	"catalogue/internal/middleware"
	"catalogue/internal/repository"
	"catalogue/internal/validation"
)

const (
	msgNotInteger    = "Cette valeur doit être un nombre entier."
	msgInvalidFilter = "Cette valeur n'est pas un identifiant de catégorie valide."
	msgTooManyValues = "Cette collection doit contenir 100 éléments ou moins."
)

// maxCategorieFilters bounds the categorie IN list.
const maxCategorieFilters = 100

// pageQuery holds the paging parameters shared by collections.
type pageQuery struct {
	Page int `query:"page" validate:"gte=1,lte=1000000"`
}

type categorieListQuery struct {
	Page  int    `query:"page" validate:"gte=1,lte=1000000"`
	Order string `query:"order[libelle]" validate:"omitempty,oneof=asc desc"`
}

// parsePage reads ?page, defaulting to the first page.
func parsePage(values url.Values) (pageQuery, validation.Violations) {
	q := pageQuery{Page: 1}
	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, validation.Violations{{Field: "page", Message: msgNotInteger}}
		}
		q.Page = n
	}
	return q, nil
}

func parseCategorieListQuery(values url.Values, perPage int) (repository.CategorieListOptions, validation.Violations) {
	page, violations := parsePage(values)
	if violations != nil {
		return repository.CategorieListOptions{}, violations
	}

	q := categorieListQuery{
		Page:  page.Page,
		Order: strings.ToLower(values.Get("order[libelle]")),
	}
	if err := middleware.ValidateRequest(&q); err != nil {
		return repository.CategorieListOptions{}, middleware.FormatValidationErrors(err)
	}

	order := repository.SortOrderAsc
	if q.Order == "desc" {
		order = repository.SortOrderDesc
	}
	return repository.CategorieListOptions{
		Order: order,
		Page:  repository.Page{Number: q.Page, Size: perPage},
	}, nil
}

// parseProduitFilter accepts categorie=3, categorie=/categories/3 and the
// repeated categorie[]= form.
func parseProduitFilter(values url.Values, perPage int) (repository.ProduitFilter, validation.Violations) {
	page, violations := parsePage(values)
	if violations != nil {
		return repository.ProduitFilter{}, violations
	}
	if err := middleware.ValidateRequest(&page); err != nil {
		return repository.ProduitFilter{}, middleware.FormatValidationErrors(err)
	}

	filter := repository.ProduitFilter{Page: repository.Page{Number: page.Page, Size: perPage}}
	raw := append(append([]string{}, values["categorie"]...), values["categorie[]"]...)
	if len(raw) > maxCategorieFilters {
		return repository.ProduitFilter{}, validation.Violations{{Field: "categorie", Message: msgTooManyValues}}
	}
	for _, value := range raw {
		id, ok := parseCategorieRef(value)
		if !ok {
			return repository.ProduitFilter{}, validation.Violations{{Field: "categorie", Message: msgInvalidFilter}}
		}
		filter.CategorieIDs = append(filter.CategorieIDs, id)
	}
	return filter, nil
}

// parseCategorieRef reads a categorie id or IRI.
func parseCategorieRef(value string) (int64, bool) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "/categories/")
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
