// Package catalog loads and holds the immutable product list.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kailas-cloud/matcher/internal/domain"
)

// Store holds the product catalog for the process lifetime. It is read-only
// after Load, so it is safe for concurrent use without locking.
type Store struct {
	products []domain.Product
}

// Load reads the catalog file and validates it. A missing or malformed file
// is a startup failure: the service has no meaningful behavior without a
// catalog, so callers are expected to treat any error here as fatal.
func Load(path string, minProducts int) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if err := validate(products, minProducts); err != nil {
		return nil, fmt.Errorf("validate catalog %s: %w", path, err)
	}

	return &Store{products: products}, nil
}

// validate enforces the catalog contract independent of the request path:
// minimum size, required fields on every record, unique identifiers.
func validate(products []domain.Product, minProducts int) error {
	if len(products) < minProducts {
		return fmt.Errorf("expected at least %d products, got %d", minProducts, len(products))
	}

	seen := make(map[int]struct{}, len(products))
	for i, p := range products {
		switch {
		case p.Name == "":
			return fmt.Errorf("product %d: missing name", i)
		case p.Category == "":
			return fmt.Errorf("product %d: missing category", i)
		case p.ImageURL == "":
			return fmt.Errorf("product %d: missing image_url", i)
		case p.Description == "":
			return fmt.Errorf("product %d: missing description", i)
		case p.Price <= 0:
			return fmt.Errorf("product %d: missing or non-positive price", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("product %d: duplicate id %d", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// All returns the full product list in catalog order. The slice is shared;
// callers must not modify it.
func (s *Store) All() []domain.Product {
	return s.products
}

// Count returns the number of products.
func (s *Store) Count() int {
	return len(s.products)
}

// ByCategory returns products whose category equals name, case-insensitively.
func (s *Store) ByCategory(name string) []domain.Product {
	filtered := make([]domain.Product, 0)
	for _, p := range s.products {
		if strings.EqualFold(p.Category, name) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Categories returns the unique category names, sorted alphabetically.
func (s *Store) Categories() []string {
	set := make(map[string]struct{})
	for _, p := range s.products {
		set[p.Category] = struct{}{}
	}
	categories := make([]string, 0, len(set))
	for c := range set {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
