package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var ErrCategoryNotFound = errors.New("catalog: category not found")

// Laptop is one catalog entry.
type Laptop struct {
	Price float64 `json:"price"`
	Specs string  `json:"specs"`
}

// Repository stores the laptop catalog in a single JSON file, keyed by
// category then model. Every read loads the file so edits made outside the
// process are picked up on the next call.
type Repository struct {
	mu   sync.Mutex
	path string
}

// NewRepository opens the catalog at path, seeding it with the default
// inventory when the file does not exist yet.
func NewRepository(path string) (*Repository, error) {
	r := &Repository{path: path}
	if err := r.ensureSeeded(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureSeeded() error {
	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("catalog: stat %s: %w", r.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("catalog: create data dir: %w", err)
	}
	return r.write(seedCatalog())
}

func (r *Repository) read() (map[string]map[string]Laptop, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", r.path, err)
	}
	var catalog map[string]map[string]Laptop
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", r.path, err)
	}
	return catalog, nil
}

func (r *Repository) write(catalog map[string]map[string]Laptop) error {
	raw, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("catalog: replace %s: %w", r.path, err)
	}
	return nil
}

// Categories returns the category names, sorted.
func (r *Repository) Categories() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.read()
	if err != nil {
		return nil, err
	}
	cats := make([]string, 0, len(catalog))
	for name := range catalog {
		cats = append(cats, name)
	}
	sort.Strings(cats)
	return cats, nil
}

// LaptopsInCategory returns all models in one category. A missing category
// yields an empty map, not an error.
func (r *Repository) LaptopsInCategory(category string) (map[string]Laptop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.read()
	if err != nil {
		return nil, err
	}
	laptops, ok := catalog[category]
	if !ok {
		return map[string]Laptop{}, nil
	}
	return laptops, nil
}

// LaptopDetails finds a model across all categories.
func (r *Repository) LaptopDetails(model string) (Laptop, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.read()
	if err != nil {
		return Laptop{}, false, err
	}
	for _, laptops := range catalog {
		if details, ok := laptops[model]; ok {
			return details, true, nil
		}
	}
	return Laptop{}, false, nil
}

// UpdateLaptop upserts one model inside an existing category.
func (r *Repository) UpdateLaptop(category, model string, details Laptop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := catalog[category]; !ok {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	catalog[category][model] = details
	return r.write(catalog)
}

func seedCatalog() map[string]map[string]Laptop {
	return map[string]map[string]Laptop{
		"gaming": {
			"ROG Strix G15":  {Price: 1499.99, Specs: "AMD Ryzen 9, RTX 3070, 32GB RAM, 1TB SSD"},
			"Alienware m17":  {Price: 1999.99, Specs: "Intel i9, RTX 3080, 32GB RAM, 2TB SSD"},
			"Razer Blade 15": {Price: 1799.99, Specs: "Intel i7, RTX 3070, 16GB RAM, 1TB SSD"},
		},
		"business": {
			"ThinkPad X1 Carbon": {Price: 1399.99, Specs: "Intel i7, 16GB RAM, 512GB SSD"},
			"Dell XPS 13":        {Price: 1299.99, Specs: "Intel i5, 16GB RAM, 512GB SSD"},
			"HP Elite Dragonfly": {Price: 1599.99, Specs: "Intel i7, 32GB RAM, 1TB SSD"},
		},
		"budget": {
			"Acer Aspire 5":    {Price: 649.99, Specs: "AMD Ryzen 5, 8GB RAM, 256GB SSD"},
			"Lenovo IdeaPad 3": {Price: 549.99, Specs: "Intel i3, 8GB RAM, 256GB SSD"},
			"HP Pavilion":      {Price: 699.99, Specs: "AMD Ryzen 7, 16GB RAM, 512GB SSD"},
		},
	}
}
