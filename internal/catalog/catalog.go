// Package catalog seeds the first-run content: the surah list and the store products.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/entities"
)

//go:embed seed.yaml
var seedYAML []byte

// Data is the first-run content.
type Data struct {
	Surahs   []entities.Surah
	Products []entities.Product
}

type seedFile struct {
	Surahs   []entities.Surah `yaml:"surahs"`
	Products []struct {
		entities.Product `yaml:",inline"`
		Price            string `yaml:"price"`
	} `yaml:"products"`
}

// DefaultSeed parses the embedded seed.
func DefaultSeed() (*Data, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed parses a YAML seed document.
func ParseSeed(data []byte) (*Data, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	seed := &Data{Surahs: file.Surahs}
	for _, p := range file.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for product %s: %w", p.Price, p.ID, err)
		}
		product := p.Product
		product.Price = price
		seed.Products = append(seed.Products, product)
	}
	return seed, nil
}

// Apply writes seed unless the system config says seeding already happened.
// It reports whether anything was written.
func Apply(ctx context.Context, client *api.Client, seed *Data) (bool, error) {
	existing, err := client.Get(ctx, entities.CollectionSystem, entities.SystemConfigRecordID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	log.Printf("Seeding first-run data: %d surahs, %d products", len(seed.Surahs), len(seed.Products))

	if err := put(ctx, client, entities.CollectionSystem, entities.SystemConfigRecordID,
		entities.SystemConfig{ID: entities.SystemConfigRecordID, Seeded: true}); err != nil {
		return false, err
	}
	for _, s := range seed.Surahs {
		if err := put(ctx, client, entities.CollectionQuran, s.ID, s); err != nil {
			return false, err
		}
	}
	for _, p := range seed.Products {
		if err := put(ctx, client, entities.CollectionProducts, p.ID, p); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Seed applies the embedded seed on first run.
func Seed(ctx context.Context, client *api.Client) (bool, error) {
	seed, err := DefaultSeed()
	if err != nil {
		return false, err
	}
	return Apply(ctx, client, seed)
}

func put(ctx context.Context, client *api.Client, collection, id string, v any) error {
	rec, err := api.Encode(v)
	if err != nil {
		return err
	}
	if _, err := client.Put(ctx, collection, id, rec); err != nil {
		return fmt.Errorf("failed to seed %s/%s: %w", collection, id, err)
	}
	return nil
}
