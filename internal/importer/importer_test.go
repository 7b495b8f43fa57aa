package importer

import (
	"context"
	"strings"
	"testing"

	"milsabores/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,description,price,image,category
TQ001,Torta Cuadrada de Chocolate,Con capas de ganache,$45.000,/assets/tq001.png,cuadradas
PG001,Brownie Sin Gluten,Rico y denso,4000,/assets/pg001.jpg,sin_gluten`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}

	if repo.items[0].ID != "TQ001" || repo.items[0].Price != 45000 || repo.items[0].Category != "cuadradas" {
		t.Fatalf("unexpected product data: %+v", repo.items[0])
	}
	if repo.items[1].Price != 4000 {
		t.Fatalf("expected plain integer price parsed, got %d", repo.items[1].Price)
	}
}

func TestCSVImporter_SkipsRowsWithoutID(t *testing.T) {
	csvData := `id,name,description,price,image,category
,No ID,desc,1000,,individuales
PI001,Mousse de Chocolate,desc,$5.000,,individuales`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 product imported, got %d", count)
	}
	if repo.items[0].ID != "PI001" {
		t.Fatalf("unexpected product: %+v", repo.items[0])
	}
}

func TestCSVImporter_RejectsMissingCategory(t *testing.T) {
	csvData := `id,name,description,price,image,category
PI001,Mousse de Chocolate,desc,$5.000,,`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for row without category")
	}
}
