package repositories_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/app/repositories"
)

func TestMemoryAppendAndFind(t *testing.T) {
	repo := repositories.NewMemoryOrderRepository()

	order := models.Order{
		ID:        "abc-123",
		Number:    "ORD-BG-20260901-120000",
		Name:      "Иван",
		Total:     9.99,
		Method:    "cod",
		Status:    models.StatusAwaitingShipment,
		CreatedAt: time.Now(),
	}
	if err := repo.Append(order); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := repo.FindByID("abc-123")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Number != order.Number {
		t.Errorf("got number %q, want %q", got.Number, order.Number)
	}
}

func TestMemoryFindMissing(t *testing.T) {
	repo := repositories.NewMemoryOrderRepository()

	_, err := repo.FindByID("missing")
	if !errors.Is(err, repositories.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestMemoryListPreservesInsertionOrder(t *testing.T) {
	repo := repositories.NewMemoryOrderRepository()

	for i := 0; i < 5; i++ {
		_ = repo.Append(models.Order{ID: fmt.Sprintf("o%d", i)})
	}

	orders, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(orders) != 5 {
		t.Fatalf("expected 5 orders, got %d", len(orders))
	}
	for i, o := range orders {
		if want := fmt.Sprintf("o%d", i); o.ID != want {
			t.Errorf("position %d: got %q, want %q", i, o.ID, want)
		}
	}
}

func TestMemoryConcurrentAppend(t *testing.T) {
	repo := repositories.NewMemoryOrderRepository()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = repo.Append(models.Order{ID: fmt.Sprintf("c%d", i)})
		}(i)
	}
	wg.Wait()

	orders, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(orders) != n {
		t.Errorf("expected %d orders, got %d", n, len(orders))
	}
}

func TestCatalogFind(t *testing.T) {
	catalog := repositories.NewCatalogRepository()

	if got := len(catalog.All()); got != 3 {
		t.Fatalf("expected 3 products, got %d", got)
	}

	p, ok := catalog.Find("p1")
	if !ok {
		t.Fatal("expected p1 to exist")
	}
	if p.Title != "Магнит — Рила" || p.Price != 9.99 {
		t.Errorf("unexpected product: %+v", p)
	}

	if _, ok := catalog.Find("p99"); ok {
		t.Error("expected p99 to be missing")
	}
}
