package product

import (
	"errors"
	"sync"
	"testing"
)

// Stock must never go negative no matter how many decrements race: the
// check and the write are one operation under the store's lock.
func TestDecrementStock_ConcurrentNeverNegative(t *testing.T) {
	repo := NewInMemoryRepository([]Product{{ID: 1, Name: "Banana", Stock: 5, Available: true}})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.DecrementStock(1, 1, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Fatalf("expected exactly 5 decrements to succeed, got %d", succeeded)
	}
	p, _ := repo.GetByID(1)
	if p.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", p.Stock)
	}
}

func TestDecrementStock_Insufficient(t *testing.T) {
	repo := NewInMemoryRepository([]Product{{ID: 1, Name: "Banana", Stock: 2, Available: true}})

	if err := repo.DecrementStock(1, 3, ""); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	p, _ := repo.GetByID(1)
	if p.Stock != 2 {
		t.Fatalf("failed decrement must not change stock, got %d", p.Stock)
	}
}

func TestListByIDs_PreservesOrderAndSkipsMissing(t *testing.T) {
	repo := NewInMemoryRepository([]Product{
		{ID: 1, Name: "Banana"},
		{ID: 2, Name: "Mango"},
	})

	out, err := repo.ListByIDs([]int{2, 99, 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Name != "Mango" || out[1].Name != "Banana" {
		t.Fatalf("unexpected result %+v", out)
	}
}
