package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/stored-images-ms-go/internal/task"
	imageService "github.com/fhuszti/stored-images-ms-go/internal/usecase/image"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
	"github.com/fhuszti/stored-images-ms-go/test/testutil"
)

func TestIncrementUsage_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewImageRepository(testutil.MigratedDB(t))

	img := testutil.NewCandidate("m1", "org1", "u1")
	if err := repo.Insert(ctx, img); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementUsage(ctx, img.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("IncrementUsage: %v", err)
	}

	got, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UsageCount != workers+1 {
		t.Errorf("usage count = %d; want %d", got.UsageCount, workers+1)
	}
}

func TestIncrementUsage_SkipsDeleted(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewImageRepository(testutil.MigratedDB(t))

	img := testutil.NewCandidate("m1", "org1", "u1")
	if err := repo.Insert(ctx, img); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.MarkDeleted(ctx, img.ID); err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}

	if _, err := repo.IncrementUsage(ctx, img.ID); !errors.Is(err, imageService.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a deleted image, got %v", err)
	}

	got, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UsageCount != 1 || got.Status != "deleted" {
		t.Errorf("got usage %d status %q; want 1 and deleted", got.UsageCount, got.Status)
	}
}

func TestResolveOrCreate_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	db := testutil.MigratedDB(t)
	repo := mariadb.NewImageRepository(db)
	svc := imageService.NewImageResolver(repo, task.NewNoopDispatcher(), uuid.NewUUID)

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, res, err := svc.ResolveOrCreate(ctx, testutil.NewCandidate("m1", "org1", "u1"))
			if err != nil {
				errs <- err
				return
			}
			if res == port.ResolutionCreated {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("ResolveOrCreate: %v", err)
	}

	if created != 1 {
		t.Errorf("created %d records; want exactly 1", created)
	}

	var active, usage int
	if err := db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(usage_count), 0) FROM stored_images WHERE mayo_image_id = 'm1' AND d2l_org_unit_id = 'org1' AND status = 'active'`,
	).Scan(&active, &usage); err != nil {
		t.Fatalf("count: %v", err)
	}
	if active != 1 {
		t.Errorf("active records = %d; want 1", active)
	}
	if usage != workers {
		t.Errorf("usage count = %d; want %d", usage, workers)
	}
}

func TestAggregateUsage(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewImageRepository(testutil.MigratedDB(t))

	empty, err := repo.AggregateUsage(ctx, "org1")
	if err != nil {
		t.Fatalf("AggregateUsage empty: %v", err)
	}
	if empty.Summary.TotalImages != 0 || empty.Summary.TotalUsage != 0 || empty.Summary.AvgUsage != 0 {
		t.Errorf("empty summary = %+v", empty.Summary)
	}
	if empty.Summary.MostRecentInsert != nil || empty.Summary.OldestInsert != nil {
		t.Errorf("empty summary dates should be nil: %+v", empty.Summary)
	}
	if empty.TopImages == nil || len(empty.TopImages) != 0 {
		t.Errorf("empty top images = %v", empty.TopImages)
	}

	usages := map[string]int{"m1": 1, "m2": 3, "m3": 5}
	for mayo, n := range usages {
		img := testutil.NewCandidate(mayo, "org1", "u1")
		if err := repo.Insert(ctx, img); err != nil {
			t.Fatalf("Insert %s: %v", mayo, err)
		}
		for i := 1; i < n; i++ {
			if _, err := repo.IncrementUsage(ctx, img.ID); err != nil {
				t.Fatalf("IncrementUsage: %v", err)
			}
		}
	}
	gone := testutil.NewCandidate("m4", "org1", "u1")
	if err := repo.Insert(ctx, gone); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.MarkDeleted(ctx, gone.ID); err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}

	stats, err := repo.AggregateUsage(ctx, "org1")
	if err != nil {
		t.Fatalf("AggregateUsage: %v", err)
	}
	if stats.Summary.TotalImages != 3 || stats.Summary.TotalUsage != 9 || stats.Summary.AvgUsage != 3 {
		t.Errorf("summary = %+v; want 3 images, 9 uses, avg 3", stats.Summary)
	}
	if stats.Summary.MostRecentInsert == nil || stats.Summary.OldestInsert == nil {
		t.Fatalf("summary dates missing: %+v", stats.Summary)
	}
	if stats.Summary.OldestInsert.After(*stats.Summary.MostRecentInsert) {
		t.Errorf("oldest %v after most recent %v", stats.Summary.OldestInsert, stats.Summary.MostRecentInsert)
	}
	if len(stats.TopImages) != 3 {
		t.Fatalf("top images = %d; want 3", len(stats.TopImages))
	}
	for i, want := range []int{5, 3, 1} {
		if stats.TopImages[i].UsageCount != want {
			t.Errorf("top[%d].usageCount = %d; want %d", i, stats.TopImages[i].UsageCount, want)
		}
	}
}
