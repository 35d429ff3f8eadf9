package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/repository/mariadb"
	imageService "github.com/fhuszti/stored-images-ms-go/internal/usecase/image"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
	"github.com/fhuszti/stored-images-ms-go/test/testutil"
)

func TestImageRepository_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewImageRepository(testutil.MigratedDB(t))

	img := testutil.NewCandidate("m1", "org1", "u1")
	img.AltText = testutil.Ptr("A sunset")
	img.MayoImageWidth = testutil.Ptr(640)
	img.Tags = model.Tags{"Beach", " sky "}
	if err := repo.Insert(ctx, img); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.ImageStatusActive || got.UsageCount != 1 {
		t.Errorf("status/usage = %s/%d; want active/1", got.Status, got.UsageCount)
	}
	if got.AltText == nil || *got.AltText != "A sunset" {
		t.Errorf("alt text = %v", got.AltText)
	}
	if got.MayoImageWidth == nil || *got.MayoImageWidth != 640 {
		t.Errorf("width = %v", got.MayoImageWidth)
	}
	if got.Title != nil || got.ContentType != nil || got.FileSize != nil {
		t.Errorf("optional fields should be NULL, got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "Beach" || got.Tags[1] != " sky " {
		t.Errorf("tags = %q; want [Beach, sky] as given", got.Tags)
	}
	if !got.InsertedAt.Equal(img.InsertedAt) || !got.LastUsed.Equal(img.InsertedAt) {
		t.Errorf("timestamps = %v/%v; want %v", got.InsertedAt, got.LastUsed, img.InsertedAt)
	}

	if _, err := repo.GetByID(ctx, uuid.NewUUID()); !errors.Is(err, imageService.ErrNotFound) {
		t.Errorf("GetByID(unknown id) error = %v; want ErrNotFound", err)
	}
}

func TestImageRepository_OneActiveRecordPerPair(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewImageRepository(testutil.MigratedDB(t))

	first := testutil.NewCandidate("m1", "org1", "u1")
	if err := repo.Insert(ctx, first); err != nil {
		t.Fatalf("Insert first: %v", err)
	}

	dup := testutil.NewCandidate("m1", "org1", "u2")
	if err := repo.Insert(ctx, dup); !errors.Is(err, imageService.ErrDuplicateActive) {
		t.Fatalf("Insert duplicate error = %v; want ErrDuplicateActive", err)
	}

	// same Mayo image in another org unit is a separate record
	if err := repo.Insert(ctx, testutil.NewCandidate("m1", "org2", "u1")); err != nil {
		t.Fatalf("Insert other org unit: %v", err)
	}

	if err := repo.MarkDeleted(ctx, first.ID); err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}
	if _, err := repo.FindActiveByExternalID(ctx, "m1", "org1"); !errors.Is(err, imageService.ErrNotFound) {
		t.Fatalf("FindActiveByExternalID after delete error = %v; want ErrNotFound", err)
	}

	// once deleted, the pair can be stored again
	again := testutil.NewCandidate("m1", "org1", "u3")
	if err := repo.Insert(ctx, again); err != nil {
		t.Fatalf("Insert after delete: %v", err)
	}
	found, err := repo.FindActiveByExternalID(ctx, "m1", "org1")
	if err != nil {
		t.Fatalf("FindActiveByExternalID: %v", err)
	}
	if found.ID != again.ID {
		t.Errorf("found #%s; want #%s", found.ID, again.ID)
	}

	// a second deleted row for the same pair is allowed
	if err := repo.MarkDeleted(ctx, again.ID); err != nil {
		t.Fatalf("MarkDeleted again: %v", err)
	}
}

func TestImageRepository_ListScoping(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewImageRepository(testutil.MigratedDB(t))

	var ids []string
	for i, c := range []struct{ mayo, org, user string }{
		{"m1", "org1", "u1"},
		{"m2", "org1", "u2"},
		{"m3", "org1", "u1"},
		{"m4", "org2", "u1"},
	} {
		img := testutil.NewCandidate(c.mayo, c.org, c.user)
		if err := repo.Insert(ctx, img); err != nil {
			t.Fatalf("Insert #%d: %v", i, err)
		}
		ids = append(ids, img.ID.String())
		time.Sleep(2 * time.Millisecond)
	}
	deleted := testutil.NewCandidate("m5", "org1", "u1")
	if err := repo.Insert(ctx, deleted); err != nil {
		t.Fatalf("Insert deleted: %v", err)
	}
	if err := repo.MarkDeleted(ctx, deleted.ID); err != nil {
		t.Fatalf("MarkDeleted: %v", err)
	}

	all, err := repo.ListByOrgUnit(ctx, "org1", 50)
	if err != nil {
		t.Fatalf("ListByOrgUnit: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("org1 has %d active images; want 3", len(all))
	}
	// newest first
	if all[0].ID.String() != ids[2] || all[2].ID.String() != ids[0] {
		t.Errorf("unexpected order: %s, %s, %s", all[0].MayoImageID, all[1].MayoImageID, all[2].MayoImageID)
	}

	limited, err := repo.ListByOrgUnit(ctx, "org1", 2)
	if err != nil {
		t.Fatalf("ListByOrgUnit limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d", len(limited))
	}

	mine, err := repo.ListByUserAndOrgUnit(ctx, "u1", "org1", 50)
	if err != nil {
		t.Fatalf("ListByUserAndOrgUnit: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("u1 in org1 has %d images; want 2", len(mine))
	}
	for _, img := range mine {
		if img.InsertedBy != "u1" || img.D2LOrgUnitID != "org1" {
			t.Errorf("leaked record %+v", img)
		}
	}

	empty, err := repo.ListByOrgUnit(ctx, "nope", 50)
	if err != nil {
		t.Fatalf("ListByOrgUnit empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("unknown org unit = %v; want empty slice", empty)
	}
}

func TestImageRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewImageRepository(testutil.MigratedDB(t))

	ocean := testutil.NewCandidate("m1", "org1", "u1")
	ocean.MayoImageTitle = "Ocean Waves"
	forest := testutil.NewCandidate("m2", "org1", "u1")
	forest.MayoImageTitle = "Forest"
	forest.AltText = testutil.Ptr("Tall trees, 100% green")
	tagged := testutil.NewCandidate("m3", "org1", "u1")
	tagged.MayoImageTitle = "Untitled"
	tagged.Tags = model.Tags{"Marine", "blue"}
	otherOrg := testutil.NewCandidate("m4", "org2", "u1")
	otherOrg.MayoImageTitle = "Ocean elsewhere"

	for _, img := range []*model.StoredImage{ocean, forest, tagged, otherOrg} {
		if err := repo.Insert(ctx, img); err != nil {
			t.Fatalf("Insert %s: %v", img.MayoImageID, err)
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"ocean", []string{"m1"}},
		{"OCEAN", []string{"m1"}},
		{"trees", []string{"m2"}},
		{"100%", []string{"m2"}},
		{"%", []string{"m2"}},
		{"_", []string{}},
		{"marine", []string{"m3"}},
		{"ari", []string{"m3"}},
		{"nothing", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got, err := repo.Search(ctx, tc.query, "org1", 50)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Search(%q) returned %d records; want %d", tc.query, len(got), len(tc.want))
			}
			for i, img := range got {
				if img.MayoImageID != tc.want[i] {
					t.Errorf("result %d = %s; want %s", i, img.MayoImageID, tc.want[i])
				}
			}
		})
	}
}

func TestImageRepository_UpdateAndProbe(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewImageRepository(testutil.MigratedDB(t))

	img := testutil.NewCandidate("m1", "org1", "u1")
	img.AltText = testutil.Ptr("old alt")
	img.MayoImageWidth = testutil.Ptr(300)
	if err := repo.Insert(ctx, img); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	tags := model.Tags{"Alpha"}
	updated, err := repo.Update(ctx, img.ID, model.ImagePatch{
		AltText:      testutil.Ptr(""),
		Title:        testutil.Ptr("New title"),
		IsDecorative: testutil.Ptr(true),
		Tags:         &tags,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.AltText != nil {
		t.Errorf("alt text = %q; want NULL", *updated.AltText)
	}
	if updated.Title == nil || *updated.Title != "New title" || !updated.IsDecorative {
		t.Errorf("update not applied: %+v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "Alpha" {
		t.Errorf("tags = %v", updated.Tags)
	}
	if updated.UpdatedAt.Before(img.UpdatedAt) {
		t.Errorf("updated_at went backwards")
	}

	if err := repo.SetProbedMetadata(ctx, img.ID, model.ProbedMetadata{
		ContentType: "image/png", FileSize: 1234, Width: 800, Height: 600,
	}); err != nil {
		t.Fatalf("SetProbedMetadata: %v", err)
	}
	probed, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if probed.ContentType == nil || *probed.ContentType != "image/png" || probed.FileSize == nil || *probed.FileSize != 1234 {
		t.Errorf("probed type/size = %v/%v", probed.ContentType, probed.FileSize)
	}
	if *probed.MayoImageWidth != 300 {
		t.Errorf("width = %d; want the client-provided 300 kept", *probed.MayoImageWidth)
	}
	if probed.MayoImageHeight == nil || *probed.MayoImageHeight != 600 {
		t.Errorf("height = %v; want 600", probed.MayoImageHeight)
	}
}
