package journal_test

import (
	"context"
	"testing"

	"shoebox/internal/journal"
	"shoebox/internal/testsupport"
)

func TestRecordAndFetch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	item, err := store.Record(ctx, &journal.Item{
		BatchID:    "batch-1",
		Operation:  journal.OpOrganize,
		SourcePath: "/incoming/IMG_1234.jpg",
		DestPath:   "/photos/2021/07 July/IMG_1234.jpg",
		Status:     journal.StatusOrganized,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.SourcePath != "/incoming/IMG_1234.jpg" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
	if fetched.Status != journal.StatusOrganized {
		t.Fatalf("unexpected status: %q", fetched.Status)
	}
}

func TestRecordValidatesInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	if _, err := store.Record(ctx, &journal.Item{Operation: journal.OpOrganize, SourcePath: "/a", Status: journal.StatusOrganized}); err == nil {
		t.Fatal("expected error for missing batch id")
	}
	if _, err := store.Record(ctx, &journal.Item{BatchID: "b", Operation: journal.OpOrganize, Status: journal.StatusOrganized}); err == nil {
		t.Fatal("expected error for missing source path")
	}
	if _, err := store.Record(ctx, &journal.Item{BatchID: "b", Operation: journal.OpOrganize, SourcePath: "/a", Status: "bogus"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestItemsByBatchAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	entries := []journal.Item{
		{BatchID: "batch-1", Operation: journal.OpOrganize, SourcePath: "/a.jpg", Status: journal.StatusOrganized},
		{BatchID: "batch-1", Operation: journal.OpOrganize, SourcePath: "/b.jpg", Status: journal.StatusDuplicate, Detail: "exact duplicate of /a.jpg"},
		{BatchID: "batch-2", Operation: journal.OpConvert, SourcePath: "/c.mp4", Status: journal.StatusConverted},
	}
	for i := range entries {
		if _, err := store.Record(ctx, &entries[i]); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	items, err := store.ItemsByBatch(ctx, "batch-1")
	if err != nil {
		t.Fatalf("ItemsByBatch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items in batch-1, got %d", len(items))
	}
	if items[0].SourcePath != "/a.jpg" || items[1].SourcePath != "/b.jpg" {
		t.Fatalf("batch items out of order: %#v", items)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[journal.StatusOrganized] != 1 || stats[journal.StatusDuplicate] != 1 || stats[journal.StatusConverted] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestListNewestFirstWithFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	for _, entry := range []journal.Item{
		{BatchID: "b", Operation: journal.OpOrganize, SourcePath: "/1.jpg", Status: journal.StatusOrganized},
		{BatchID: "b", Operation: journal.OpOrganize, SourcePath: "/2.jpg", Status: journal.StatusReview, Detail: "no usable date"},
		{BatchID: "b", Operation: journal.OpOrganize, SourcePath: "/3.jpg", Status: journal.StatusReview, Detail: "date conflict"},
	} {
		if _, err := store.Record(ctx, &entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	items, err := store.List(ctx, 0, journal.StatusReview)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 review items, got %d", len(items))
	}
	if items[0].SourcePath != "/3.jpg" {
		t.Fatalf("expected newest first, got %#v", items[0])
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List with limit failed: %v", err)
	}
	if len(limited) != 1 || limited[0].SourcePath != "/3.jpg" {
		t.Fatalf("unexpected limited list: %#v", limited)
	}
}

func TestBatchesSummaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	for _, entry := range []journal.Item{
		{BatchID: "old", Operation: journal.OpOrganize, SourcePath: "/1.jpg", Status: journal.StatusOrganized},
		{BatchID: "old", Operation: journal.OpOrganize, SourcePath: "/2.jpg", Status: journal.StatusFailed, Detail: "exiftool exited 1"},
		{BatchID: "new", Operation: journal.OpConvert, SourcePath: "/3.mp4", Status: journal.StatusConverted},
	} {
		if _, err := store.Record(ctx, &entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	summaries, err := store.Batches(ctx, 0)
	if err != nil {
		t.Fatalf("Batches failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(summaries))
	}
	if summaries[0].BatchID != "new" || summaries[1].BatchID != "old" {
		t.Fatalf("batches not newest first: %#v", summaries)
	}
	if summaries[1].Total != 2 || summaries[1].Counts[journal.StatusFailed] != 1 {
		t.Fatalf("unexpected summary: %#v", summaries[1])
	}
}

func TestClearBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	for _, batch := range []string{"keep", "drop"} {
		if _, err := store.Record(ctx, &journal.Item{
			BatchID:    batch,
			Operation:  journal.OpOrganize,
			SourcePath: "/" + batch + ".jpg",
			Status:     journal.StatusOrganized,
		}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	removed, err := store.ClearBatch(ctx, "drop")
	if err != nil {
		t.Fatalf("ClearBatch failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	remaining, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].BatchID != "keep" {
		t.Fatalf("unexpected remaining items: %#v", remaining)
	}
}
