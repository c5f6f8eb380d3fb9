package database

import (
	"testing"
)

func newTestDB(t *testing.T) DatabaseService {
	t.Helper()

	ds, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase error: %v", err)
	}
	_, err = ds.CreateDatabase()
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func insertTestImage(t *testing.T, ds DatabaseService, filename, originalName string) *ImageRecord {
	t.Helper()

	record := &ImageRecord{
		Filename:     filename,
		OriginalName: originalName,
		Size:         42,
		FileType:     ".png",
	}
	if _, err := ds.InsertImage(record); err != nil {
		t.Fatalf("InsertImage(%s) error: %v", filename, err)
	}
	return record
}

func TestSQLite_DoesDatabaseExist(t *testing.T) {
	ds := newTestDB(t)
	if !ds.DoesDatabaseExist() {
		t.Fatalf("expected DoesDatabaseExist to return true")
	}
}

func TestSQLite_InsertImage_AssignsIDAndTimestamp(t *testing.T) {
	ds := newTestDB(t)

	record := insertTestImage(t, ds, "aaaa.png", "cat.png")
	if record.ID == 0 {
		t.Errorf("expected non-zero ID after insert")
	}
	if record.CreatedAt.IsZero() {
		t.Errorf("expected CreatedAt to be set by insert")
	}
}

func TestSQLite_InsertImage_DuplicateFilename(t *testing.T) {
	ds := newTestDB(t)

	insertTestImage(t, ds, "aaaa.png", "cat.png")
	record := &ImageRecord{Filename: "aaaa.png", OriginalName: "other.png", Size: 1, FileType: ".png"}
	if _, err := ds.InsertImage(record); err == nil {
		t.Fatalf("expected unique constraint error for duplicate filename, got nil")
	}
}

func TestSQLite_ListImages_NewestFirst(t *testing.T) {
	ds := newTestDB(t)

	r1 := insertTestImage(t, ds, "aaaa.png", "first.png")
	r2 := insertTestImage(t, ds, "bbbb.png", "second.png")
	r3 := insertTestImage(t, ds, "cccc.png", "third.png")

	images, err := ds.ListImages(10, 0)
	if err != nil {
		t.Fatalf("ListImages error: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(images))
	}
	expected := []int64{r3.ID, r2.ID, r1.ID}
	for i, img := range images {
		if img.ID != expected[i] {
			t.Errorf("position %d: expected ID %d, got %d", i, expected[i], img.ID)
		}
	}
}

func TestSQLite_ListImages_LimitOffset(t *testing.T) {
	ds := newTestDB(t)

	for _, name := range []string{"aaaa.png", "bbbb.png", "cccc.png", "dddd.png", "eeee.png"} {
		insertTestImage(t, ds, name, name)
	}

	page1, err := ds.ListImages(2, 0)
	if err != nil {
		t.Fatalf("ListImages(2, 0) error: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("expected 2 images on first page, got %d", len(page1))
	}

	page3, err := ds.ListImages(2, 4)
	if err != nil {
		t.Fatalf("ListImages(2, 4) error: %v", err)
	}
	if len(page3) != 1 {
		t.Fatalf("expected 1 image on last page, got %d", len(page3))
	}
	if page3[0].Filename != "aaaa.png" {
		t.Errorf("expected oldest image on last page, got %s", page3[0].Filename)
	}
}

func TestSQLite_CountImages(t *testing.T) {
	ds := newTestDB(t)

	count, err := ds.CountImages()
	if err != nil {
		t.Fatalf("CountImages error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 images in empty database, got %d", count)
	}

	insertTestImage(t, ds, "aaaa.png", "cat.png")
	insertTestImage(t, ds, "bbbb.png", "dog.png")

	count, err = ds.CountImages()
	if err != nil {
		t.Fatalf("CountImages error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 images, got %d", count)
	}
}

func TestSQLite_GetImageByID(t *testing.T) {
	ds := newTestDB(t)

	record := insertTestImage(t, ds, "aaaa.png", "cat.png")

	img, err := ds.GetImageByID(record.ID)
	if err != nil {
		t.Fatalf("GetImageByID error: %v", err)
	}
	if img == nil {
		t.Fatalf("GetImageByID returned nil; expected record")
	}
	if img.Filename != "aaaa.png" || img.OriginalName != "cat.png" {
		t.Errorf("unexpected record content: %+v", img)
	}

	// Non-existent ID returns nil without error
	img2, err := ds.GetImageByID(record.ID + 1000)
	if err != nil {
		t.Fatalf("GetImageByID(non-existent) error: %v", err)
	}
	if img2 != nil {
		t.Fatalf("GetImageByID(non-existent) returned non-nil; expected nil")
	}
}

func TestSQLite_DeleteImage(t *testing.T) {
	ds := newTestDB(t)

	r1 := insertTestImage(t, ds, "aaaa.png", "cat.png")
	r2 := insertTestImage(t, ds, "bbbb.png", "dog.png")

	if err := ds.DeleteImage(r1.ID); err != nil {
		t.Fatalf("DeleteImage error: %v", err)
	}

	images, err := ds.ListImages(10, 0)
	if err != nil {
		t.Fatalf("ListImages error: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected 1 image after deletion, got %d", len(images))
	}
	if images[0].ID != r2.ID {
		t.Fatalf("expected remaining ID %d, got %d", r2.ID, images[0].ID)
	}
}

func TestSQLite_IDsAreNotReusedAfterDelete(t *testing.T) {
	ds := newTestDB(t)

	insertTestImage(t, ds, "aaaa.png", "cat.png")
	r2 := insertTestImage(t, ds, "bbbb.png", "dog.png")

	if err := ds.DeleteImage(r2.ID); err != nil {
		t.Fatalf("DeleteImage error: %v", err)
	}

	r3 := insertTestImage(t, ds, "cccc.png", "bird.png")
	if r3.ID <= r2.ID {
		t.Fatalf("expected new ID greater than deleted ID %d, got %d", r2.ID, r3.ID)
	}
}
