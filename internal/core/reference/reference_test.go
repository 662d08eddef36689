package reference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestNewSetTrimsAndDedups(t *testing.T) {
	s := NewSet([]string{" Priya Sharma ", "", "Aman Verma", "Priya Sharma", "  "})

	want := []string{"Priya Sharma", "Aman Verma"}
	if !reflect.DeepEqual(s.Names(), want) {
		t.Fatalf("got %v, want %v", s.Names(), want)
	}
	if s.Len() != 2 || !s.Contains("Aman Verma") || s.Contains("Rahul Kumar") {
		t.Fatalf("unexpected set state: %v", s.Names())
	}
}

func TestSetNamesReturnsCopy(t *testing.T) {
	s := NewSet([]string{"Priya Sharma"})
	names := s.Names()
	names[0] = "changed"
	if s.Names()[0] != "Priya Sharma" {
		t.Fatalf("set was mutated through Names()")
	}

	var nilSet *Set
	if nilSet.Len() != 0 || len(nilSet.Names()) != 0 || nilSet.Contains("x") {
		t.Fatalf("nil set should behave as empty")
	}
}

func TestStaticSourceDefaults(t *testing.T) {
	names, err := NewStaticSource(nil).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 33 || names[0] != "Priya Sharma" || names[32] != "Kiran Kum" {
		t.Fatalf("unexpected default names: %d %v", len(names), names)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFileSourceText(t *testing.T) {
	path := writeFile(t, "names.txt", "# staff\nPriya Sharma\n\n  Aman Verma  \n")
	names, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Priya Sharma", "Aman Verma"}) {
		t.Fatalf("got %v", names)
	}
}

func TestFileSourceCSV(t *testing.T) {
	path := writeFile(t, "names.csv", "name,city\nPriya Sharma,Delhi\n\"Verma, Aman\",Pune\n")
	names, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Priya Sharma", "Verma, Aman"}) {
		t.Fatalf("got %v", names)
	}
}

func TestFileSourceXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := []string{"Name", "Kiran Kumar", "Kiran Kumari"}
	for i, v := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set cell: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "names.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	_ = f.Close()

	names, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Kiran Kumar", "Kiran Kumari"}) {
		t.Fatalf("got %v", names)
	}
}

func TestFileSourceErrors(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing.txt")).Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writeFile(t, "names.json", "[]")
	if _, err := NewFileSource(path).Load(context.Background()); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestSQLiteSource(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSQLiteSource(filepath.Join(t.TempDir(), "refs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	if err := src.Insert(ctx, "Riya Singh", "Suman Das", "Riya Singh"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	n, err := src.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 rows, got %d err=%v", n, err)
	}

	names, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Riya Singh", "Suman Das"}) {
		t.Fatalf("got %v", names)
	}
}

type flakySource struct {
	names []string
	err   error
}

func (f *flakySource) Load(ctx context.Context) ([]string, error) { return f.names, f.err }
func (f *flakySource) GetSourceName() string                      { return "flaky" }

func TestStoreKeepsSnapshotOnFailedReload(t *testing.T) {
	src := &flakySource{names: []string{"Priya Sharma", "Aman Verma"}}
	store := NewStore(src)

	if store.Current().Len() != 0 || !store.LoadedAt().IsZero() {
		t.Fatalf("store should start empty")
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	snapshot := store.Current()

	src.err = errors.New("db down")
	if err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected reload error")
	}
	if store.Current() != snapshot {
		t.Fatalf("failed reload must keep the previous snapshot")
	}

	src.err = nil
	src.names = []string{"Rahul Kumar"}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if snapshot.Len() != 2 {
		t.Fatalf("old snapshot was mutated: %v", snapshot.Names())
	}
	if !reflect.DeepEqual(store.Current().Names(), []string{"Rahul Kumar"}) {
		t.Fatalf("unexpected current names %v", store.Current().Names())
	}
}

func TestNewRefresherRejectsBadSchedule(t *testing.T) {
	store := NewStore(NewStaticSource(nil))
	if _, err := NewRefresher(store, "not a schedule", 0); err == nil {
		t.Fatalf("expected schedule error")
	}

	r, err := NewRefresher(store, "@every 1h", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Start()
	r.Stop()
}
