// File path: internal/taxonomy/taxonomy_test.go
package taxonomy

import "testing"

func TestCategoriesAreClosedAndChaptered(t *testing.T) {
	cats := Categories()
	if len(cats) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(cats))
	}
	chapters := make(map[string]bool)
	for _, ch := range Chapters() {
		chapters[ch.Code] = true
	}
	seen := make(map[string]bool)
	for _, cat := range cats {
		if seen[cat.Code] {
			t.Fatalf("duplicate category %s", cat.Code)
		}
		seen[cat.Code] = true
		if !chapters[cat.Chapter] {
			t.Fatalf("category %s references unknown chapter %s", cat.Code, cat.Chapter)
		}
	}
}

func TestChaptersPartitionCategories(t *testing.T) {
	assigned := make(map[string]string)
	for _, ch := range Chapters() {
		for _, code := range ch.Categories {
			if prior, ok := assigned[code]; ok {
				t.Fatalf("category %s assigned to both %s and %s", code, prior, ch.Code)
			}
			assigned[code] = ch.Code
			if cat, ok := CategoryByCode(code); !ok || cat.Chapter != ch.Code {
				t.Fatalf("chapter %s lists %s but the category disagrees", ch.Code, code)
			}
		}
	}
	if len(assigned) != len(Categories()) {
		t.Fatalf("chapters cover %d categories, expected %d", len(assigned), len(Categories()))
	}
}

func TestThemesReferenceKnownCategories(t *testing.T) {
	themes := Themes()
	if len(themes) != 5 {
		t.Fatalf("expected 5 themes, got %d", len(themes))
	}
	for _, theme := range themes {
		if len(theme.Categories) == 0 {
			t.Fatalf("theme %s has no categories", theme.Code)
		}
		for _, code := range theme.Categories {
			if !ValidCategory(code) {
				t.Fatalf("theme %s references unknown category %s", theme.Code, code)
			}
		}
	}
}

func TestAccessorsCopy(t *testing.T) {
	cats := Categories()
	cats[0].Code = "XXX"
	if Categories()[0].Code == "XXX" {
		t.Fatal("Categories must return a copy")
	}
}

func TestBenchmarksFor(t *testing.T) {
	table := DefaultBenchmarks()
	for _, cat := range Categories() {
		rows := BenchmarksFor(table, cat.Code)
		if len(rows) == 0 {
			t.Fatalf("category %s has no benchmark rows", cat.Code)
		}
		for _, row := range rows {
			if row.Category != cat.Code {
				t.Fatalf("benchmark row for %s returned under %s", row.Category, cat.Code)
			}
		}
	}
	if rows := BenchmarksFor(table, "NOPE"); len(rows) != 0 {
		t.Fatalf("unknown category should have no rows, got %d", len(rows))
	}
}
