package commands

import (
	"strings"
	"testing"
)

func collect(t *testing.T, it *ScanIterator) []string {
	t.Helper()

	var values []string
	for it.Next() {
		v, err := it.Value()
		if err != nil {
			t.Fatalf("Unexpected iterator error: %v", err)
		}

		if v != "" {
			values = append(values, v)
		}
	}

	if err := it.Close(); err != nil {
		t.Fatalf("Unexpected close error: %v", err)
	}

	return values
}

func TestCreateTextIterator(t *testing.T) {
	it := createTextIterator(strings.NewReader("john@example.org\njane@example.org\n"))

	got := collect(t, it)
	want := []string{"john@example.org", "jane@example.org"}

	if len(got) != len(want) {
		t.Fatalf("Expected %d values, got %v", len(want), got)
	}

	for i, v := range want {
		if got[i] != v {
			t.Errorf("Expected %q at index %d, got %q", v, i, got[i])
		}
	}
}

func TestCreateCSVIterator(t *testing.T) {
	defer func() {
		checkSettings.CSV = csvOptions{}
	}()

	t.Run("second column", func(t *testing.T) {
		checkSettings.CSV = csvOptions{column: 1}

		it := createCSVIterator(strings.NewReader("John,john@example.org\nJane,jane@example.org\n"))

		got := collect(t, it)
		if len(got) != 2 || got[0] != "john@example.org" {
			t.Errorf("Expected both addresses from the second column, got %v", got)
		}
	})

	t.Run("skipping the header", func(t *testing.T) {
		checkSettings.CSV = csvOptions{column: 0, skipRows: 1}

		it := createCSVIterator(strings.NewReader("email\njohn@example.org\n"))

		got := collect(t, it)
		if len(got) != 1 || got[0] != "john@example.org" {
			t.Errorf("Expected the header to be skipped, got %v", got)
		}
	})

	t.Run("column out of range yields nothing", func(t *testing.T) {
		checkSettings.CSV = csvOptions{column: 5}

		it := createCSVIterator(strings.NewReader("john@example.org\n"))

		if got := collect(t, it); len(got) != 0 {
			t.Errorf("Expected no values, got %v", got)
		}
	})
}
