package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected int
	}{
		{"standard", "001_initial_schema.sql", 1},
		{"two digits", "012_seed_phrases.sql", 12},
		{"no padding", "3_add_index.sql", 3},
		{"not sql", "001_initial_schema.txt", 0},
		{"no underscore", "schema.sql", 0},
		{"no numeric prefix", "abc_schema.sql", 0},
		{"zero version", "000_schema.sql", 0},
		{"hidden file", ".keep", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := migrationVersion(tc.filename); got != tc.expected {
				t.Errorf("migrationVersion(%q) = %d, want %d", tc.filename, got, tc.expected)
			}
		})
	}
}
