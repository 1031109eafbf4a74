package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	cases := []struct {
		name      string
		existing  []string
		harvested []string
		want      SnapshotDiff
	}{
		{
			name:      "empty snapshot",
			harvested: []string{"a", "b"},
			want:      SnapshotDiff{Added: []string{"a", "b"}},
		},
		{
			name:      "duplicates in harvest",
			harvested: []string{"a", "a"},
			want:      SnapshotDiff{Added: []string{"a"}},
		},
		{
			name:      "unchanged",
			existing:  []string{"a", "b"},
			harvested: []string{"b", "a"},
			want:      SnapshotDiff{Retained: []string{"b", "a"}},
		},
		{
			name:     "empty harvest",
			existing: []string{"a"},
			want:     SnapshotDiff{Vanished: []string{"a"}},
		},
		{
			name:      "mixed",
			existing:  []string{"a", "b", "c"},
			harvested: []string{"c", "d", "a", "d"},
			want: SnapshotDiff{
				Added:    []string{"d"},
				Retained: []string{"c", "a"},
				Vanished: []string{"b"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Diff(tc.existing, tc.harvested))
		})
	}
}

func TestDiff_Partitions(t *testing.T) {
	existing := []string{"a", "b", "c", "e"}
	harvested := []string{"b", "c", "d", "f", "d"}
	d := Diff(existing, harvested)

	// Every harvested URL is either added or retained, every existing one is
	// either retained or vanished, and no URL lands in two buckets.
	seen := map[string]int{}
	for _, u := range d.Added {
		seen[u]++
	}
	for _, u := range d.Retained {
		seen[u]++
	}
	for _, u := range d.Vanished {
		seen[u]++
	}
	for _, u := range append(existing, harvested...) {
		assert.Equal(t, 1, seen[u], u)
	}
}
