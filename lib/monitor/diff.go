package monitor

// SnapshotDiff classifies harvested URLs against a stored snapshot.
type SnapshotDiff struct {
	Added    []string // Harvested, not in the snapshot
	Retained []string // Harvested and already in the snapshot
	Vanished []string // In the snapshot, not harvested
}

// Diff compares the URLs of a stored snapshot with a freshly harvested set.
// Both inputs are treated as sets; duplicates are ignored and first-seen order
// is kept.
func Diff(existing, harvested []string) SnapshotDiff {
	known := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		known[u] = struct{}{}
	}

	var d SnapshotDiff
	current := make(map[string]struct{}, len(harvested))
	for _, u := range harvested {
		if _, dup := current[u]; dup {
			continue
		}
		current[u] = struct{}{}

		if _, ok := known[u]; ok {
			d.Retained = append(d.Retained, u)
		} else {
			d.Added = append(d.Added, u)
		}
	}

	for _, u := range existing {
		if _, ok := current[u]; ok {
			continue
		}
		current[u] = struct{}{} // Guards against duplicates in existing
		d.Vanished = append(d.Vanished, u)
	}
	return d
}
