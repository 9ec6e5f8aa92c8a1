package model

// Diff describes how the links found for a seed changed between two
// discoveries.
type Diff struct {
	Seed     string     `json:"seed"`
	Previous *Discovery `json:"previous"`
	Current  *Discovery `json:"current"`

	// Added are links only present in Current, in Current's order.
	Added []string `json:"added"`

	// Removed are links only present in Previous, in Previous's order.
	Removed []string `json:"removed"`

	// Unchanged are links present in both, in Current's order.
	Unchanged []string `json:"unchanged"`
}

// Compare returns the difference between previous and current. Both must
// be discoveries of the same seed; the seed itself is not reported.
func Compare(previous, current *Discovery) *Diff {
	d := &Diff{
		Seed:      current.Seed,
		Previous:  previous,
		Current:   current,
		Added:     []string{},
		Removed:   []string{},
		Unchanged: []string{},
	}

	before := toSet(previous.Links())
	after := toSet(current.Links())

	for _, link := range current.Links() {
		if before[link] {
			d.Unchanged = append(d.Unchanged, link)
		} else {
			d.Added = append(d.Added, link)
		}
	}
	for _, link := range previous.Links() {
		if !after[link] {
			d.Removed = append(d.Removed, link)
		}
	}
	return d
}

// HasChanges reports whether any link was added or removed, or the status
// changed.
func (d *Diff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || d.Previous.Status != d.Current.Status
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
