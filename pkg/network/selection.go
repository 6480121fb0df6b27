package network

// Kind distinguishes the two selectable id spaces.
type Kind int

const (
	KindTF Kind = iota
	KindGene
)

// String returns a human-readable label for the kind.
func (k Kind) String() string {
	if k == KindTF {
		return "TF"
	}
	return "gene"
}

// Selection is the mutable selection state: which TFs and genes are checked
// plus the active confidence threshold. It lives for the whole session and is
// mutated only through the guard's transition logic.
type Selection struct {
	tfs       map[string]struct{}
	genes     map[string]struct{}
	threshold float64
}

// NewSelection creates an empty selection with the given initial threshold.
func NewSelection(threshold float64) *Selection {
	return &Selection{
		tfs:       make(map[string]struct{}),
		genes:     make(map[string]struct{}),
		threshold: clamp01(threshold),
	}
}

// SetTFSelected adds or removes a TF. Returns whether membership actually
// changed; selecting an already-selected id is a no-op.
func (s *Selection) SetTFSelected(id string, selected bool) bool {
	return setMember(s.tfs, id, selected)
}

// SetGeneSelected adds or removes a gene. Returns whether membership changed.
func (s *Selection) SetGeneSelected(id string, selected bool) bool {
	return setMember(s.genes, id, selected)
}

// SetThreshold updates the confidence threshold, clamped to [0,1].
// Returns whether the value changed.
func (s *Selection) SetThreshold(v float64) bool {
	v = clamp01(v)
	if v == s.threshold {
		return false
	}
	s.threshold = v
	return true
}

// Threshold returns the active confidence threshold. Edges count when their
// confidence is >= this value.
func (s *Selection) Threshold() float64 { return s.threshold }

// SelectAll replaces the given set with every selectable id from the index.
// Special (edge-less) TFs are excluded: they are disabled in the UI.
func (s *Selection) SelectAll(kind Kind, idx *DataIndex) {
	switch kind {
	case KindTF:
		s.tfs = make(map[string]struct{})
		for _, id := range idx.TFIDs() {
			if !idx.IsSpecial(id) {
				s.tfs[id] = struct{}{}
			}
		}
	case KindGene:
		s.genes = make(map[string]struct{})
		for _, id := range idx.GeneIDs() {
			s.genes[id] = struct{}{}
		}
	}
}

// ClearAll empties the given set.
func (s *Selection) ClearAll(kind Kind) {
	if kind == KindTF {
		s.tfs = make(map[string]struct{})
	} else {
		s.genes = make(map[string]struct{})
	}
}

// HasTF reports whether the TF id is selected.
func (s *Selection) HasTF(id string) bool {
	_, ok := s.tfs[id]
	return ok
}

// HasGene reports whether the gene id is selected.
func (s *Selection) HasGene(id string) bool {
	_, ok := s.genes[id]
	return ok
}

// TFCount returns the number of selected TFs.
func (s *Selection) TFCount() int { return len(s.tfs) }

// GeneCount returns the number of selected genes.
func (s *Selection) GeneCount() int { return len(s.genes) }

// TFs returns the selected TF ids, sorted.
func (s *Selection) TFs() []string { return sortedKeys(s.tfs) }

// Genes returns the selected gene ids, sorted.
func (s *Selection) Genes() []string { return sortedKeys(s.genes) }

// Ready reports whether both sets are non-empty, i.e. a render is possible.
func (s *Selection) Ready() bool {
	return len(s.tfs) > 0 && len(s.genes) > 0
}

// Snapshot captures the full selection state for bulk-change reversal.
func (s *Selection) Snapshot() SelectionSnapshot {
	return SelectionSnapshot{
		TFs:       copySet(s.tfs),
		Genes:     copySet(s.genes),
		Threshold: s.threshold,
	}
}

// Restore replaces the selection state with a previously taken snapshot.
func (s *Selection) Restore(snap SelectionSnapshot) {
	s.tfs = copySet(snap.TFs)
	s.genes = copySet(snap.Genes)
	s.threshold = snap.Threshold
}

// Prune drops selected ids that no longer exist in the index, e.g. after a
// live reload of the edge file. Returns whether anything was removed.
func (s *Selection) Prune(idx *DataIndex) bool {
	changed := false
	for id := range s.tfs {
		if !idx.IsTF(id) {
			delete(s.tfs, id)
			changed = true
		}
	}
	for id := range s.genes {
		if !idx.IsGene(id) {
			delete(s.genes, id)
			changed = true
		}
	}
	return changed
}

// SelectionSnapshot is an immutable copy of a Selection's state.
type SelectionSnapshot struct {
	TFs       map[string]struct{}
	Genes     map[string]struct{}
	Threshold float64
}

// Equal reports whether two snapshots carry identical membership and threshold.
func (a SelectionSnapshot) Equal(b SelectionSnapshot) bool {
	if a.Threshold != b.Threshold || len(a.TFs) != len(b.TFs) || len(a.Genes) != len(b.Genes) {
		return false
	}
	for id := range a.TFs {
		if _, ok := b.TFs[id]; !ok {
			return false
		}
	}
	for id := range a.Genes {
		if _, ok := b.Genes[id]; !ok {
			return false
		}
	}
	return true
}

func setMember(set map[string]struct{}, id string, selected bool) bool {
	_, present := set[id]
	if selected == present {
		return false
	}
	if selected {
		set[id] = struct{}{}
	} else {
		delete(set, id)
	}
	return true
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
