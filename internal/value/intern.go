package value

// hashFNV1a computes the 32-bit FNV-1a hash of s (spec.md §3: "immutable
// UTF-8 bytes + precomputed 32-bit FNV-1a hash"). Grounded on the FNV
// hashing used for object hashing elsewhere in the example pack
// (funvibe-funxy's object table), reimplemented directly here rather than
// imported from hash/fnv so the hash can be computed once at intern time
// and stored on the StringObj itself.
func hashFNV1a(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}

// InternTable deduplicates immutable strings keyed by content (spec.md
// §3, Invariant 4, §4.C). The underlying map is the "hash-table
// primitive" spec.md §1 leaves as an implementation choice; everything
// about hashing, interning, and GC weak-reference sweeping is this
// component's own responsibility.
type InternTable struct {
	table map[string]*Obj
}

// NewInternTable returns an empty intern table.
func NewInternTable() *InternTable {
	return &InternTable{table: make(map[string]*Obj)}
}

// Intern returns the unique String object for s, allocating and
// registering one if this is the first time s has been seen.
func (t *InternTable) Intern(s string) *Obj {
	if existing, ok := t.table[s]; ok {
		return existing
	}
	obj := newObj(ObjString, &StringObj{Chars: s, Hash: hashFNV1a(s)})
	t.table[s] = obj
	return obj
}

// Lookup finds an already-interned string without allocating.
func (t *InternTable) Lookup(s string) (*Obj, bool) {
	obj, ok := t.table[s]
	return obj, ok
}

// SweepUnmarked removes entries whose String object did not survive the
// current GC mark phase (spec.md §4.F: "the only weak-reference set").
// It must run after marking and blackening, before the sweep of the
// all-objects list frees the same objects.
func (t *InternTable) SweepUnmarked() {
	for k, obj := range t.table {
		if !obj.Marked {
			delete(t.table, k)
		}
	}
}

// Len reports how many strings are currently interned.
func (t *InternTable) Len() int {
	return len(t.table)
}
