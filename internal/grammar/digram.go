package grammar

// digramIndex maps a digram's key to the single symbol occurrence the
// engine has chosen as canonical for that key. At most one entry exists
// per key.
type digramIndex struct {
	m map[digramKey]*symbol
}

func newDigramIndex() *digramIndex {
	return &digramIndex{m: make(map[digramKey]*symbol)}
}

// lookup returns the canonical occurrence for key, if any.
func (d *digramIndex) lookup(key digramKey) (*symbol, bool) {
	s, ok := d.m[key]
	return s, ok
}

// insert records s as the canonical occurrence of key, overwriting any
// prior entry. Used both for fresh digrams (try-insert) and for restoring
// a canonical entry after a triple or an expand.
func (d *digramIndex) insert(key digramKey, s *symbol) {
	d.m[key] = s
}

// removeIfCanonical drops s's outgoing digram from the index, but only if
// s is still the entry recorded for that key; a stale removal (one where
// some other occurrence has since become canonical) must not disturb the
// newer entry.
func (d *digramIndex) removeIfCanonical(s *symbol) {
	if s.isGuard() || s.next == nil || s.next.isGuard() {
		return
	}
	key := s.keyOf()
	if d.m[key] == s {
		delete(d.m, key)
	}
}
