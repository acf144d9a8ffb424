package dirhash

import (
	"strings"
	"sync"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// pathSet is the Collector's shared, concurrently-appended output buffer. It
// wraps the generic zerocopyskiplist instantiated over plain path strings
// (Item = Key = Context = string), keyed here directly on the path instead
// of an on-disk entry. Paths come out of First()/Next() in ascending
// byte-wise order for free, so no separate sort pass over the collected list
// is needed. The upstream skiplist's own internal concurrency safety isn't
// documented, so every access here is additionally serialized by mu.
type pathSet struct {
	mu       sync.Mutex
	skiplist *zcsl.ZeroCopySkiplist[string, string, string]
}

func newPathSet() *pathSet {
	identity := func(s *string) string { return *s }
	sizeOf := func(s *string) int { return len(*s) }
	cmp := func(a, b string) int { return strings.Compare(a, b) }

	return &pathSet{
		skiplist: zcsl.MakeZeroCopySkiplist[string, string, string](16, identity, sizeOf, cmp),
	}
}

// insert adds path to the set. Duplicate paths (overlapping Entry roots,
// see §9 Open Questions) are both kept; the skiplist is keyed but this
// wrapper does not treat a repeated key as an update.
func (p *pathSet) insert(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skiplist.Insert(&path, path)
}

func (p *pathSet) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skiplist.Length()
}

// sorted drains the set into a byte-wise ascending slice, the Collector's
// determinism source (§4.6 step 4).
func (p *pathSet) sorted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, p.skiplist.Length())
	for cur := p.skiplist.First(); cur != nil; cur = cur.Next() {
		out = append(out, *cur.Item())
	}
	return out
}
