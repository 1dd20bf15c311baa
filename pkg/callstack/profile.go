package callstack

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"
)

// DefaultProfileCapacity is the number of distinct call sites a Profile
// tracks when [NewProfile] is given a non-positive capacity.
const DefaultProfileCapacity = 1024

// Entry is the accumulated timing for one call site.
type Entry struct {
	Site    string        `json:"site"`
	Elapsed time.Duration `json:"elapsed"`
	Calls   uint64        `json:"calls"`
}

// Average returns the mean elapsed time per call, or zero when the site
// has not been called.
func (e Entry) Average() time.Duration {
	if e.Calls == 0 {
		return 0
	}
	return e.Elapsed / time.Duration(e.Calls)
}

// Profile is a bounded, append-only table of call-site timings. Entries
// are created on the first observation of a site and updated afterwards;
// they are never evicted. Once the table is full, observations of new
// sites are counted in [Profile.Dropped] and otherwise ignored.
//
// Profile is safe for concurrent use.
type Profile struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
	index    map[string]int
	dropped  uint64
}

// NewProfile creates a Profile holding at most capacity call sites. A
// non-positive capacity selects [DefaultProfileCapacity].
func NewProfile(capacity int) *Profile {
	if capacity <= 0 {
		capacity = DefaultProfileCapacity
	}
	return &Profile{
		capacity: capacity,
		entries:  make([]Entry, 0, min(capacity, 64)),
		index:    make(map[string]int),
	}
}

// Record adds elapsed to the cumulative time of site and increments its
// call count.
func (p *Profile) Record(site string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i, ok := p.index[site]; ok {
		p.entries[i].Elapsed += elapsed
		p.entries[i].Calls++
		return
	}
	if len(p.entries) == p.capacity {
		p.dropped++
		return
	}
	p.index[site] = len(p.entries)
	p.entries = append(p.entries, Entry{Site: site, Elapsed: elapsed, Calls: 1})
}

// Lookup returns the entry for site.
func (p *Profile) Lookup(site string) (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i, ok := p.index[site]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Entries returns a copy of all entries in order of first observation.
func (p *Profile) Entries() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of distinct call sites recorded.
func (p *Profile) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Dropped returns the number of observations ignored because the table
// was full.
func (p *Profile) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Report writes a tab-aligned table of all entries to w.
func (p *Profile) Report(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SITE\tCALLS\tTOTAL\tAVERAGE")
	for _, e := range p.Entries() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Site, e.Calls, e.Elapsed, e.Average())
	}
	if d := p.Dropped(); d > 0 {
		fmt.Fprintf(tw, "(dropped)\t%d\t\t\n", d)
	}
	return tw.Flush()
}
