package pack

const defaultBucketLimit = 512

// ByteBuckets remembers, for each byte value, the positions in the input
// where that byte was seen, oldest first.
//
// Memory is bounded by an explicit eviction policy: when an append leaves a
// bucket holding more than Limit positions, its oldest Evict positions are
// dropped. This is not an exact sliding window; a bucket's size cycles
// between Limit-Evict+1 and Limit.
type ByteBuckets struct {
	// Limit is the largest number of positions a bucket keeps.
	// The default is 512.
	Limit int

	// Evict is how many of the oldest positions are dropped when a bucket
	// grows past Limit. The default is half of Limit (256).
	Evict int

	buckets [256]ring
}

// ring is a fixed-capacity ring buffer of positions. Its storage is
// allocated on the first append, so byte values that never occur cost
// nothing.
type ring struct {
	buf   []uint32
	start int
	n     int
}

func (r *ring) at(i int) int {
	j := r.start + i
	if j >= len(r.buf) {
		j -= len(r.buf)
	}
	return int(r.buf[j])
}

func (b *ByteBuckets) defaults() {
	if b.Limit == 0 {
		b.Limit = defaultBucketLimit
	}
	if b.Evict == 0 {
		b.Evict = b.Limit / 2
		if b.Evict == 0 {
			b.Evict = 1
		}
	}
	if b.Evict > b.Limit {
		panic("pack: ByteBuckets.Evict larger than Limit")
	}
}

// Reset empties every bucket. Allocated storage is kept for reuse.
func (b *ByteBuckets) Reset() {
	for i := range b.buckets {
		b.buckets[i].start = 0
		b.buckets[i].n = 0
	}
}

// Add records that the byte c occurs at pos, then applies the eviction
// policy to c's bucket.
func (b *ByteBuckets) Add(c byte, pos int) {
	b.defaults()
	r := &b.buckets[c]
	if r.buf == nil {
		// One extra slot, since a bucket briefly holds Limit+1 positions
		// before eviction.
		r.buf = make([]uint32, b.Limit+1)
	}
	j := r.start + r.n
	if j >= len(r.buf) {
		j -= len(r.buf)
	}
	r.buf[j] = uint32(pos)
	r.n++

	if r.n > b.Limit {
		r.start += b.Evict
		if r.start >= len(r.buf) {
			r.start -= len(r.buf)
		}
		r.n -= b.Evict
	}
}

// Len returns the number of positions stored for c.
func (b *ByteBuckets) Len(c byte) int {
	return b.buckets[c].n
}

// Positions appends the positions stored for c to dst, oldest first, and
// returns dst.
func (b *ByteBuckets) Positions(dst []int, c byte) []int {
	r := &b.buckets[c]
	for i := 0; i < r.n; i++ {
		dst = append(dst, r.at(i))
	}
	return dst
}
