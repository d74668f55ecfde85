package pack

const (
	defaultMaxLength = 64

	// bucketMinLength is the shortest match BucketSearcher reports.
	bucketMinLength = 5
)

// BucketSearcher is an implementation of the MatchFinder interface that
// looks for matches among all earlier positions holding the same byte value,
// as recorded in a ByteBuckets dictionary.
//
// Every block passed to FindMatches is compressed on its own; nothing is
// carried over from earlier calls.
type BucketSearcher struct {
	// MaxLength is the longest match that will be found.
	// The default is 64.
	MaxLength int

	Buckets ByteBuckets

	parser GreedyParser

	history    []byte
	candidates []int
}

func (q *BucketSearcher) Reset() {
	q.Buckets.Reset()
	q.history = nil
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *BucketSearcher) FindMatches(dst []Match, src []byte) []Match {
	if q.MaxLength == 0 {
		q.MaxLength = defaultMaxLength
	}
	q.Reset()
	q.history = src
	q.parser.MinLength = bucketMinLength

	dst = q.parser.Parse(dst, q, 0, len(src))
	q.history = nil
	return dst
}

// Search registers pos in the dictionary and reports the best match at pos,
// if any. The candidates are tried oldest first, and a candidate only
// replaces the current best if it is strictly longer, so among equally long
// matches the oldest wins.
//
// A candidate c is only extended while c+i <= pos: each source byte that is
// compared must come at or before the byte at pos. This limits a match to at
// most pos-c+1 bytes.
func (q *BucketSearcher) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	src := q.history
	if pos >= len(src) {
		return dst
	}
	anchor := src[pos]

	maxLen := q.MaxLength
	if remaining := max - pos; remaining < maxLen {
		maxLen = remaining
	}

	if maxLen >= bucketMinLength {
		q.candidates = q.Buckets.Positions(q.candidates[:0], anchor)
		length := 0
		for _, c := range q.candidates {
			i := 1
			for c+i <= pos && src[pos+i] == src[c+i] {
				i++
				if i == maxLen {
					break
				}
			}
			if i > length && i >= bucketMinLength {
				dst = append(dst, AbsoluteMatch{
					Start: pos,
					End:   pos + i,
					Match: c,
				})
				length = i
			}
			if length == maxLen {
				break
			}
		}
	}

	q.Buckets.Add(anchor, pos)
	return dst
}
