package flag

import "hash/fnv"

// Bucket deterministically maps a seed key to an integer in [0, 99].
// FNV-1a is stable across processes, platforms, and restarts, so the
// same (seedKey, salt) pair always lands in the same bucket.
func Bucket(seedKey, salt string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seedKey + ":" + salt))
	return int(h.Sum32() % 100)
}

// VariantFor maps a bucket value to a variant by cumulative weight in
// declared order: the first variant whose cumulative weight exceeds the
// bucket wins. With weights summing to 100, every bucket in [0, 99]
// maps to exactly one variant. Reordering variants or changing weights
// shifts assignments past the point of divergence; that is the accepted
// cost of deterministic bucketing.
func VariantFor(variants []Variant, bucket int) (Variant, bool) {
	cumulative := 0
	for _, v := range variants {
		cumulative += v.Weight
		if bucket < cumulative {
			return v, true
		}
	}
	return Variant{}, false
}
