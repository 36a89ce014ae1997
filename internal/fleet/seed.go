package fleet

import "hash/fnv"

// DeriveSeed mixes a base seed with a key so that every entity gets its own
// stable random stream.
func DeriveSeed(seed int64, key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return seed ^ int64(h.Sum64())
}
