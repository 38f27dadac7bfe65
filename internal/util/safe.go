package util

// SafeUint64 clamps negative sizes (some servers report -1 for unknown) to zero
func SafeUint64(value int64) uint64 {
	if value < 0 {
		return 0
	}
	return uint64(value)
}
