package brackets

// SnakeDraft distributes seedCount seed-sorted teams (index 0 =
// strongest) into groupCount groups using serpentine assignment: the
// direction alternates each time the column boundary is reached, so
// seed 0 and seed 2*groupCount-1 land in the same group, seed 1 and
// seed 2*groupCount-2 likewise, and so on (spec §4.4).
//
// Returns groupCount slices of team indices.
func SnakeDraft(seedCount, groupCount int) [][]int {
	if groupCount <= 0 {
		return nil
	}
	groups := make([][]int, groupCount)

	col, dir := 0, 1
	for seed := 0; seed < seedCount; seed++ {
		groups[col] = append(groups[col], seed)
		if col+dir >= groupCount || col+dir < 0 {
			dir = -dir
		} else {
			col += dir
		}
	}
	return groups
}
