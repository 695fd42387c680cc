package engine

// detectClusters partitions the boxes into connected components. Two boxes
// are linked when they overlap after growing each by clusterDistance.
// The traversal uses an explicit stack so large inputs cannot exhaust the
// goroutine stack. Components are seeded in input order and members are
// listed in discovery order, which keeps the output deterministic.
func detectClusters(boxes []box, clusterDistance float64) [][]int {
	visited := make([]bool, len(boxes))
	var clusters [][]int

	for seed := range boxes {
		if visited[seed] {
			continue
		}

		var cluster []int
		stack := []int{seed}
		visited[seed] = true

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cluster = append(cluster, cur)

			for next := range boxes {
				if visited[next] {
					continue
				}
				if overlaps(boxes[cur], boxes[next], clusterDistance) {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}
