package domain

// ShellSort sorts a ascending in place using the halving gap sequence
// n/2, n/4, ..., 1 and returns the same slice. Empty and single-element
// slices are no-ops. Not stable.
func ShellSort(a []int) []int {
	n := len(a)
	for gap := n / 2; gap > 0; gap /= 2 {
		for i := gap; i < n; i++ {
			temp := a[i]
			j := i
			for j >= gap && a[j-gap] > temp {
				a[j] = a[j-gap]
				j -= gap
			}
			a[j] = temp
		}
	}
	return a
}
