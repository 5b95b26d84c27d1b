package plan

// AllocateSlots divides a fixed plot budget between two chart families. Each
// family first takes min(available, cap); a family that cannot fill its cap
// donates the surplus to the other, still bounded by that family's
// availability. The second return value is trimmed if the total would ever
// exceed the budget, which cannot happen while the caps sum to the budget.
func AllocateSlots(availA, capA, availB, capB, budget int) (int, int) {
	a := min(availA, capA)
	b := min(availB, capB)

	surplusA := capA - a
	surplusB := capB - b

	a = min(availA, a+surplusB)
	b = min(availB, b+surplusA)

	if a+b > budget {
		b = budget - a
	}
	return a, b
}

// allocateBivariate splits the remaining bivariate budget between scatter
// plots and grouped bars, each capped at four. When both families overflow
// their caps, scatter takes half of what remains and grouped bars the rest.
func allocateBivariate(scatterAvail, barAvail, remaining int) (int, int) {
	if remaining <= 0 {
		return 0, 0
	}
	maxScatter := min(4, remaining)
	maxBar := min(4, remaining)

	nScatterAvail := min(scatterAvail, maxScatter)
	nBarAvail := min(barAvail, maxBar)

	var nScatter, nBar int
	switch {
	case nScatterAvail+nBarAvail <= remaining:
		nScatter = nScatterAvail
		nBar = nBarAvail
	case nScatterAvail < maxScatter:
		nScatter = nScatterAvail
		nBar = min(nBarAvail, remaining-nScatter)
	case nBarAvail < maxBar:
		nBar = nBarAvail
		nScatter = min(nScatterAvail, remaining-nBar)
	default:
		nScatter = min(nScatterAvail, remaining/2)
		nBar = min(nBarAvail, remaining-nScatter)
	}
	return nScatter, nBar
}
