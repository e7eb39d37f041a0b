package value

// CombineIndependentArrivals implements the independent-arrival
// combination rule of section 4.5: 1 - product(1 - arrival_i). Each
// element of arrivals is treated as an independent Bernoulli "this path
// delivered the signal" event; the result is the probability that at
// least one arrival succeeded. An empty slice returns Zero(k).
func CombineIndependentArrivals(k Kind, arrivals []Value) Value {
	if len(arrivals) == 0 {
		return Zero(k)
	}
	complementProduct := arrivals[0].Complement()
	for _, a := range arrivals[1:] {
		complementProduct = complementProduct.Mul(a.Complement())
	}

	return complementProduct.Complement()
}

// InclusionExclusion combines g independent-group contributions at a join
// (section 4.5, "Inclusion-exclusion rule for multiple diamond groups").
// Treating each group's contribution as an independent arrival, the
// inclusion-exclusion sum over all non-empty subsets of groups equals
// 1 - product(1 - contribution_i), which is what this function computes
// (via CombineIndependentArrivals); the 2^g subsets are not enumerated.
func InclusionExclusion(k Kind, groups []Value) Value {
	if len(groups) == 0 {
		return Zero(k)
	}
	if len(groups) == 1 {
		return groups[0]
	}
	// P(union) = 1 - P(none), and groups are independent arrivals, so this
	// is exactly CombineIndependentArrivals; inclusion-exclusion and the
	// independent-arrival complement rule are algebraically identical for
	// independent events, and the complement form avoids the numerical
	// cancellation that naive +/- term summation would introduce for
	// interval and p-box kinds (which have no subtraction).
	return CombineIndependentArrivals(k, groups)
}

// WeightedBranchSum sums the probability mass of exhaustive,
// mutually-exclusive branch contributions (section 4.5 step 6: "Sum over
// assignments of p_assign * q_n^assign"). contributions must already be
// the per-branch products; WeightedBranchSum folds them with Add.
func WeightedBranchSum(k Kind, contributions []Value) Value {
	if len(contributions) == 0 {
		return Zero(k)
	}
	total := contributions[0]
	for _, c := range contributions[1:] {
		total = total.Add(c)
	}

	return total
}
