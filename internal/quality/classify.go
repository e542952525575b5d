package quality

// Classification is one of the four routing buckets of spec.md §4.6.
type Classification string

const (
	Legendary    Classification = "legendary"
	Experimental Classification = "experimental"
	Common       Classification = "common"
	Rejected     Classification = "rejected"
)

// Classify applies the hierarchical, first-match-wins rule of spec.md
// §4.6: legendary, then experimental, then common, else rejected.
func Classify(p Profile) Classification {
	switch {
	case p.Coherence > 0.75 && p.Rarity > 0.8 && p.Complexity > 0.53:
		return Legendary
	case p.Variety > 0.45:
		return Experimental
	case p.Coherence > 0.7:
		return Common
	default:
		return Rejected
	}
}
