package derive

// Effective strength indexes run from 1 to MaxStrengthIndex.
const (
	MinStrengthIndex = 1
	MaxStrengthIndex = 20

	// superStrengthDoublingFrom is the first index whose band doubles the previous one.
	superStrengthDoublingFrom = 17
	// legacyDuplicateBand is the index repeated by the legacy super-strength table.
	legacyDuplicateBand = 12
)

// LoadTable selects the load-limit step table.
type LoadTable int

const (
	LoadStandard LoadTable = iota
	LoadSuperStrength
	LoadSuperStrengthLegacy
)

var (
	standardLoad    = buildLoadTable(LoadStandard)
	superLoad       = buildLoadTable(LoadSuperStrength)
	superLegacyLoad = buildLoadTable(LoadSuperStrengthLegacy)
)

func standardBand(index int) int {
	return (index-1)*20 + 21
}

func buildLoadTable(table LoadTable) [MaxStrengthIndex + 1]int {
	var out [MaxStrengthIndex + 1]int
	for i := MinStrengthIndex; i <= MaxStrengthIndex; i++ {
		switch {
		case table == LoadStandard:
			out[i] = standardBand(i)
		case i >= superStrengthDoublingFrom:
			out[i] = out[i-1] * 2
		case table == LoadSuperStrengthLegacy && i > legacyDuplicateBand:
			// Indexes 12 and 13 share a band; later rows shift down one.
			out[i] = standardBand(i - 1)
		default:
			out[i] = standardBand(i)
		}
	}
	return out
}

// ClampStrengthIndex bounds index to the table range.
func ClampStrengthIndex(index int) int {
	return min(max(index, MinStrengthIndex), MaxStrengthIndex)
}

// LoadLimit looks up the load limit for an effective strength index.
func LoadLimit(table LoadTable, index int) int {
	index = ClampStrengthIndex(index)
	switch table {
	case LoadSuperStrength:
		return superLoad[index]
	case LoadSuperStrengthLegacy:
		return superLegacyLoad[index]
	default:
		return standardLoad[index]
	}
}
