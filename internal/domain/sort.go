package domain

// SortKey names the field a column is ordered by. The empty key keeps store order.
type SortKey string

const (
	SortNone         SortKey = ""
	SortMarketCap    SortKey = "marketCap"
	SortVolume       SortKey = "volume"
	SortPrice        SortKey = "price"
	SortHolders      SortKey = "holders"
	SortTransactions SortKey = "transactions"
	SortAge          SortKey = "age"
)

// SortKeys is the cycle order used by the column header sort button.
var SortKeys = []SortKey{SortMarketCap, SortVolume, SortPrice, SortHolders, SortTransactions, SortAge}

// Label returns the short header label for the key.
func (k SortKey) Label() string {
	switch k {
	case SortMarketCap:
		return "MC"
	case SortVolume:
		return "Vol"
	case SortPrice:
		return "Price"
	case SortHolders:
		return "Holders"
	case SortTransactions:
		return "TX"
	case SortAge:
		return "Age"
	default:
		return "Sort"
	}
}

// Valid reports whether k is SortNone or one of SortKeys.
func (k SortKey) Valid() bool {
	if k == SortNone {
		return true
	}
	for _, known := range SortKeys {
		if k == known {
			return true
		}
	}
	return false
}

// SortDirection is "asc" or "desc".
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortSpec is the per-column sort selection.
type SortSpec struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}
