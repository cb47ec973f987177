package domain

// SortOrder represents the sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortMode is the client-facing sort token.
type SortMode string

const (
	SortUpcoming  SortMode = "upcoming"
	SortPriceAsc  SortMode = "priceAsc"
	SortPriceDesc SortMode = "priceDesc"
)

// Sort is a resolved field ordering.
type Sort struct {
	Field string
	Order SortOrder
}

var sortTable = map[SortMode]Sort{
	SortUpcoming:  {Field: FieldNextSessionDate, Order: SortOrderAsc},
	SortPriceAsc:  {Field: FieldPrice, Order: SortOrderAsc},
	SortPriceDesc: {Field: FieldPrice, Order: SortOrderDesc},
}

// ResolveSort maps a sort mode to its field ordering.
// Unknown or empty modes fall back to upcoming.
func ResolveSort(mode SortMode) Sort {
	if s, ok := sortTable[mode]; ok {
		return s
	}
	return sortTable[SortUpcoming]
}
