package ir

// RollTable is a weighted random-result table (Foundry's RollTable
// document, D&D Beyond's random encounter/loot tables). Grounded on the
// shared shape across vendor roll-table features rather than any one
// vendor's schema: a formula string, a display flag, and an ordered list
// of weighted ranges.
type RollTable struct {
	ID          string
	Name        string
	Description string
	Formula     string
	Replacement bool
	DisplayRoll bool
	Results     []RollTableResult
	SourceData  map[string]any
}

// RollTableResult is one weighted entry of a RollTable. Range is the
// inclusive [low, high] roll span this entry covers; vendor formats that
// don't pre-compute ranges (weight-only tables) have input plugins derive
// them by cumulative weight during conversion.
type RollTableResult struct {
	ID     string
	Text   string
	Image  *string
	Weight int
	Range  [2]int
}

// NewRollTable returns a RollTable with a minted ID.
func NewRollTable(name string) RollTable {
	return RollTable{ID: NewID(), Name: name, Replacement: true, DisplayRoll: true, SourceData: map[string]any{}}
}
