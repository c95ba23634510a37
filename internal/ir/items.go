package ir

// ItemType classifies an Item for output-format field mapping.
type ItemType string

const (
	ItemTypeWeapon    ItemType = "WEAPON"
	ItemTypeArmor     ItemType = "ARMOR"
	ItemTypeConsumable ItemType = "CONSUMABLE"
	ItemTypeTreasure  ItemType = "TREASURE"
	ItemTypeTool      ItemType = "TOOL"
	ItemTypeEquipment ItemType = "EQUIPMENT"
	ItemTypeOther     ItemType = "OTHER"
)

// ItemProperties carries the attributes most vendor item schemas share.
type ItemProperties struct {
	Rarity       string
	Attunement   bool
	WeightLb     float64
	Cost         string
	Quantity     int
	PropertiesMap map[string]string
}

// Item is a piece of equipment/treasure/consumable owned by an actor or
// sitting in a campaign's shared inventory.
type Item struct {
	ID          string
	Name        string
	Type        ItemType
	Description string
	Image       *string
	Properties  ItemProperties
	SourceData  map[string]any
}

// NewItem returns an Item with a minted ID.
func NewItem(name string, itemType ItemType) Item {
	return Item{
		ID:         NewID(),
		Name:       name,
		Type:       itemType,
		Properties: ItemProperties{Quantity: 1, PropertiesMap: map[string]string{}},
		SourceData: map[string]any{},
	}
}
