package ir

// ActorType distinguishes player characters from everything the GM controls.
type ActorType string

const (
	ActorTypePC  ActorType = "PC"
	ActorTypeNPC ActorType = "NPC"
)

// ActorImages groups an actor's portrait references.
type ActorImages struct {
	Avatar     *string
	Token      *string
	Additional []string
}

// AttributeValueKind tags the payload carried by an AttributeValue.
type AttributeValueKind string

const (
	AttributeValueNumber  AttributeValueKind = "NUMBER"
	AttributeValueText    AttributeValueKind = "TEXT"
	AttributeValueBoolean AttributeValueKind = "BOOLEAN"
)

// AttributeValue is a closed sum type over the three shapes a vendor
// attribute can take. Go has no tagged union, so the Kind discriminates
// which of the three payload fields is meaningful; the NumberValue/
// TextValue/BoolValue accessors below are the idiomatic substitute for the
// original's match-on-enum-variant access pattern.
type AttributeValue struct {
	Kind       AttributeValueKind
	NumberValue float64
	TextValue   string
	BoolValue   bool
}

// NumberAttribute constructs a numeric AttributeValue.
func NumberAttribute(v float64) AttributeValue {
	return AttributeValue{Kind: AttributeValueNumber, NumberValue: v}
}

// TextAttribute constructs a text AttributeValue.
func TextAttribute(v string) AttributeValue {
	return AttributeValue{Kind: AttributeValueText, TextValue: v}
}

// BoolAttribute constructs a boolean AttributeValue.
func BoolAttribute(v bool) AttributeValue {
	return AttributeValue{Kind: AttributeValueBoolean, BoolValue: v}
}

// AsNumber returns the numeric payload and whether Kind was Number.
func (a AttributeValue) AsNumber() (float64, bool) {
	return a.NumberValue, a.Kind == AttributeValueNumber
}

// AsText returns the text payload and whether Kind was Text.
func (a AttributeValue) AsText() (string, bool) {
	return a.TextValue, a.Kind == AttributeValueText
}

// AsBool returns the boolean payload and whether Kind was Boolean.
func (a AttributeValue) AsBool() (bool, bool) {
	return a.BoolValue, a.Kind == AttributeValueBoolean
}

// Actor represents a player character, NPC, or monster. Attribute keys are
// normalized to lowercase snake_case by input plugins before insertion.
type Actor struct {
	ID          string
	Name        string
	Type        ActorType
	Images      ActorImages
	Attributes  map[string]AttributeValue
	Items       []Item
	Features    []Feature
	Spells      []Spell
	Biography   string
	Notes       string
	Permissions EntityPermissions
	SourceData  map[string]any
}

// NewActor returns an Actor with an ID minted if none is supplied.
func NewActor(name string, actorType ActorType) Actor {
	return Actor{
		ID:          NewID(),
		Name:        name,
		Type:        actorType,
		Attributes:  map[string]AttributeValue{},
		Permissions: NewEntityPermissions(),
		SourceData:  map[string]any{},
	}
}

// Feature is a class/racial/system feature granting a character capability
// outside the item economy (e.g., a D&D 5e "Rage" or a Fate stunt).
type Feature struct {
	ID          string
	Name        string
	Description string
	SourceData  map[string]any
}

// Spell is a castable ability. Kept distinct from Feature and Item because
// most vendor formats track spell slots/components separately.
type Spell struct {
	ID          string
	Name        string
	Level       int
	School      string
	Description string
	SourceData  map[string]any
}
