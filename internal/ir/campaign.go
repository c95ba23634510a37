// Package ir defines the Universal Intermediate Representation (UIR): the
// vendor-neutral campaign model every input plugin populates and every
// output plugin consumes. It is the sole contract between plugin kinds —
// no input adapter imports an output adapter's types, or vice versa.
package ir

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID mints a vendor-agnostic entity ID for campaigns that don't carry
// their own stable identifiers from the source format: the first 20 hex
// digits of a random UUID, so minted IDs match the 16-20 character
// alphanumeric entity-ID pattern internal/validate/schema enforces.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

// Campaign is the root aggregate of the UIR. The pipeline orchestrator owns
// it exclusively for the duration of a conversion; plugins receive it by
// reference only for the call that supplies it.
type Campaign struct {
	Metadata      CampaignMetadata
	GameSystem    GameSystem
	Actors        []Actor
	Scenes        []Scene
	Items         []Item
	JournalEntries []JournalEntry
	Macros        []Macro
	Playlists     []Playlist
	Encounters    []Encounter
	RollTables    []RollTable
	Settings      CampaignSettings
	ConversionNotes []ConversionNote
}

// NewCampaign returns an empty Campaign with sane zero-value defaults,
// mirroring the original's UniversalCampaign::new().
func NewCampaign() *Campaign {
	return &Campaign{
		Metadata:   NewCampaignMetadata(),
		GameSystem: GameSystem{Kind: GameSystemUnknown},
		Settings:   CampaignSettings{GridType: GridTypeSquare},
	}
}

// AddNote appends a ConversionNote to the campaign's diagnostic trail.
// Notes are append-only and are never silently dropped.
func (c *Campaign) AddNote(category ConversionCategory, message string, affectedEntity string) {
	note := ConversionNote{
		Timestamp: time.Now().UTC(),
		Category:  category,
		Message:   message,
	}
	if affectedEntity != "" {
		note.AffectedEntity = &affectedEntity
	}
	c.ConversionNotes = append(c.ConversionNotes, note)
}

// Stats returns aggregate entity counts for reporting.
func (c *Campaign) Stats() CampaignStats {
	return CampaignStats{
		TotalActors:         len(c.Actors),
		TotalScenes:         len(c.Scenes),
		TotalItems:          len(c.Items),
		TotalJournalEntries: len(c.JournalEntries),
		TotalMacros:         len(c.Macros),
		TotalEncounters:     len(c.Encounters),
		GameSystem:          c.GameSystem,
	}
}

// ActorByID returns the actor with the given ID, if present. Used by
// reference-closure checks (scene tokens, encounter participants).
func (c *Campaign) ActorByID(id string) (*Actor, bool) {
	for i := range c.Actors {
		if c.Actors[i].ID == id {
			return &c.Actors[i], true
		}
	}
	return nil, false
}

// CampaignStats reports entity counts, used by CLI summaries and
// observability hooks.
type CampaignStats struct {
	TotalActors         int
	TotalScenes         int
	TotalItems          int
	TotalJournalEntries int
	TotalMacros         int
	TotalEncounters     int
	GameSystem          GameSystem
}

// CampaignMetadata carries campaign-level provenance: title, source format,
// detected system, and timestamps. Created once during input parse, then
// only appended to (never overwritten) by the orchestrator.
type CampaignMetadata struct {
	Title           string
	Description     *string
	SourceFormat    SourceFormat
	DetectedSystem  *GameSystem
	SystemConfidence float64
	SourcePath      *string
	CreatedAt       *time.Time
	ModifiedAt      *time.Time
	SourceVersion   *string
}

// NewCampaignMetadata returns metadata with the same defaults as the
// original's CampaignMetadata::default().
func NewCampaignMetadata() CampaignMetadata {
	return CampaignMetadata{
		Title:        "Untitled Campaign",
		SourceFormat: SourceFormatUnknown,
	}
}

// SourceFormat identifies the vendor archive an input plugin parsed.
type SourceFormat string

const (
	SourceFormatRoll20         SourceFormat = "ROLL20"
	SourceFormatFoundryVTT     SourceFormat = "FOUNDRY_VTT"
	SourceFormatFantasyGrounds SourceFormat = "FANTASY_GROUNDS"
	SourceFormatDNDBeyond      SourceFormat = "DND_BEYOND"
	SourceFormatPathbuilder    SourceFormat = "PATHBUILDER"
	SourceFormatHeroLab        SourceFormat = "HEROLAB"
	SourceFormatPDFSheet       SourceFormat = "PDF_SHEET"
	SourceFormatGenericJSON    SourceFormat = "GENERIC_JSON"
	SourceFormatUnknown        SourceFormat = "UNKNOWN"
)

// OutputFormat identifies the vendor target an output plugin synthesizes.
type OutputFormat string

const (
	OutputFormatFoundryWorld       OutputFormat = "FOUNDRY_WORLD"
	OutputFormatFoundryModule      OutputFormat = "FOUNDRY_MODULE"
	OutputFormatPathbuilderJSON    OutputFormat = "PATHBUILDER_JSON"
	OutputFormatDNDBeyondJSON      OutputFormat = "DND_BEYOND_JSON"
	OutputFormatHeroLabJSON        OutputFormat = "HEROLAB_JSON"
	OutputFormatFantasyGroundsXML  OutputFormat = "FANTASY_GROUNDS_XML"
	OutputFormatPDFCharacterSheets OutputFormat = "PDF_CHARACTER_SHEETS"
	OutputFormatPDFCampaignBook   OutputFormat = "PDF_CAMPAIGN_BOOK"
	OutputFormatUniversalJSON     OutputFormat = "UNIVERSAL_JSON"
)

// GameSystemKind enumerates the closed set of supported rule systems. Custom
// systems are represented by GameSystemCustom with CustomName set, mirroring
// the original's GameSystem::Custom(String) variant — Go has no sum type
// with embedded data, so the tag+payload pair below stands in for it.
type GameSystemKind string

const (
	GameSystemDnD5e           GameSystemKind = "DND_5E"
	GameSystemPathfinder2e    GameSystemKind = "PATHFINDER_2E"
	GameSystemPathfinder1e    GameSystemKind = "PATHFINDER_1E"
	GameSystemCallOfCthulhu7e GameSystemKind = "CALL_OF_CTHULHU_7E"
	GameSystemSavageWorlds    GameSystemKind = "SAVAGE_WORLDS"
	GameSystemGURPS4e         GameSystemKind = "GURPS_4E"
	GameSystemFate            GameSystemKind = "FATE"
	GameSystemUnknown         GameSystemKind = "UNKNOWN"
	GameSystemCustom          GameSystemKind = "CUSTOM"
)

// GameSystem is a closed enum with an open Custom(name) extension point.
type GameSystem struct {
	Kind       GameSystemKind
	CustomName string
}

// String renders a display name, matching the original's Display impl.
func (g GameSystem) String() string {
	switch g.Kind {
	case GameSystemDnD5e:
		return "D&D 5e"
	case GameSystemPathfinder2e:
		return "Pathfinder 2e"
	case GameSystemPathfinder1e:
		return "Pathfinder 1e"
	case GameSystemCallOfCthulhu7e:
		return "Call of Cthulhu 7e"
	case GameSystemSavageWorlds:
		return "Savage Worlds"
	case GameSystemGURPS4e:
		return "GURPS 4e"
	case GameSystemFate:
		return "Fate"
	case GameSystemCustom:
		return "Custom: " + g.CustomName
	default:
		return "Unknown"
	}
}

// CampaignSettings carries campaign-wide grid and permission defaults.
type CampaignSettings struct {
	DefaultTokenVision bool
	GridType           GridType
	GridSize           uint32
	DefaultPermissions map[string]string
}

// GridType enumerates campaign-wide default grid rendering styles. Scenes
// carry their own, finer-grained SceneGridType (see scenes.go) since a
// single campaign may mix square and hex maps.
type GridType string

const (
	GridTypeSquare GridType = "SQUARE"
	GridTypeHex    GridType = "HEX"
	GridTypeHexR   GridType = "HEX_R"
)
