// Package foundry synthesizes Foundry VTT world/module bundles from the
// universal IR, grounded on original_source's
// ttrpg-foundry-common/generated/{journal_page,macro_def,playlist,
// rollable_table}.rs base-document field shapes and spec §6's Foundry
// table. The generated Rust bindings are one builder-pattern struct per
// JSON Schema property with its own validated newtype; that verbosity is
// deliberately not carried over (spec §9 "Builder verbosity" design note)
// — these are plain structs with the fields a document actually needs.
package foundry

import (
	"crypto/sha256"
	"encoding/base32"
	"regexp"
	"strings"

	"ttrpgconv/internal/ir"
)

var foundryIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{16}$`)

// ensureFoundryID returns id verbatim when it already matches Foundry's
// 16-character alphanumeric document ID convention, otherwise derives a
// stable 16-character replacement by hashing it. Deriving instead of
// randomly minting keeps GenerateOutput deterministic (spec invariant 1)
// without needing to mutate the campaign to record a minting note —
// GenerateOutput is documented pure (spec §4.6), so note-emission for a
// minted ID is not available at this layer.
func ensureFoundryID(id string) string {
	if foundryIDPattern.MatchString(id) {
		return id
	}
	sum := sha256.Sum256([]byte(id))
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:])
	return strings.ToUpper(encoded[:16])
}

// BaseDocument carries the fields every Foundry document type shares,
// mirroring FoundryDocumentOwnership + the common _id/name/img/flags/sort
// properties repeated across journal_page.rs/macro_def.rs/playlist.rs/
// rollable_table.rs instead of a Rust-style allOf base (spec §9
// "Inheritance-free vendor schemas": composition by embedding, not
// runtime subtyping).
type BaseDocument struct {
	ID        string         `json:"_id"`
	Name      string         `json:"name"`
	Img       string         `json:"img,omitempty"`
	Ownership map[string]int `json:"ownership,omitempty"`
	Flags     map[string]any `json:"flags,omitempty"`
	Sort      float64        `json:"sort,omitempty"`
}

// ActorDocument is the pack-entry shape for packs/actors.db.
type ActorDocument struct {
	BaseDocument
	Type   string         `json:"type"`
	System map[string]any `json:"system"`
	Items  []ItemDocument `json:"items,omitempty"`
}

// ItemDocument is the pack-entry shape for packs/items.db, and also
// embeds directly into an ActorDocument's inventory.
type ItemDocument struct {
	BaseDocument
	Type   string         `json:"type"`
	System map[string]any `json:"system"`
}

// SceneDocument is the pack-entry shape for packs/scenes.db.
type SceneDocument struct {
	BaseDocument
	Background SceneBackground `json:"background"`
	Width      uint32          `json:"width"`
	Height     uint32          `json:"height"`
	Grid       SceneGrid       `json:"grid"`
	Tokens     []TokenDocument `json:"tokens"`
	Walls      []WallDocument  `json:"walls"`
	Playlist   string          `json:"playlist,omitempty"`
}

type SceneBackground struct {
	Src string `json:"src,omitempty"`
}

// Foundry grid type codes: 0=gridless, 1=square, 2/3=hex (row/col).
type SceneGrid struct {
	Type  int     `json:"type"`
	Size  uint32  `json:"size"`
	Color string  `json:"color"`
	Alpha float64 `json:"alpha"`
}

type TokenDocument struct {
	ID      string       `json:"_id"`
	Name    string       `json:"name,omitempty"`
	ActorID string       `json:"actorId,omitempty"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Texture TokenTexture `json:"texture"`
	Hidden  bool         `json:"hidden"`
}

type TokenTexture struct {
	Src string `json:"src,omitempty"`
}

type WallDocument struct {
	ID    string     `json:"_id"`
	C     [4]float64 `json:"c"`
	Move  int        `json:"move"`
	Sight int        `json:"sight"`
}

// JournalEntryDocument is the pack-entry shape for packs/journal.db.
type JournalEntryDocument struct {
	BaseDocument
	Pages []JournalPageDocument `json:"pages"`
}

type JournalPageDocument struct {
	ID    string            `json:"_id"`
	Name  string            `json:"name"`
	Type  string            `json:"type"`
	Src   string            `json:"src,omitempty"`
	Text  JournalPageText   `json:"text"`
	Image *JournalPageImage `json:"image,omitempty"`
}

type JournalPageText struct {
	Content string `json:"content"`
	Format  int    `json:"format"`
}

type JournalPageImage struct {
	Caption string `json:"caption,omitempty"`
}

// MacroDocument is the pack-entry shape for packs/macros.db.
type MacroDocument struct {
	BaseDocument
	Type    string `json:"type"`
	Command string `json:"command"`
	Author  string `json:"author,omitempty"`
}

// PlaylistDocument is the pack-entry shape for packs/playlists.db.
type PlaylistDocument struct {
	BaseDocument
	Playing bool                    `json:"playing"`
	Mode    float64                 `json:"mode"`
	Sounds  []PlaylistSoundDocument `json:"sounds"`
}

type PlaylistSoundDocument struct {
	ID      string  `json:"_id,omitempty"`
	Name    string  `json:"name"`
	Path    string  `json:"path,omitempty"`
	Volume  float64 `json:"volume,omitempty"`
	Repeat  bool    `json:"repeat"`
	Playing bool    `json:"playing"`
}

// toOwnership renders an ir.EntityPermissions as the
// {default, ROLE_NAME, <user-id>} map Foundry's ownership schema expects
// (spec §6 permission encoding). Role principals were already normalized
// to lowercase by ir.NormalizePrincipal; Foundry's own convention is
// upper-case role keys, so recognized roles are upper-cased here and
// anything else (a 16-character user ID) passes through verbatim.
func toOwnership(perms ir.EntityPermissions) map[string]int {
	out := map[string]int{"default": int(perms.Default)}
	for principal, level := range perms.Levels {
		switch principal {
		case ir.RolePlayer, ir.RoleTrusted, ir.RoleAssistant, ir.RoleGamemaster:
			out[strings.ToUpper(principal)] = int(level)
		default:
			out[principal] = int(level)
		}
	}
	return out
}

// attributesSystemBlock folds a UIR attribute map into the
// `system.attributes` passthrough block (spec §9 Open Question 2
// resolution: system-specific sheet data beyond the UIR's own attribute
// map is passed through rather than simulated).
func attributesSystemBlock(attrs map[string]ir.AttributeValue) map[string]any {
	out := make(map[string]any, len(attrs))
	for name, v := range attrs {
		switch v.Kind {
		case ir.AttributeValueNumber:
			out[name] = v.NumberValue
		case ir.AttributeValueBoolean:
			out[name] = v.BoolValue
		default:
			out[name] = v.TextValue
		}
	}
	return out
}
