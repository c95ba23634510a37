// Package roll20 implements plugin.InputPlugin for Roll20 campaign JSON
// exports, ported from original_source/crates/ttrpg-formats/src/roll20.rs.
// The wire shapes below follow the literal export shown in spec scenario
// A rather than the original Rust's HashMap-keyed attribute map: a real
// Roll20 export serializes character attributes as a JSON array of
// {name, current, max} objects, one per sheet attribute row.
package roll20

import "encoding/json"

// document is the root shape of a Roll20 campaign export.
type document struct {
	Campaign   campaignMeta    `json:"campaign"`
	Characters []character     `json:"characters"`
	Pages      []page           `json:"pages"`
	Handouts   []handout        `json:"handouts"`
	Journal    []journalEntry   `json:"journal"`
	Assets     []asset          `json:"assets"`
}

type campaignMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
}

type character struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Attributes       []attribute `json:"attributes"`
	Abilities        []ability   `json:"abilities"`
	Bio              string      `json:"bio"`
	GMNotes          string      `json:"gmnotes"`
	Archived         bool        `json:"archived"`
	InPlayerJournals string      `json:"inplayerjournals"`
	ControlledBy     string      `json:"controlledby"`
	Avatar           string      `json:"avatar"`
}

type attribute struct {
	Name    string          `json:"name"`
	Current json.RawMessage `json:"current"`
	Max     json.RawMessage `json:"max"`
}

type ability struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Action      *string `json:"action"`
	AbilityType *string `json:"istokenaction"`
}

type page struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	BackgroundURL string  `json:"background_url"`
	Width         *float64 `json:"width"`
	Height        *float64 `json:"height"`
	GridSize      *float64 `json:"snapping_increment"`
	Tokens        []token  `json:"tokens"`
}

type token struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL string  `json:"imgsrc"`
	CharID   string  `json:"represents"`
	X        float64 `json:"left"`
	Y        float64 `json:"top"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

type handout struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Content  string `json:"notes"`
	ImageURL string `json:"avatar"`
}

type journalEntry struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type asset struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	AssetType string  `json:"asset_type"`
	Size      *uint64 `json:"size"`
}
