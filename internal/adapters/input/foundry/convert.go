package foundry

import (
	"encoding/json"

	outfoundry "ttrpgconv/internal/adapters/output/foundry"
	"ttrpgconv/internal/ir"
)

func fromOwnership(ownership map[string]int) ir.EntityPermissions {
	perms := ir.NewEntityPermissions()
	for principal, level := range ownership {
		if principal == "default" {
			perms.Default = ir.PermissionLevel(level)
			continue
		}
		perms.Grant(principal, ir.PermissionLevel(level))
	}
	return perms
}

func fromSystemBlock(system map[string]any) map[string]ir.AttributeValue {
	out := make(map[string]ir.AttributeValue, len(system))
	for name, raw := range system {
		switch v := raw.(type) {
		case float64:
			out[name] = ir.NumberAttribute(v)
		case bool:
			out[name] = ir.BoolAttribute(v)
		case string:
			out[name] = ir.TextAttribute(v)
		}
	}
	return out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func actorTypeFromFoundry(t string) ir.ActorType {
	if t == "character" {
		return ir.ActorTypePC
	}
	return ir.ActorTypeNPC
}

func itemTypeFromFoundry(t string) ir.ItemType {
	switch t {
	case "weapon":
		return ir.ItemTypeWeapon
	case "equipment":
		return ir.ItemTypeArmor
	case "consumable":
		return ir.ItemTypeConsumable
	case "tool":
		return ir.ItemTypeTool
	case "loot":
		return ir.ItemTypeTreasure
	default:
		return ir.ItemTypeOther
	}
}

func convertItem(doc outfoundry.ItemDocument) ir.Item {
	item := ir.NewItem(doc.Name, itemTypeFromFoundry(doc.Type))
	item.ID = doc.ID
	item.Image = optionalString(doc.Img)
	for k, v := range fromSystemBlock(doc.System) {
		if text, ok := v.AsText(); ok {
			item.Properties.PropertiesMap[k] = text
		}
	}
	return item
}

func convertActor(doc outfoundry.ActorDocument) ir.Actor {
	actor := ir.NewActor(doc.Name, actorTypeFromFoundry(doc.Type))
	actor.ID = doc.ID
	actor.Images.Avatar = optionalString(doc.Img)
	actor.Permissions = fromOwnership(doc.Ownership)
	system := doc.System
	if nested, ok := doc.System["attributes"].(map[string]any); ok {
		system = nested
	}
	actor.Attributes = fromSystemBlock(system)

	for _, itemDoc := range doc.Items {
		switch itemDoc.Type {
		case "feat":
			actor.Features = append(actor.Features, ir.Feature{ID: itemDoc.ID, Name: itemDoc.Name})
		case "spell":
			actor.Spells = append(actor.Spells, ir.Spell{ID: itemDoc.ID, Name: itemDoc.Name})
		default:
			actor.Items = append(actor.Items, convertItem(itemDoc))
		}
	}
	return actor
}

func sceneGridTypeFromFoundry(code int) ir.SceneGridType {
	switch code {
	case 0:
		return ir.SceneGridNone
	case 2:
		return ir.SceneGridHexR
	case 3:
		return ir.SceneGridHexC
	default:
		return ir.SceneGridSquare
	}
}

func convertScene(doc outfoundry.SceneDocument) ir.Scene {
	scene := ir.NewScene(doc.Name)
	scene.ID = doc.ID
	scene.BackgroundImage = optionalString(doc.Background.Src)
	scene.Dimensions = ir.SceneDimensions{WidthPx: doc.Width, HeightPx: doc.Height, GridSizePx: doc.Grid.Size}
	scene.Grid = ir.GridConfig{GridType: sceneGridTypeFromFoundry(doc.Grid.Type), Size: doc.Grid.Size, Color: doc.Grid.Color, Opacity: doc.Grid.Alpha}
	scene.Permissions = fromOwnership(doc.Ownership)

	for _, t := range doc.Tokens {
		token := ir.Token{
			ID:       t.ID,
			Position: ir.Position{X: t.X, Y: t.Y},
			Size:     ir.TokenSize{W: t.Width, H: t.Height},
			Image:    optionalString(t.Texture.Src),
			Hidden:   t.Hidden,
			ActorID:  optionalString(t.ActorID),
		}
		scene.Tokens = append(scene.Tokens, token)
	}

	for _, w := range doc.Walls {
		scene.Walls = append(scene.Walls, ir.Wall{
			ID:          w.ID,
			Start:       ir.Position{X: w.C[0], Y: w.C[1]},
			End:         ir.Position{X: w.C[2], Y: w.C[3]},
			BlocksMove:  w.Move != 0,
			BlocksLight: w.Sight != 0,
		})
	}

	return scene
}

func convertJournalEntry(doc outfoundry.JournalEntryDocument) ir.JournalEntry {
	entry := ir.NewJournalEntry(doc.Name)
	entry.ID = doc.ID
	entry.Permissions = fromOwnership(doc.Ownership)
	if len(doc.Pages) > 0 {
		page := doc.Pages[0]
		entry.Content = page.Text.Content
		if page.Image != nil {
			entry.Image = optionalString(page.Src)
		}
	}
	return entry
}

func convertMacro(doc outfoundry.MacroDocument) ir.Macro {
	macro := ir.Macro{ID: doc.ID, Name: doc.Name, Command: doc.Command}
	for principal, level := range doc.Ownership {
		if principal != "default" && ir.PermissionLevel(level) >= ir.PermissionObserver {
			macro.VisibleTo = append(macro.VisibleTo, principal)
		}
	}
	return macro
}

func playlistModeFromFoundry(mode float64) (shuffle, repeat bool) {
	switch int(mode) {
	case 1:
		return true, false
	case 2:
		return false, true
	default:
		return false, false
	}
}

func convertPlaylist(doc outfoundry.PlaylistDocument) ir.Playlist {
	shuffle, repeat := playlistModeFromFoundry(doc.Mode)
	playlist := ir.Playlist{ID: doc.ID, Name: doc.Name, Shuffle: shuffle, Repeat: repeat}
	for _, sound := range doc.Sounds {
		playlist.Tracks = append(playlist.Tracks, ir.AudioTrack{
			Name:   sound.Name,
			Source: sound.Path,
			Volume: float32(sound.Volume),
		})
	}
	return playlist
}

type rollTableResultDoc struct {
	ID     string `json:"_id"`
	Text   string `json:"text"`
	Weight int    `json:"weight"`
	Range  [2]int `json:"range"`
	Img    string `json:"img,omitempty"`
}

type rollTableDoc struct {
	ID          string                `json:"_id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Formula     string                `json:"formula"`
	Replacement bool                  `json:"replacement"`
	DisplayRoll bool                  `json:"displayRoll"`
	Results     []rollTableResultDoc  `json:"results"`
}

// convertRollTable decodes a packs/tables.db entry. It reads the map[string]any
// shape buildRollTableDocument synthesizes directly via a tagged struct
// rather than importing that unexported helper's return type.
func convertRollTable(raw []byte) (ir.RollTable, error) {
	var doc rollTableDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ir.RollTable{}, err
	}
	table := ir.NewRollTable(doc.Name)
	table.ID = doc.ID
	table.Description = doc.Description
	table.Formula = doc.Formula
	table.Replacement = doc.Replacement
	table.DisplayRoll = doc.DisplayRoll
	for _, r := range doc.Results {
		result := ir.RollTableResult{ID: r.ID, Text: r.Text, Weight: r.Weight, Range: r.Range}
		if r.Img != "" {
			result.Image = optionalString(r.Img)
		}
		table.Results = append(table.Results, result)
	}
	return table, nil
}
