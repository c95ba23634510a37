package foundry

import "ttrpgconv/internal/ir"

// assetResolver maps an original source reference to its post-processing
// location (local cache path or format-specific rewritten reference).
// Passed down through every build* function rather than mutating the
// UIR's own *string fields in place, since GenerateOutput must not mutate
// campaign (spec's OutputPlugin.GenerateOutput contract).
type assetResolver func(source string) string

func resolveOpt(resolve assetResolver, ref *string) string {
	if ref == nil {
		return ""
	}
	return resolve(*ref)
}

// buildActorDocument converts a UIR Actor to its Foundry pack-entry shape.
// Items/Features/Spells all become Foundry "items" sub-documents embedded
// directly under the actor (Foundry has no separate compendium for an
// actor's own inventory); Features and Spells get a system.type tag since
// Foundry itself distinguishes them by item type rather than by a parallel
// list the way the UIR does.
func buildActorDocument(actor ir.Actor, resolve assetResolver) ActorDocument {
	doc := ActorDocument{
		BaseDocument: BaseDocument{
			ID:        ensureFoundryID(actor.ID),
			Name:      actor.Name,
			Img:       resolveOpt(resolve, actor.Images.Avatar),
			Ownership: toOwnership(actor.Permissions),
		},
		Type:   actorFoundryType(actor.Type),
		System: map[string]any{"attributes": attributesSystemBlock(actor.Attributes), "biography": actor.Biography, "notes": actor.Notes},
	}

	for _, item := range actor.Items {
		doc.Items = append(doc.Items, buildItemDocument(item, resolve))
	}
	for _, feat := range actor.Features {
		doc.Items = append(doc.Items, ItemDocument{
			BaseDocument: BaseDocument{ID: ensureFoundryID(feat.ID), Name: feat.Name},
			Type:         "feat",
			System:       map[string]any{"description": feat.Description},
		})
	}
	for _, sp := range actor.Spells {
		doc.Items = append(doc.Items, ItemDocument{
			BaseDocument: BaseDocument{ID: ensureFoundryID(sp.ID), Name: sp.Name},
			Type:         "spell",
			System: map[string]any{
				"description": sp.Description,
				"level":       sp.Level,
				"school":      sp.School,
			},
		})
	}
	return doc
}

func actorFoundryType(t ir.ActorType) string {
	if t == ir.ActorTypePC {
		return "character"
	}
	return "npc"
}

// buildItemDocument converts a UIR Item to its Foundry pack-entry shape.
func buildItemDocument(item ir.Item, resolve assetResolver) ItemDocument {
	doc := ItemDocument{
		BaseDocument: BaseDocument{ID: ensureFoundryID(item.ID), Name: item.Name, Img: resolveOpt(resolve, item.Image)},
		Type:         itemFoundryType(item.Type),
		System: map[string]any{
			"description": item.Description,
			"rarity":      item.Properties.Rarity,
			"attunement":  item.Properties.Attunement,
			"weight":      item.Properties.WeightLb,
			"cost":        item.Properties.Cost,
			"quantity":    item.Properties.Quantity,
		},
	}
	return doc
}

func itemFoundryType(t ir.ItemType) string {
	switch t {
	case ir.ItemTypeWeapon:
		return "weapon"
	case ir.ItemTypeArmor:
		return "equipment"
	case ir.ItemTypeConsumable:
		return "consumable"
	case ir.ItemTypeTool:
		return "tool"
	case ir.ItemTypeTreasure, ir.ItemTypeOther:
		return "loot"
	default:
		return "equipment"
	}
}

// buildSceneDocument converts a UIR Scene to its Foundry pack-entry shape.
// Token/Wall sub-documents mint their own Foundry-shaped IDs independently
// of the parent scene's.
func buildSceneDocument(scene ir.Scene, playlistID string, resolve assetResolver) SceneDocument {
	doc := SceneDocument{
		BaseDocument: BaseDocument{ID: ensureFoundryID(scene.ID), Name: scene.Name, Ownership: toOwnership(scene.Permissions)},
		Width:        scene.Dimensions.WidthPx,
		Height:       scene.Dimensions.HeightPx,
		Grid: SceneGrid{
			Type:  sceneGridFoundryType(scene.Grid.GridType),
			Size:  scene.Grid.Size,
			Color: scene.Grid.Color,
			Alpha: scene.Grid.Opacity,
		},
		Playlist:   playlistID,
		Background: SceneBackground{Src: resolveOpt(resolve, scene.BackgroundImage)},
	}
	for _, t := range scene.Tokens {
		doc.Tokens = append(doc.Tokens, buildTokenDocument(t, resolve))
	}
	for _, w := range scene.Walls {
		move, sight := 1, 1
		if !w.BlocksMove {
			move = 0
		}
		if !w.BlocksLight {
			sight = 0
		}
		doc.Walls = append(doc.Walls, WallDocument{
			ID:    ensureFoundryID(w.ID),
			C:     [4]float64{w.Start.X, w.Start.Y, w.End.X, w.End.Y},
			Move:  move,
			Sight: sight,
		})
	}
	return doc
}

func sceneGridFoundryType(t ir.SceneGridType) int {
	switch t {
	case ir.SceneGridSquare:
		return 1
	case ir.SceneGridHexR:
		return 2
	case ir.SceneGridHexC:
		return 3
	default:
		return 0
	}
}

func buildTokenDocument(t ir.Token, resolve assetResolver) TokenDocument {
	doc := TokenDocument{
		ID:      ensureFoundryID(t.ID),
		X:       t.Position.X,
		Y:       t.Position.Y,
		Width:   t.Size.W,
		Height:  t.Size.H,
		Hidden:  t.Hidden,
		Texture: TokenTexture{Src: resolveOpt(resolve, t.Image)},
	}
	if t.ActorID != nil {
		doc.ActorID = ensureFoundryID(*t.ActorID)
	}
	return doc
}

// buildJournalEntryDocument converts a UIR JournalEntry to a single-page
// Foundry JournalEntry document, grounded on journal_page.rs's
// text.content/format(1=HTML) shape. A text page always declares format 1
// (HTML) and carries entry.Content unchanged; an image page carries an
// empty text block instead.
func buildJournalEntryDocument(entry ir.JournalEntry, resolve assetResolver) JournalEntryDocument {
	doc := JournalEntryDocument{
		BaseDocument: BaseDocument{ID: ensureFoundryID(entry.ID), Name: entry.Title, Ownership: toOwnership(entry.Permissions)},
	}
	page := JournalPageDocument{
		ID:   ensureFoundryID(entry.ID + "-page"),
		Name: entry.Title,
		Type: "text",
		Text: JournalPageText{Content: entry.Content, Format: 1},
	}
	if entry.Image != nil {
		page.Src = resolveOpt(resolve, entry.Image)
		page.Image = &JournalPageImage{}
		page.Type = "image"
		page.Text = JournalPageText{}
	}
	doc.Pages = []JournalPageDocument{page}
	return doc
}

func buildMacroDocument(m ir.Macro) MacroDocument {
	doc := MacroDocument{
		BaseDocument: BaseDocument{ID: ensureFoundryID(m.ID), Name: m.Name},
		Type:         "script",
		Command:      m.Command,
	}
	perm := ir.NewEntityPermissions()
	for _, principal := range m.VisibleTo {
		perm.Grant(principal, ir.PermissionObserver)
	}
	doc.Ownership = toOwnership(perm)
	return doc
}

func buildPlaylistDocument(p ir.Playlist) PlaylistDocument {
	doc := PlaylistDocument{
		BaseDocument: BaseDocument{ID: ensureFoundryID(p.ID), Name: p.Name},
		Mode:         playlistModeCode(p.Shuffle, p.Repeat),
	}
	for _, track := range p.Tracks {
		doc.Sounds = append(doc.Sounds, PlaylistSoundDocument{
			ID:     ensureFoundryID(p.ID + "-" + track.Name),
			Name:   track.Name,
			Path:   track.Source,
			Volume: float64(track.Volume),
			Repeat: p.Repeat,
		})
	}
	return doc
}

// playlistModeCode encodes Foundry's playlist mode enum: -1 disabled,
// 0 sequential, 1 shuffle, 2 simultaneous, 3 soundboard. Repeat alone (no
// shuffle) maps to sequential since Foundry's sequential mode already
// loops back to the first track.
func playlistModeCode(shuffle, repeat bool) float64 {
	if shuffle {
		return 1
	}
	if repeat {
		return 0
	}
	return 0
}

// buildRollTableDocument converts a UIR RollTable to its Foundry pack-entry
// shape, grounded on rollable_table.rs's
// FoundryVttRollTable{formula, replacement, display_roll, results[]}.
func buildRollTableDocument(t ir.RollTable) map[string]any {
	results := make([]map[string]any, 0, len(t.Results))
	for _, r := range t.Results {
		entry := map[string]any{
			"_id":    ensureFoundryID(r.ID),
			"text":   r.Text,
			"weight": r.Weight,
			"range":  []int{r.Range[0], r.Range[1]},
			"type":   0,
		}
		if r.Image != nil {
			entry["img"] = *r.Image
		}
		results = append(results, entry)
	}
	return map[string]any{
		"_id":          ensureFoundryID(t.ID),
		"name":         t.Name,
		"description":  t.Description,
		"formula":      t.Formula,
		"replacement":  t.Replacement,
		"displayRoll":  t.DisplayRoll,
		"results":      results,
	}
}
