package ir

// JournalEntry is a handout or GM note. Markdown/HTML content lives in
// Content; vendor-specific rich formatting that doesn't survive
// normalization is preserved in SourceData.
type JournalEntry struct {
	ID          string
	Title       string
	Content     string
	Image       *string
	Permissions EntityPermissions
	SourceData  map[string]any
}

// NewJournalEntry returns a JournalEntry with a minted ID.
func NewJournalEntry(title string) JournalEntry {
	return JournalEntry{ID: NewID(), Title: title, Permissions: NewEntityPermissions(), SourceData: map[string]any{}}
}

// Macro is a saved command/automation script. VisibleTo lists the
// principals (roles or user IDs) permitted to execute it.
type Macro struct {
	ID        string
	Name      string
	Command   string
	VisibleTo []string
}

// AudioTrack is one entry of a Playlist.
type AudioTrack struct {
	Name   string
	Source string
	Volume float32
}

// Playlist groups AudioTracks with playback behavior.
type Playlist struct {
	ID      string
	Name    string
	Tracks  []AudioTrack
	Shuffle bool
	Repeat  bool
}

// Encounter records a combat/scene setup: the actors involved and, when
// initiative has been rolled, their turn order. Ordering in
// InitiativeOrder is significant and preserved verbatim from the source.
type Encounter struct {
	ID               string
	Name             string
	Description      *string
	ParticipantIDs   []string
	InitiativeOrder  []string
}

// NewEncounter returns an Encounter with a minted ID.
func NewEncounter(name string) Encounter {
	return Encounter{ID: NewID(), Name: name}
}
