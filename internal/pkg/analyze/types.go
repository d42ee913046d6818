package analyze

import "encoding/json"

// RoomDetails describes the analyzed room.
type RoomDetails struct {
	RoomType     string   `json:"room_type"`
	CurrentStyle string   `json:"current_style"`
	Furniture    []string `json:"furniture"`
	ColorScheme  []string `json:"color_scheme"`
	Lighting     string   `json:"lighting"`
}

// Flashcard is one design suggestion card. Content structure varies between
// cards, so it stays raw.
type Flashcard struct {
	Card    int             `json:"card"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// RoomAnalysis is the analysis service's result. Degraded marks canned
// placeholder results served when the service was unreachable, so they stay
// distinguishable in logs and in the UI.
type RoomAnalysis struct {
	RoomDetails RoomDetails `json:"room_details"`
	Flashcards  []Flashcard `json:"flashcards"`
	Degraded    bool        `json:"degraded,omitempty"`
}
