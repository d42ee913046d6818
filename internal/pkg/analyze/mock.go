package analyze

import "encoding/json"

// Placeholder returns the canned analysis shown when every analysis host
// failed. Tagged Degraded so it is never mistaken for a real result.
func Placeholder() *RoomAnalysis {
	content := func(s string) json.RawMessage {
		raw, _ := json.Marshal(s)
		return raw
	}

	return &RoomAnalysis{
		Degraded: true,
		RoomDetails: RoomDetails{
			RoomType:     "living room",
			CurrentStyle: "contemporary",
			Furniture:    []string{"sofa", "coffee table", "bookshelf"},
			ColorScheme:  []string{"neutral beige", "soft gray", "white"},
			Lighting:     "natural daylight",
		},
		Flashcards: []Flashcard{
			{
				Card:    1,
				Title:   "Refresh your color palette",
				Content: content("Warm earth tones with off-white walls open up the space and complement natural light."),
			},
			{
				Card:    2,
				Title:   "Rearrange for flow",
				Content: content("Float the sofa away from the wall and anchor the seating area with a large rug."),
			},
			{
				Card:    3,
				Title:   "Layer your lighting",
				Content: content("Combine a floor lamp, table lamps and candles to add depth in the evening."),
			},
		},
	}
}
