// Package editor holds the fixed media catalog offered by the clip editor.
package editor

type Track struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// Overlay is the editor's initial text overlay. Position is a percentage of
// the player's width and height.
type Overlay struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type Catalog struct {
	SoundEffects []Track `json:"sound_effects"`
	Music        []Track `json:"music"`
	Overlay      Overlay `json:"overlay"`
	// LeadInSeconds is how far before the highlight playback starts.
	LeadInSeconds int `json:"lead_in_seconds"`
}

var soundEffects = []Track{
	{Name: "Vine Boom", Src: "https://cdn.jsdelivr.net/gh/Nato-V/Files/vine-boom.mp3"},
	{Name: "Sad Trombone", Src: "https://cdn.jsdelivr.net/gh/Nato-V/Files/sad-trombone.mp3"},
	{Name: "Air Horn", Src: "https://cdn.jsdelivr.net/gh/Nato-V/Files/mlg-airhorn.mp3"},
}

var music = []Track{
	{Name: "Epic Action", Src: "https://cdn.pixabay.com/download/audio/2022/10/26/audio_58403337f7.mp3"},
	{Name: "Chill Lofi", Src: "https://cdn.pixabay.com/download/audio/2022/02/07/audio_8b27210092.mp3"},
	{Name: "Funny", Src: "https://cdn.pixabay.com/download/audio/2022/06/14/audio_3ef09a5525.mp3"},
}

// Default returns a fresh copy of the catalog.
func Default(leadInSeconds int) Catalog {
	return Catalog{
		SoundEffects:  append([]Track{}, soundEffects...),
		Music:         append([]Track{}, music...),
		Overlay:       Overlay{Text: "Your Text Here", X: 50, Y: 80},
		LeadInSeconds: leadInSeconds,
	}
}
