package lastfm

// recentTracksResponse mirrors the user.getrecenttracks JSON envelope.
// Only the fields the fetcher reads are declared.
type recentTracksResponse struct {
	RecentTracks struct {
		Track []recentTrack `json:"track"`
	} `json:"recenttracks"`
}

// recentTrack is one listening event. Last.fm nests artist and album names
// under the "#text" key.
type recentTrack struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Artist struct {
		Text string `json:"#text"`
	} `json:"artist"`
	Album struct {
		Text string `json:"#text"`
	} `json:"album"`
}
