package dto

// AssetLocation tells the router how to deliver a media file: stream the
// local FilePath, or redirect to RedirectURL.
type AssetLocation struct {
	Kind        string `json:"kind"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	FilePath    string `json:"-"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

func (a AssetLocation) IsRedirect() bool {
	return a.RedirectURL != ""
}
