package dto

import "github.com/lac-hong-legacy/mooc_api/model"

type VideoContentResponse struct {
	Type        model.ModuleType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	VideoURL    string           `json:"video_url"`
	Filename    string           `json:"filename"`
}

type QuizContentResponse struct {
	Type             model.ModuleType `json:"type"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	QuizType         string           `json:"quiz_type"`
	IframeURL        string           `json:"iframe_url"`
	IframeHTML       string           `json:"iframe_html"`
	CompletionMethod string           `json:"completion_method"`
}

type ComicPage struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type ComicContentResponse struct {
	Type  model.ModuleType `json:"type"`
	Title string           `json:"title"`
	Pages []ComicPage      `json:"pages"`
}
