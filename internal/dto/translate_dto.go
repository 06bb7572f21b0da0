package dto

type TranslateRequest struct {
	Text           string `json:"text" validate:"required,min=1"`
	TargetLanguage string `json:"target_language"`
}

type TranslateResponse struct {
	Translated     string `json:"translated"`
	TargetLanguage string `json:"target_language"`
}
