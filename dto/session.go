package dto

import "github.com/lac-hong-legacy/mooc_api/model"

type StartSessionRequest struct {
	UserName string `json:"user_name" validate:"required,notblank"`
}

func (r StartSessionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	UserName  string `json:"user_name"`
}

type CompleteModuleResponse struct {
	Success      bool                `json:"success"`
	AllCompleted bool                `json:"all_completed"`
	Modules      []model.ModuleState `json:"modules"`
}

type QuizAnswer struct {
	QuestionID     int `json:"question_id" validate:"min=0"`
	SelectedOption int `json:"selected_option" validate:"min=0"`
}

// QuizSubmission is accepted for compatibility with the quiz widget. Answers
// are never scored; the quiz is graded by the widget itself.
type QuizSubmission struct {
	Answers []QuizAnswer `json:"answers" validate:"dive"`
}

func (r QuizSubmission) Validate() error {
	return GetValidator().Struct(r)
}

type QuizAckResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	QuizType string `json:"quiz_type,omitempty"`
}
