package shared

const (
	SessionIDParam = "sessionId"
	ModuleIDParam  = "moduleId"
	FilenameParam  = "filename"

	AssetKindVideos = "videos"
	AssetKindComics = "comics"

	QuizTypeGenially       = "genially"
	CompletionMethodManual = "manual"

	InternalErrorMessage = "Internal server error"
)
