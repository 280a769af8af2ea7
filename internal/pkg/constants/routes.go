package constants

// Static route constants
const (
	EditorRoute  = "/editor"
	BrowseRoute  = "/editor/browse"
	UploadsRoute = "/uploads"
	StaticRoute  = "/static/editorfox"
)
