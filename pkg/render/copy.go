package render

// Copy shared by every surface.
const (
	FormHeading        = "Create Content"
	ResultsHeading     = "Results"
	IdleMessage        = "Fill the form and generate content!"
	LoadingMessage     = "AI is working..."
	DefaultSubmitLabel = "Generate Content"
	DefaultBusyLabel   = "Generating..."
	ContentHeading     = "Generated Content:"
	ImagePromptHeading = "Image Prompt:"
	ComplianceHeading  = "Compliance:"
	TimeLabel          = "Time:"
	ModelLabel         = "Model:"
)
