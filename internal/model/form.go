package model

const (
	ModelCommand        = "command"
	ModelCommandLight   = "command-light"
	ModelCommandNightly = "command-nightly"

	DefaultModel = ModelCommand
)

// Models lists the selectable generation models in display order.
var Models = []ModelOption{
	{ID: ModelCommand, Label: "Command (Recommended)"},
	{ID: ModelCommandLight, Label: "Command Light (Faster)"},
	{ID: ModelCommandNightly, Label: "Command Nightly (Latest)"},
}

type ModelOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func IsKnownModel(id string) bool {
	for _, m := range Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// FormData holds the generation parameters. APIKey never leaves the process:
// it is excluded from every serialized form of the workspace.
type FormData struct {
	Subject      string `json:"subject"`
	Experiment   string `json:"experiment"`
	APIKey       string `json:"-"`
	Model        string `json:"model"`
	CustomPrompt string `json:"custom_prompt"`
}

func DefaultForm() FormData {
	return FormData{Model: DefaultModel}
}
