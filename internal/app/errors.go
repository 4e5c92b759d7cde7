package app

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrInvalidModel       = errors.New("unknown generation model")
	ErrMissingAPIKey      = errors.New("missing api key")
	ErrEditorClosed       = errors.New("editor is not open")
	ErrGenerationInFlight = errors.New("generation already in progress")
)

// MissingAPIKeyMessage is shown to the user when no key was supplied.
const MissingAPIKeyMessage = "Please enter your Cohere API key"
