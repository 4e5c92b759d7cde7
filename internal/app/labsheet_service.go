package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"labsheet/internal/ai"
	"labsheet/internal/document"
	"labsheet/internal/export"
	"labsheet/internal/logging"
	"labsheet/internal/model"
	"labsheet/internal/prompt"
	"labsheet/internal/richtext"
	"labsheet/internal/store"
	"labsheet/internal/upload"
)

const (
	// OutputPlaceholder is displayed while no lab sheet has been generated.
	OutputPlaceholder = `Get your free Cohere API key from: https://dashboard.cohere.ai/api-keys

Benefits of using Cohere:
✓ Generous free tier (no credit card required initially)
✓ High-quality text generation
✓ Fast response times
✓ Great for educational content

Enter your API key above and configure your lab sheet parameters to get started!`

	LoadingMessage = "Generating your lab sheet with Cohere AI..."
)

const defaultClaimTTL = 2 * time.Minute

type LabSheetService struct {
	store         store.Store
	generator     ai.Generator
	logger        *zap.Logger
	defaultAPIKey string
	defaultModel  string
	claimTTL      time.Duration
	locks         *keyedMutex
	now           func() time.Time
}

type ServiceOptions struct {
	// DefaultAPIKey is used when a generation request carries no key.
	DefaultAPIKey string
	DefaultModel  string
	// GenerationTimeout bounds one upstream call. The generation claim lives
	// a little longer so it outlasts the call it guards.
	GenerationTimeout time.Duration
}

func NewLabSheetService(st store.Store, generator ai.Generator, logger *zap.Logger, opts ServiceOptions) *LabSheetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultModel := opts.DefaultModel
	if !model.IsKnownModel(defaultModel) {
		defaultModel = model.DefaultModel
	}
	claimTTL := defaultClaimTTL
	if opts.GenerationTimeout > 0 {
		claimTTL = opts.GenerationTimeout + 30*time.Second
	}
	return &LabSheetService{
		store:         st,
		generator:     generator,
		logger:        logger,
		defaultAPIKey: strings.TrimSpace(opts.DefaultAPIKey),
		defaultModel:  defaultModel,
		claimTTL:      claimTTL,
		locks:         newKeyedMutex(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// FormInput updates form fields; nil fields are left alone. The API key is
// never part of it.
type FormInput struct {
	Subject      *string
	Experiment   *string
	Model        *string
	CustomPrompt *string
}

type GenerateResult struct {
	Content  string      `json:"content"`
	Failed   bool        `json:"failed"`
	Category ai.Category `json:"category,omitempty"`
	Model    string      `json:"model"`
}

type OutputView struct {
	Content        string    `json:"content"`
	Loading        bool      `json:"loading"`
	Failed         bool      `json:"failed"`
	HasContent     bool      `json:"has_content"`
	Placeholder    string    `json:"placeholder,omitempty"`
	LoadingMessage string    `json:"loading_message,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ExportFile struct {
	Filename string
	MimeType string
	Data     []byte
}

func (s *LabSheetService) CreateWorkspace(ctx context.Context) (*model.Workspace, error) {
	now := s.now()
	form := model.DefaultForm()
	form.Model = s.defaultModel
	ws := &model.Workspace{
		ID:        uuid.NewString(),
		Form:      form,
		Sections:  document.DefaultSections(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("save workspace failed: %w", err)
	}
	s.logger.Info("workspace created", zap.String("workspace_id", ws.ID))
	return ws, nil
}

func (s *LabSheetService) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	return s.load(ctx, id)
}

func (s *LabSheetService) UpdateForm(ctx context.Context, id string, input FormInput) (*model.Workspace, error) {
	if input.Model != nil && !model.IsKnownModel(strings.TrimSpace(*input.Model)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidModel, *input.Model)
	}
	return s.mutate(ctx, id, func(ws *model.Workspace) error {
		if input.Subject != nil {
			ws.Form.Subject = *input.Subject
		}
		if input.Experiment != nil {
			ws.Form.Experiment = *input.Experiment
		}
		if input.Model != nil {
			ws.Form.Model = strings.TrimSpace(*input.Model)
		}
		if input.CustomPrompt != nil {
			ws.Form.CustomPrompt = *input.CustomPrompt
		}
		return nil
	})
}

func (s *LabSheetService) AddSection(ctx context.Context, id, name string) (model.Section, error) {
	var added model.Section
	_, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		sections, section, err := document.Add(ws.Sections, name)
		if err != nil {
			return sectionErr(err)
		}
		ws.Sections = sections
		added = section
		return nil
	})
	return added, err
}

func (s *LabSheetService) UpdateSection(ctx context.Context, id, sectionID string, patch document.SectionPatch) (model.Section, error) {
	var updated model.Section
	_, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		section, err := document.Update(ws.Sections, sectionID, patch)
		if err != nil {
			return sectionErr(err)
		}
		updated = section
		return nil
	})
	return updated, err
}

func (s *LabSheetService) RemoveSection(ctx context.Context, id, sectionID string) error {
	_, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		sections, err := document.Remove(ws.Sections, sectionID)
		if err != nil {
			return sectionErr(err)
		}
		ws.Sections = sections
		return nil
	})
	return err
}

func (s *LabSheetService) MoveSection(ctx context.Context, id, sectionID string, to int) ([]model.Section, error) {
	ws, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		sections, err := document.Move(ws.Sections, sectionID, to)
		if err != nil {
			return sectionErr(err)
		}
		ws.Sections = sections
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws.Sections, nil
}

// AttachImages encodes the uploads before taking the workspace lock, then
// appends them to the section in upload order. An unknown section is
// reported before any upload is read.
func (s *LabSheetService) AttachImages(ctx context.Context, id, sectionID string, sources []document.ImageSource) (model.Section, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return model.Section{}, err
	}
	if _, ok := document.Find(ws.Sections, sectionID); !ok {
		return model.Section{}, ErrSectionNotFound
	}
	images, err := document.EncodeImages(ctx, sources)
	if err != nil {
		return model.Section{}, err
	}
	var updated model.Section
	_, err = s.mutate(ctx, id, func(ws *model.Workspace) error {
		section, err := document.AppendImages(ws.Sections, sectionID, images)
		if err != nil {
			return sectionErr(err)
		}
		updated = section
		return nil
	})
	if err == nil {
		s.logger.Debug("images attached",
			zap.String("workspace_id", id),
			zap.String("section_id", sectionID),
			zap.Int("accepted", len(images)),
			zap.Int("uploaded", len(sources)),
		)
	}
	return updated, err
}

func (s *LabSheetService) RemoveImage(ctx context.Context, id, sectionID string, index int) (model.Section, error) {
	var updated model.Section
	_, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		section, err := document.RemoveImage(ws.Sections, sectionID, index)
		if err != nil {
			return sectionErr(err)
		}
		updated = section
		return nil
	})
	return updated, err
}

func (s *LabSheetService) BuildPrompt(ctx context.Context, id string) (string, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	return prompt.Build(prompt.FromForm(ws.Form, ws.Sections)), nil
}

// Generate runs one generation for the workspace. A missing key fails before
// any state changes. Generation failures are stored as content and reported
// in the result, not as an error.
func (s *LabSheetService) Generate(ctx context.Context, id, apiKey string) (*GenerateResult, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = s.defaultAPIKey
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	token, err := s.store.ClaimGeneration(ctx, id, s.claimTTL)
	if errors.Is(err, store.ErrClaimed) {
		return nil, ErrGenerationInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("claim generation failed: %w", err)
	}
	// The claim must go even if the request is cancelled mid-call; if this
	// release fails the claim still lapses after claimTTL.
	settleCtx := context.WithoutCancel(ctx)
	defer func() {
		if err := s.store.ReleaseGeneration(settleCtx, id, token); err != nil {
			s.logger.Error("release generation claim failed", zap.String("workspace_id", id), zap.Error(err))
		}
	}()

	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	modelID := ws.Form.Model
	if modelID == "" {
		modelID = s.defaultModel
	}
	req := ai.GenerateRequest{
		APIKey: key,
		Model:  modelID,
		Prompt: prompt.Build(prompt.FromForm(ws.Form, ws.Sections)),
	}

	start := time.Now()
	text, genErr := s.generator.Generate(ctx, req)
	result := &GenerateResult{Content: text, Model: req.Model}
	fields := []zap.Field{
		zap.String("workspace_id", id),
		zap.String("model", req.Model),
		zap.String("api_key", logging.MaskSecret(key)),
		zap.Int("prompt_chars", len(req.Prompt)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if genErr != nil {
		result.Content = ai.FailureMessage(genErr)
		result.Failed = true
		result.Category = ai.Classify(genErr)
		s.logger.Warn("generation failed", append(fields, zap.String("category", string(result.Category)), zap.Error(genErr))...)
	} else {
		s.logger.Info("generation finished", append(fields, zap.Int("content_chars", len(text)))...)
	}

	if _, err := s.mutate(settleCtx, id, func(ws *model.Workspace) error {
		ws.Output.Text = result.Content
		ws.Output.Failed = result.Failed
		ws.Output.UpdatedAt = s.now()
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *LabSheetService) Output(ctx context.Context, id string) (*OutputView, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	loading, err := s.store.Generating(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check generation failed: %w", err)
	}
	view := &OutputView{
		Content:    ws.Output.Text,
		Loading:    loading,
		Failed:     ws.Output.Failed,
		HasContent: ws.Output.Text != "",
		UpdatedAt:  ws.Output.UpdatedAt,
	}
	switch {
	case view.Loading:
		view.LoadingMessage = LoadingMessage
	case !view.HasContent:
		view.Placeholder = OutputPlaceholder
	}
	return view, nil
}

func (s *LabSheetService) ExportOutput(ctx context.Context, id string, format export.Format) (*ExportFile, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.export(format, export.VariantOutput, export.Payload{Text: ws.Output.Text})
}

// OpenEditor loads a detached copy of the current output into the editor.
// Reopening discards earlier edits.
func (s *LabSheetService) OpenEditor(ctx context.Context, id string) (*richtext.Document, error) {
	ws, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		ws.Editor = richtext.FromPlainText(ws.Output.Text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws.Editor, nil
}

func (s *LabSheetService) ApplyEditorCommand(ctx context.Context, id string, cmd richtext.Command) (*richtext.Document, error) {
	ws, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		if ws.Editor == nil {
			return ErrEditorClosed
		}
		if err := ws.Editor.Apply(cmd); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws.Editor, nil
}

func (s *LabSheetService) EditorState(ctx context.Context, id string) (*richtext.Document, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws.Editor == nil {
		return nil, ErrEditorClosed
	}
	return ws.Editor, nil
}

// ExportEditor exports the editor's plain text; the toolbar size carries into
// the Word export.
func (s *LabSheetService) ExportEditor(ctx context.Context, id string, format export.Format) (*ExportFile, error) {
	doc, err := s.EditorState(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.export(format, export.VariantEditor, export.Payload{
		Text:       doc.PlainText(),
		FontSizePx: doc.Toolbar.FontSizePx,
	})
}

func (s *LabSheetService) UploadTemplate(ctx context.Context, id, name, contentType string, size int64) (*model.TemplateInfo, error) {
	info, err := upload.Accept(name, contentType, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		ws.Template = info
		return nil
	}); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *LabSheetService) RemoveTemplate(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, id, func(ws *model.Workspace) error {
		ws.Template = nil
		return nil
	})
	return err
}

func (s *LabSheetService) export(format export.Format, variant export.Variant, payload export.Payload) (*ExportFile, error) {
	exporter, err := export.New(format, variant)
	if err != nil {
		return nil, err
	}
	data, err := exporter.Export(payload)
	if err != nil {
		if !errors.Is(err, export.ErrNothingToExport) {
			s.logger.Error("export failed",
				zap.String("format", string(format)),
				zap.String("variant", string(variant)),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return &ExportFile{
		Filename: exporter.Filename(),
		MimeType: exporter.MimeType(),
		Data:     data,
	}, nil
}

func (s *LabSheetService) load(ctx context.Context, id string) (*model.Workspace, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrWorkspaceNotFound
	}
	ws, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load workspace failed: %w", err)
	}
	return ws, nil
}

// mutate is the single write path for workspace state. fn runs on a private
// copy, which is saved only if fn succeeds. The store makes the step atomic
// across replicas; the local lock keeps writers in this process from
// retrying against each other.
func (s *LabSheetService) mutate(ctx context.Context, id string, fn func(ws *model.Workspace) error) (*model.Workspace, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrWorkspaceNotFound
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	ws, err := s.store.Update(ctx, id, func(ws *model.Workspace) error {
		if err := fn(ws); err != nil {
			return err
		}
		ws.UpdatedAt = s.now()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update workspace failed: %w", err)
	}
	return ws, nil
}

func sectionErr(err error) error {
	switch {
	case errors.Is(err, document.ErrSectionNotFound):
		return ErrSectionNotFound
	case errors.Is(err, document.ErrSectionName),
		errors.Is(err, document.ErrImageIndex),
		errors.Is(err, document.ErrMoveIndex):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}
