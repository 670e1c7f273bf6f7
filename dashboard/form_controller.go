package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/aionx/connect-dashboard/connections"
	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

// FormValues are the user-entered draft fields.
type FormValues struct {
	Name      string
	ServerID  string
	ChannelID string
	Token     string
}

// FormSnapshot is a point-in-time copy of the form state for rendering.
type FormSnapshot struct {
	Values     FormValues
	Submitting bool
	FieldError string
}

// FormController collects and validates a draft connection, submits it, and
// resets on success. Entered values are preserved on failure.
type FormController struct {
	repo         ConnectionRepo
	notifier     Notifier
	onCreated    func()
	requireToken bool

	mu         sync.Mutex
	values     FormValues
	submitting bool
	fieldError string
}

// FormOption defines a function type to modify the FormController instance.
type FormOption func(*FormController)

// WithOnCreated registers a callback invoked after a successful create, so a
// sibling list can refresh.
func WithOnCreated(fn func()) FormOption {
	return func(fc *FormController) {
		fc.onCreated = fn
	}
}

// WithRequireToken makes the token field mandatory. Deployment policy; the
// default leaves it optional.
func WithRequireToken(required bool) FormOption {
	return func(fc *FormController) {
		fc.requireToken = required
	}
}

// NewFormController initializes an empty form.
func NewFormController(repo ConnectionRepo, notifier Notifier, options ...FormOption) (*FormController, error) {
	if repo == nil {
		return nil, errors.New("[NewFormController] repo is required")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	fc := &FormController{
		repo:     repo,
		notifier: notifier,
	}
	for _, opt := range options {
		opt(fc)
	}
	return fc, nil
}

// SetValues replaces the entered draft fields.
func (fc *FormController) SetValues(values FormValues) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.values = values
}

// Snapshot returns a copy of the current form state.
func (fc *FormController) Snapshot() FormSnapshot {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return FormSnapshot{
		Values:     fc.values,
		Submitting: fc.submitting,
		FieldError: fc.fieldError,
	}
}

// Submit validates the entered values and creates the connection for userID.
// Validation failures block submission before any backend call; backend
// failures keep the entered values and surface an error notification. On
// success the form resets to empty defaults and the created callback fires.
func (fc *FormController) Submit(ctx context.Context, userID string) error {
	fc.mu.Lock()
	if fc.submitting {
		fc.mu.Unlock()
		return nil
	}
	fc.submitting = true
	values := fc.values
	fc.mu.Unlock()

	defer func() {
		fc.mu.Lock()
		fc.submitting = false
		fc.mu.Unlock()
	}()

	draft := connections.Draft{
		UserID:    userID,
		Name:      values.Name,
		ServerID:  values.ServerID,
		ChannelID: values.ChannelID,
	}
	if token := strings.TrimSpace(values.Token); token != "" {
		draft.Token = &token
	}

	if err := fc.validate(draft); err != nil {
		fc.mu.Lock()
		fc.fieldError = userMessage(err, "Please fill in the required fields.")
		fc.mu.Unlock()
		return err
	}

	// The draft is valid; an earlier attempt's field error must not linger.
	fc.mu.Lock()
	fc.fieldError = ""
	fc.mu.Unlock()

	if _, err := fc.repo.Create(ctx, draft); err != nil {
		fc.notifier.Error("Failed to create connection", userMessage(err, "Could not create the connection."))
		return errors.Wrap(err, "[FormController.Submit] repo.Create")
	}

	fc.mu.Lock()
	fc.values = FormValues{}
	fc.fieldError = ""
	fc.mu.Unlock()

	fc.notifier.Success("Connection created", "The connection was added.")
	if fc.onCreated != nil {
		fc.onCreated()
	}
	return nil
}

func (fc *FormController) validate(draft connections.Draft) error {
	if err := draft.Trimmed().Validate(); err != nil {
		return err
	}
	if fc.requireToken && (draft.Token == nil || strings.TrimSpace(*draft.Token) == "") {
		return interrors.Validationf("token is required")
	}
	return nil
}
