package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
	"github.com/bethehero/web/internal/pkg/metrics"
)

// Routes the forms navigate to after a successful submission.
const (
	RouteLogin     = "/"
	RouteIncidents = "/incidents"
)

// Toast texts raised by the forms.
const (
	MsgLoginFailed     = "Usuário e/ou senha incorreto(s)!"
	MsgRegisterFailed  = "Erro ao cadastrar ONG, tente novamente!"
	MsgRegistered      = "ONG cadastrada com sucesso, ID: %s"
	MsgIncidentFailed  = "Erro ao cadastrar caso, tente novamente!"
	MsgIncidentCreated = "Caso cadastrado com sucesso!"
)

// FormResult is the outcome of one submission.
type FormResult struct {
	// Errors holds the per-field validation messages. Empty unless validation failed.
	Errors domain.FieldErrors
	// Values echoes the submitted fields for re-rendering.
	Values map[string]string
	// Redirect is the route to navigate to after a successful call.
	Redirect string
	// Failed is true when the remote call failed.
	Failed bool
}

// OK reports whether the submission succeeded.
func (r FormResult) OK() bool {
	return !r.Errors.Has() && !r.Failed
}

// formState keeps the error map of one form controller.
type formState struct {
	name   string
	errors domain.FieldErrors
	log    zerolog.Logger
}

// begin clears the error map at the start of a submission.
func (s *formState) begin() {
	s.errors = domain.FieldErrors{}
}

// Errors returns the field errors of the last submission.
func (s *formState) Errors() domain.FieldErrors {
	return s.errors
}

func (s *formState) invalid(values map[string]string, errs domain.FieldErrors) FormResult {
	s.errors = errs
	metrics.FormSubmissionsTotal.WithLabelValues(s.name, "invalid").Inc()
	s.log.Debug().Int("fields", len(errs)).Msg("validation failed")
	return FormResult{Errors: errs, Values: values}
}

func (s *formState) failed(values map[string]string, notifier ports.Notifier, msg string, err error) FormResult {
	metrics.FormSubmissionsTotal.WithLabelValues(s.name, "failed").Inc()
	s.log.Warn().Err(err).Msg("submission failed")
	notifier.Error(msg)
	return FormResult{Values: values, Failed: true}
}

func (s *formState) succeeded(redirect string) FormResult {
	metrics.FormSubmissionsTotal.WithLabelValues(s.name, "success").Inc()
	return FormResult{Redirect: redirect}
}

func newFormState(name string, log zerolog.Logger) formState {
	return formState{
		name: name,
		log:  log.With().Str("component", "form").Str("form", name).Logger(),
	}
}

// ── Login ─────────────────────────────────────────────────────────────────────

type loginInput struct {
	ID string `form:"id" validate:"required"`
}

var loginMessages = fieldMessages{
	"id": {"required": "Por favor, informe o id da ONG"},
}

type loginResponse struct {
	NGO   domain.NGO `json:"ngo"`
	Token string     `json:"token"`
}

// LoginForm opens a session with an NGO id.
type LoginForm struct {
	formState
	gateway  ports.APIGateway
	session  *SessionStore
	notifier ports.Notifier
}

// NewLoginForm returns the login controller of one workspace.
func NewLoginForm(gateway ports.APIGateway, session *SessionStore, notifier ports.Notifier, log zerolog.Logger) *LoginForm {
	return &LoginForm{
		formState: newFormState("login", log),
		gateway:   gateway,
		session:   session,
		notifier:  notifier,
	}
}

// Submit validates fields, calls POST sessions and stores the new session.
func (f *LoginForm) Submit(ctx context.Context, fields map[string]string) FormResult {
	f.begin()
	in := loginInput{ID: fields["id"]}
	if errs := validateForm(in, loginMessages); errs.Has() {
		return f.invalid(fields, errs)
	}

	resp, err := f.gateway.Post(ctx, "sessions", map[string]string{"id": in.ID})
	if err != nil {
		return f.failed(fields, f.notifier, MsgLoginFailed, err)
	}
	var out loginResponse
	if err := resp.Decode(&out); err != nil {
		return f.failed(fields, f.notifier, MsgLoginFailed, fmt.Errorf("%w: %w", domain.ErrRemote, err))
	}

	sess := out.NGO.Session(out.Token)
	if err := f.session.Login(ctx, sess); err != nil {
		return f.failed(fields, f.notifier, MsgLoginFailed, err)
	}
	return f.succeeded(RouteIncidents)
}

// ── Register ──────────────────────────────────────────────────────────────────

type registerInput struct {
	Name     string `form:"name" validate:"required,min=3"`
	Email    string `form:"email" validate:"required,email"`
	WhatsApp string `form:"whatsapp" validate:"required,min=10,max=11"`
	City     string `form:"city" validate:"required"`
	State    string `form:"state" validate:"required,max=2"`
}

var registerMessages = fieldMessages{
	"name": {
		"required": "O nome da ONG é obrigatório",
		"min":      "O nome da ONG deve conter pelo menos 3 caracteres",
	},
	"email": {
		"required": "O email é obrigatório",
		"email":    "Digite um email válido",
	},
	"whatsapp": {
		"required": "O WhatsApp é obrigatório",
		"min":      "Um número válido deve conter pelo menos 10 caracteres",
		"max":      "Um número válido deve conter no máximo 11 caracteres",
	},
	"city": {
		"required": "A cidade é obrigatória",
	},
	"state": {
		"required": "O estado é obrigatório",
		"max":      "Digite apenas a UF do estado",
	},
}

// RegisterForm signs up a new NGO.
type RegisterForm struct {
	formState
	gateway  ports.APIGateway
	notifier ports.Notifier
}

// NewRegisterForm returns the register controller of one workspace.
func NewRegisterForm(gateway ports.APIGateway, notifier ports.Notifier, log zerolog.Logger) *RegisterForm {
	return &RegisterForm{
		formState: newFormState("register", log),
		gateway:   gateway,
		notifier:  notifier,
	}
}

// Submit validates fields and calls POST ngos, sending state as uf.
func (f *RegisterForm) Submit(ctx context.Context, fields map[string]string) FormResult {
	f.begin()
	in := registerInput{
		Name:     fields["name"],
		Email:    fields["email"],
		WhatsApp: fields["whatsapp"],
		City:     fields["city"],
		State:    fields["state"],
	}
	if errs := validateForm(in, registerMessages); errs.Has() {
		return f.invalid(fields, errs)
	}

	resp, err := f.gateway.Post(ctx, "ngos", domain.NGORegistration{
		Name:     in.Name,
		Email:    in.Email,
		WhatsApp: in.WhatsApp,
		City:     in.City,
		UF:       in.State,
	})
	if err != nil {
		return f.failed(fields, f.notifier, MsgRegisterFailed, err)
	}
	var out struct {
		ID domain.ID `json:"id"`
	}
	if err := resp.Decode(&out); err != nil {
		return f.failed(fields, f.notifier, MsgRegisterFailed, fmt.Errorf("%w: %w", domain.ErrRemote, err))
	}

	f.log.Info().Str("ngo_id", out.ID.String()).Msg("ngo registered")
	f.notifier.Success(fmt.Sprintf(MsgRegistered, out.ID))
	return f.succeeded(RouteLogin)
}

// ── Create incident ───────────────────────────────────────────────────────────

type incidentInput struct {
	Title       string `form:"title" validate:"required,min=3"`
	Description string `form:"description" validate:"required,min=10"`
	Value       string `form:"value" validate:"required"`
}

var incidentMessages = fieldMessages{
	"title": {
		"required": "O título é obrigatório",
		"min":      "O título deve conter pelo menos 3 caracteres",
	},
	"description": {
		"required": "A descrição é obrigatória",
		"min":      "A descrição deve conter pelo menos 10 caracteres",
	},
	"value": {
		"required": "O valor é obrigatório",
	},
}

// IncidentForm creates an incident for the logged-in NGO.
type IncidentForm struct {
	formState
	gateway  ports.APIGateway
	notifier ports.Notifier
}

// NewIncidentForm returns the create-incident controller of one workspace.
func NewIncidentForm(gateway ports.APIGateway, notifier ports.Notifier, log zerolog.Logger) *IncidentForm {
	return &IncidentForm{
		formState: newFormState("incident", log),
		gateway:   gateway,
		notifier:  notifier,
	}
}

// Submit validates fields and calls POST incidents.
func (f *IncidentForm) Submit(ctx context.Context, fields map[string]string) FormResult {
	f.begin()
	in := incidentInput{
		Title:       fields["title"],
		Description: fields["description"],
		Value:       fields["value"],
	}
	if errs := validateForm(in, incidentMessages); errs.Has() {
		return f.invalid(fields, errs)
	}

	if _, err := f.gateway.Post(ctx, "incidents", domain.NewIncident{
		Title:       in.Title,
		Description: in.Description,
		Value:       in.Value,
	}); err != nil {
		return f.failed(fields, f.notifier, MsgIncidentFailed, err)
	}

	f.log.Info().Str("title", in.Title).Msg("incident created")
	f.notifier.Success(MsgIncidentCreated)
	return f.succeeded(RouteIncidents)
}
