package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type InitializePasswordResetMessage struct {
	Email string `json:"email"`

	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	Email string
	Sent  bool
}

// InitializePasswordResetHandler emails a reset link. It deliberately skips
// the user lookup so the response never reveals whether an email is
// registered; an unknown address just gets a token nobody can use.
type InitializePasswordResetHandler struct {
	auther  *Auther
	mail    MailSender
	baseURL string
	logger  Logger
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(auther *Auther) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		auther: auther,
		mail:   &LogMailer{Logger: defLogger{}},
		logger: defLogger{},
	}
}

// WithMailSender overrides the mail transport used for reset links.
func (h *InitializePasswordResetHandler) WithMailSender(mail MailSender) *InitializePasswordResetHandler {
	if mail != nil {
		h.mail = mail
	}
	return h
}

// WithBaseURL sets the public base URL embedded in reset links.
func (h *InitializePasswordResetHandler) WithBaseURL(baseURL string) *InitializePasswordResetHandler {
	h.baseURL = baseURL
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	token, err := h.auther.IssueEmailActionToken(event.Email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue password reset token")
	}

	link := h.baseURL + "/auth/password-reset-confirm/" + token
	subject, body := PasswordResetEmail(link)

	mailCtx := context.WithoutCancel(ctx)
	go func() {
		if err := h.mail.Send(mailCtx, event.Email, subject, body); err != nil {
			h.logger.Error("password reset email delivery failed", "error", err)
		}
	}()

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{
			Email: event.Email,
			Sent:  true,
		})
	}

	return nil
}
