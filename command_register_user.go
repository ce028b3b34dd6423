package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UseHashid bool

	OnResponse func(resp *RegisterUserResponse)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResponse struct {
	User              *User
	VerificationToken string
}

// RegisterUserHandler creates an unverified account and emails a verification
// link. The account stays unable to log in until the link is followed.
type RegisterUserHandler struct {
	users   UserProvider
	auther  *Auther
	mail    MailSender
	baseURL string
	logger  Logger
}

// NewRegisterUserHandler creates a handler with sane defaults.
func NewRegisterUserHandler(users UserProvider, auther *Auther) *RegisterUserHandler {
	return &RegisterUserHandler{
		users:  users,
		auther: auther,
		mail:   &LogMailer{Logger: defLogger{}},
		logger: defLogger{},
	}
}

// WithMailSender overrides the mail transport used for verification links.
func (h *RegisterUserHandler) WithMailSender(mail MailSender) *RegisterUserHandler {
	if mail != nil {
		h.mail = mail
	}
	return h
}

// WithBaseURL sets the public base URL embedded in verification links.
func (h *RegisterUserHandler) WithBaseURL(baseURL string) *RegisterUserHandler {
	h.baseURL = baseURL
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		FirstName:    event.FirstName,
		LastName:     event.LastName,
		Username:     event.Username,
		Email:        event.Email,
		PasswordHash: hash,
		Role:         RoleUser,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}
	}

	created, err := h.users.Create(ctx, user)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration failed")
	}

	token, err := h.auther.IssueEmailActionToken(created.Email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue verification token")
	}

	link := h.baseURL + "/auth/verify/" + token
	subject, body := VerificationEmail(link)

	mailCtx := context.WithoutCancel(ctx)
	go func() {
		if err := h.mail.Send(mailCtx, created.Email, subject, body); err != nil {
			h.logger.Error("verification email delivery failed", "error", err)
		}
	}()

	if event.OnResponse != nil {
		event.OnResponse(&RegisterUserResponse{
			User:              created,
			VerificationToken: token,
		})
	}

	return nil
}
