package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type VerifyAccountMessage struct {
	Token string `json:"token"`

	OnResponse func(resp *VerifyAccountResponse)
}

func (e VerifyAccountMessage) Type() string { return "user.verify_account" }

type VerifyAccountResponse struct {
	User     *User
	Verified bool
}

// VerifyAccountHandler resolves a verification link token and marks the
// account verified. Re-verifying an already verified account is harmless.
type VerifyAccountHandler struct {
	users  UserProvider
	auther *Auther
	logger Logger
}

// NewVerifyAccountHandler creates a handler with sane defaults.
func NewVerifyAccountHandler(users UserProvider, auther *Auther) *VerifyAccountHandler {
	return &VerifyAccountHandler{
		users:  users,
		auther: auther,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *VerifyAccountHandler) WithLogger(logger Logger) *VerifyAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *VerifyAccountHandler) Execute(ctx context.Context, event VerifyAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyAccountHandler) execute(ctx context.Context, event VerifyAccountMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email, err := h.auther.ResolveEmailActionToken(event.Token)
	if err != nil {
		return err
	}

	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	verified := true
	user, err = h.users.Update(ctx, user, UserPatch{IsVerified: &verified})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account verified")
	}

	h.logger.Info("account verified", "user_id", user.ID)

	if event.OnResponse != nil {
		event.OnResponse(&VerifyAccountResponse{
			User:     user,
			Verified: true,
		})
	}

	return nil
}
