package authgate

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AuthControllerRoutes are the mounted paths, override before registration
type AuthControllerRoutes struct {
	Signup               string
	Verify               string
	Login                string
	RefreshToken         string
	Me                   string
	Logout               string
	PasswordResetRequest string
	PasswordResetConfirm string
}

type AuthController struct {
	Debug   bool
	Logger  Logger
	Auther  *Auther
	Guard   *Guard
	Users   UserProvider
	Mail    MailSender
	BaseURL string
	Routes  *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Mail:   &LogMailer{},
		Routes: &AuthControllerRoutes{
			Signup:               "/auth/signup",
			Verify:               "/auth/verify/:token",
			Login:                "/auth/login",
			RefreshToken:         "/auth/refresh_token",
			Me:                   "/auth/me",
			Logout:               "/auth/logout",
			PasswordResetRequest: "/auth/password-reset-request",
			PasswordResetConfirm: "/auth/password-reset-confirm/:token",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	if c.Guard == nil {
		panic("Missing Guard in auth controller...")
	}

	if c.Users == nil {
		panic("Missing UserProvider in auth controller...")
	}

	return c
}

func WithControllerAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerGuard(guard *Guard) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Guard = guard
		return c
	}
}

func WithControllerUsers(users UserProvider) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Users = users
		return c
	}
}

func WithControllerMail(mail MailSender) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Mail = mail
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerBaseURL(baseURL string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.BaseURL = baseURL
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterAuthRoutes mounts the JSON auth API
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Signup, controller.Signup).
		SetName("auth.signup")

	app.Get(controller.Routes.Verify, controller.VerifyAccount).
		SetName("auth.verify")

	app.Post(controller.Routes.Login, controller.Login).
		SetName("auth.login")

	app.Get(controller.Routes.RefreshToken, controller.RefreshToken).
		SetName("auth.refresh")

	app.Get(controller.Routes.Me, controller.Me,
		AccessTokenMiddleware(controller.Guard, string(RoleAdmin), string(RoleUser)),
	).SetName("auth.me")

	app.Get(controller.Routes.Logout, controller.Logout,
		AccessTokenMiddleware(controller.Guard),
	).SetName("auth.logout")

	app.Post(controller.Routes.PasswordResetRequest, controller.PasswordResetRequest).
		SetName("auth.pwd-reset.request")

	app.Post(controller.Routes.PasswordResetConfirm, controller.PasswordResetConfirm).
		SetName("auth.pwd-reset.confirm")

	return controller
}

// SignupPayload is the account creation body
type SignupPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate will run validation rules
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Username, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) Signup(ctx router.Context) error {
	payload := new(SignupPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return a.validationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload", "error", err)
		return a.validationError(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	var res *RegisterUserResponse

	registerUser := RegisterUserHandler{
		users:   a.Users,
		auther:  a.Auther,
		mail:    a.Mail,
		baseURL: a.BaseURL,
		logger:  a.Logger,
	}

	msg := RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		OnResponse: func(resp *RegisterUserResponse) {
			res = resp
		},
	}

	if err := registerUser.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("signup failed", "error", err)
		return WriteErrorResponse(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"message": "Account Created! Check email to verify your account",
		"user":    res.User,
	})
}

func (a *AuthController) VerifyAccount(ctx router.Context) error {
	token := ctx.Param("token")

	verifyAccount := VerifyAccountHandler{
		users:  a.Users,
		auther: a.Auther,
		logger: a.Logger,
	}

	msg := VerifyAccountMessage{Token: token}

	if err := verifyAccount.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("account verification failed", "error", err)
		return WriteErrorResponse(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "Account verified successfully",
	})
}

// LoginPayload is the credential body
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.validationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.validationError(ctx, err)
	}

	pair, user, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return WriteErrorResponse(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user.Summary(),
	})
}

func (a *AuthController) RefreshToken(ctx router.Context) error {
	raw, err := extractBearerToken(ctx)
	if err != nil {
		return WriteErrorResponse(ctx, err)
	}

	access, err := a.Auther.Refresh(ctx.Context(), raw)
	if err != nil {
		return WriteErrorResponse(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"access_token": access,
	})
}

func (a *AuthController) Me(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, "")
	if !ok {
		return WriteErrorResponse(ctx, ErrInvalidToken)
	}

	user, err := a.Users.FindByID(ctx.Context(), claims.UserID())
	if err != nil {
		return WriteErrorResponse(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) Logout(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, "")
	if !ok {
		return WriteErrorResponse(ctx, ErrInvalidToken)
	}

	if err := a.Auther.Logout(ctx.Context(), claims); err != nil {
		a.Logger.Error("logout revocation failed", "error", err)
		return WriteErrorResponse(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "Logged Out Successfully",
	})
}

// PasswordResetRequestPayload holds values for password reset
type PasswordResetRequestPayload struct {
	Email string `json:"email"`
}

// Validate will validate the payload
func (r PasswordResetRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) PasswordResetRequest(ctx router.Context) error {
	payload := new(PasswordResetRequestPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password reset parse payload", "error", err)
		return a.validationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.validationError(ctx, err)
	}

	initPwdReset := InitializePasswordResetHandler{
		auther:  a.Auther,
		mail:    a.Mail,
		baseURL: a.BaseURL,
		logger:  a.Logger,
	}

	msg := InitializePasswordResetMessage{Email: payload.Email}

	if err := initPwdReset.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("password reset request failed", "error", err)
		return WriteErrorResponse(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "Please check your email for instructions to reset your password",
	})
}

// PasswordResetConfirmPayload holds the new password pair
type PasswordResetConfirmPayload struct {
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// Validate will validate the payload
func (r PasswordResetConfirmPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.ConfirmNewPassword, validation.Required),
	)
}

func (a *AuthController) PasswordResetConfirm(ctx router.Context) error {
	token := ctx.Param("token")
	payload := new(PasswordResetConfirmPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password reset confirm parse payload", "error", err)
		return a.validationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.validationError(ctx, err)
	}

	finalizePwdReset := FinalizePasswordResetHandler{
		users:  a.Users,
		auther: a.Auther,
		logger: a.Logger,
	}

	msg := FinalizePasswordResetMessage{
		Token:           token,
		NewPassword:     payload.NewPassword,
		ConfirmPassword: payload.ConfirmNewPassword,
	}

	if err := finalizePwdReset.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("password reset confirm failed", "error", err)
		return WriteErrorResponse(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "Password reset Successfully",
	})
}

func (a *AuthController) validationError(ctx router.Context, err error) error {
	return ctx.JSON(router.StatusBadRequest, map[string]any{
		"message":    err.Error(),
		"error_code": "validation_error",
	})
}

func extractBearerToken(ctx router.Context) (string, error) {
	raw, err := jwtwareExtract(ctx)
	if err != nil || raw == "" {
		return "", ErrInvalidToken
	}
	return raw, nil
}
