package app

import (
	"fmt"
	"net/http"
	"recoverme/internal/app/deps"
	"recoverme/internal/app/services"
	"recoverme/internal/http/handlers/auth"
	checkpasswordresettoken "recoverme/internal/http/handlers/auth/check_password_reset_token"
	loginwithemail "recoverme/internal/http/handlers/auth/log_in_with_email"
	resetpassword "recoverme/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "recoverme/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "recoverme/internal/http/handlers/auth/sign_up_with_email"
	me "recoverme/internal/http/handlers/user/me"
	"recoverme/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(deps *deps.Deps, s *services.Services) http.Handler {
	apiRouter := chi.NewRouter()
	apiRouter.Method(http.MethodPost, "/signup", signupwithemail.New(s.SignUpWithEmail))
	apiRouter.Method(http.MethodPost, "/authenticate", loginwithemail.New(s.LogInWithEmail))
	apiRouter.Method(
		http.MethodPost,
		"/recover",
		sendpasswordresettoken.New(s.SendPasswordResetToken, deps.Config.IsTestMode),
	)
	apiRouter.Method(http.MethodGet, "/reset/{token}", checkpasswordresettoken.New(s.CheckPasswordResetToken))
	apiRouter.Method(http.MethodPost, "/reset", resetpassword.New(s.ResetPassword))
	apiRouter.With(auth.SetAuthTokenToContext).Method(http.MethodGet, "/memberinfo", me.New(s.GetCurrentUser))

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.AccessLog(deps.Logger))
	router.Use(middleware.Recoverer(deps.Logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{sendpasswordresettoken.TEST_TOKEN_HEADER},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/api", apiRouter)

	return router
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: NewRouter(deps, s),
		Addr:    address,
	}
}
