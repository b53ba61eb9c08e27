package server

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyhub/internal/db"
	"studyhub/internal/email"
	"studyhub/internal/handlers/api"
	"studyhub/internal/keywords"
	"studyhub/internal/middleware"
	"studyhub/internal/storage"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, store storage.ObjectStore, tracker *keywords.Tracker, notifier *email.Notifier) error {
	// Bearer tokens from the identity provider are the only way in.
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All users must be authenticated.")
	}
	verifier, err := middleware.NewVerifier(ctx, s.Cfg.OIDCIssuer, s.Cfg.OIDCClientID)
	if err != nil {
		return err
	}
	auth := middleware.NewAuthMiddleware(verifier, database)

	// Initialize handlers
	lectureHandler := api.NewLectureHandler(database, store, tracker)
	documentHandler := api.NewDocumentHandler(database, store, tracker)
	collectionHandler := api.NewCollectionHandler(database, store, tracker)
	qaHandler := api.NewQAHandler(database, store)
	uploadHandler := api.NewUploadHandler(store)
	savedHandler := api.NewSavedHandler(database)
	shareHandler := api.NewShareHandler(database)
	categoryHandler := api.NewCategoryHandler(database)
	contactHandler := api.NewContactHandler(database, notifier)
	reportHandler := api.NewReportHandler(database, notifier)
	userHandler := api.NewUserHandler(database)
	keywordHandler := api.NewKeywordHandler(database)
	healthHandler := api.NewHealthHandler(database)

	// Liveness and metrics
	s.App.Get("/health", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := s.App.Group("/api")

	// Public routes
	v1.Get("/ping", healthHandler.Ping)
	v1.Get("/categories", categoryHandler.List)
	v1.Get("/categories/:id", categoryHandler.Get)
	// Contact form gets its own tighter limit, it is unauthenticated
	v1.Post("/contacts", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
	}), contactHandler.Create)
	v1.Get("/keywords/trending", keywordHandler.Trending)
	v1.Get("/keywords/:key", keywordHandler.Get)

	// Content routes - public listings carry optional auth so saved flags
	// and share grants resolve for signed-in callers
	v1.Get("/lectures", auth.OptionalAuth, lectureHandler.List)
	v1.Get("/lectures/mine", auth.RequireAuth, lectureHandler.Mine)
	v1.Get("/lectures/:id", auth.OptionalAuth, lectureHandler.Get)
	v1.Post("/lectures", auth.RequireAuth, lectureHandler.Create)
	v1.Put("/lectures/:id", auth.RequireAuth, lectureHandler.Update)
	v1.Delete("/lectures/:id", auth.RequireAuth, lectureHandler.Delete)

	v1.Get("/documents", auth.OptionalAuth, documentHandler.List)
	v1.Get("/documents/mine", auth.RequireAuth, documentHandler.Mine)
	v1.Get("/documents/:id", auth.OptionalAuth, documentHandler.Get)
	v1.Post("/documents", auth.RequireAuth, documentHandler.Create)
	v1.Put("/documents/:id", auth.RequireAuth, documentHandler.Update)
	v1.Delete("/documents/:id", auth.RequireAuth, documentHandler.Delete)

	v1.Get("/collections", auth.OptionalAuth, collectionHandler.List)
	v1.Get("/collections/mine", auth.RequireAuth, collectionHandler.Mine)
	v1.Get("/collections/:id", auth.OptionalAuth, collectionHandler.Get)
	v1.Post("/collections", auth.RequireAuth, collectionHandler.Create)
	v1.Put("/collections/:id", auth.RequireAuth, collectionHandler.Update)
	v1.Delete("/collections/:id", auth.RequireAuth, collectionHandler.Delete)
	v1.Post("/collections/:id/cover", auth.RequireAuth, collectionHandler.UploadCover)
	v1.Post("/collections/:id/items", auth.RequireAuth, collectionHandler.AddItems)
	v1.Delete("/collections/:id/items/:kind/:ref", auth.RequireAuth, collectionHandler.RemoveItem)
	v1.Put("/collections/:id/items/order", auth.RequireAuth, collectionHandler.ReorderItems)

	// Q&A routes
	v1.Get("/questions", auth.OptionalAuth, qaHandler.ListQuestions)
	v1.Get("/questions/mine", auth.RequireAuth, qaHandler.MyQuestions)
	v1.Get("/questions/:id", auth.OptionalAuth, qaHandler.GetQuestion)
	v1.Post("/questions", auth.RequireAuth, qaHandler.CreateQuestion)
	v1.Put("/questions/:id", auth.RequireAuth, qaHandler.UpdateQuestion)
	v1.Delete("/questions/:id", auth.RequireAuth, qaHandler.DeleteQuestion)
	v1.Post("/questions/:id/answers", auth.RequireAuth, qaHandler.CreateAnswer)
	v1.Put("/questions/:id/answers/:answerID", auth.RequireAuth, qaHandler.UpdateAnswer)
	v1.Delete("/questions/:id/answers/:answerID", auth.RequireAuth, qaHandler.DeleteAnswer)
	v1.Post("/uploads", auth.RequireAuth, uploadHandler.Create)

	// Saved items and shares
	v1.Get("/saved", auth.RequireAuth, savedHandler.List)
	v1.Post("/saved", auth.RequireAuth, savedHandler.Create)
	v1.Delete("/saved/:kind/:ref", auth.RequireAuth, savedHandler.Delete)

	v1.Get("/shared-with-me", auth.RequireAuth, shareHandler.SharedWithMe)
	v1.Get("/shares/:kind/:contentID", auth.RequireAuth, shareHandler.ListForContent)
	v1.Post("/shares", auth.RequireAuth, shareHandler.Create)
	v1.Delete("/shares/:kind/:contentID/:userID", auth.RequireAuth, shareHandler.Delete)

	// Reports
	v1.Post("/reports", auth.RequireAuth, reportHandler.Create)

	// Profile
	v1.Get("/me", auth.RequireAuth, userHandler.Me)

	// Moderation routes (moderators only)
	mod := v1.Group("/moderation", auth.RequireAuth, auth.RequireModerator)
	mod.Get("/reports", reportHandler.List)
	mod.Put("/reports/:id/status", reportHandler.SetStatus)
	mod.Put("/questions/:id/status", qaHandler.SetQuestionStatus)
	mod.Put("/answers/:answerID/status", qaHandler.SetAnswerStatus)

	// Admin routes (admin only)
	admin := v1.Group("/admin", auth.RequireAuth, auth.RequireAdmin)
	admin.Get("/users", userHandler.List)
	admin.Put("/users/:id/role", userHandler.SetRole)
	admin.Put("/users/:id/ban", userHandler.SetBanned)
	admin.Post("/categories", categoryHandler.Create)
	admin.Put("/categories/:id", categoryHandler.Update)
	admin.Get("/contacts", contactHandler.List)

	return nil
}
