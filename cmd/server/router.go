package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cuelab/skilltrack-api/internal/api"
	"github.com/cuelab/skilltrack-api/internal/api/middleware"
)

// setupRouter configures the HTTP routes and middleware chain.
func (app *application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			app.logger.Error("failed to write health response", "error", err)
		}
	})

	contentHandler := api.NewContentHandler(app.contentService)
	compositionHandler := api.NewCompositionHandler(app.compositionService)
	progressHandler := api.NewProgressHandler(app.progressService)
	referralHandler := api.NewReferralHandler(app.referralService)

	authMiddleware := middleware.NewAuthMiddleware(app.config.Auth.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/skills", func(r chi.Router) {
			r.Post("/", contentHandler.CreateSkill)
			r.Get("/", contentHandler.ListSkills)
			r.Get("/{skillID}", contentHandler.GetSkill)
			r.Post("/{skillID}/sub-skills", contentHandler.CreateSubSkill)
			r.Get("/{skillID}/sub-skills", contentHandler.ListSubSkills)
		})

		r.Route("/sub-skills/{subSkillID}/units", func(r chi.Router) {
			r.Post("/", contentHandler.CreateUnit)
			r.Get("/", contentHandler.ListUnits)
		})

		r.Route("/units/{unitID}", func(r chi.Router) {
			r.Get("/", contentHandler.GetUnit)
			r.Put("/content", contentHandler.UpdateUnitContent)
		})

		r.Route("/trainings", func(r chi.Router) {
			r.Post("/", compositionHandler.CreateTraining)
			r.Get("/{trainingID}", compositionHandler.GetTraining)
			r.Post("/{trainingID}/plans", compositionHandler.ComposePlan)
			r.Get("/{trainingID}/plans", compositionHandler.ListPlans)
		})

		r.Route("/plans/{planID}/units", func(r chi.Router) {
			r.Get("/", compositionHandler.GetPlanUnits)
			r.Put("/", compositionHandler.RecomposePlan)
		})

		r.Route("/curriculum/days/{dayNumber}", func(r chi.Router) {
			r.Put("/", compositionHandler.AssignCurriculumDay)
			r.Get("/", compositionHandler.GetCurriculumDay)
		})

		r.Route("/completions", func(r chi.Router) {
			r.Post("/", progressHandler.RecordCompletion)
			r.Get("/", progressHandler.ListCompletions)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Get("/skills/{skillID}", progressHandler.GetSkillProgress)
			r.Get("/trainings/{trainingID}", progressHandler.GetSpecializedProgress)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", progressHandler.CreateSession)
			r.Get("/{sessionID}", progressHandler.GetSession)
			r.Post("/{sessionID}/start", progressHandler.StartSession)
			r.Post("/{sessionID}/complete", progressHandler.CompleteSession)
			r.Post("/{sessionID}/abandon", progressHandler.AbandonSession)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", referralHandler.RegisterUser)
			r.Get("/me", referralHandler.GetMe)
			r.Post("/me/invite-code", referralHandler.IssueInviteCode)
		})

		r.Post("/invites/accept", referralHandler.AcceptInvite)
	})

	return r
}
