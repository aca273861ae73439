package flags

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router mounts the flag service API. Admin routes (flag and webhook
// mutations, listings) go through the auth middleware; evaluation and
// experiment summaries are public.
//
// Example:
//
//	svc := flags.NewService(store, store, flags.WithNotifier(n))
//	r := chi.NewRouter()
//	r.Mount("/api/v1", flags.Router(svc, jwt.Middleware(jwtSvc)))
func Router(svc *Service, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(admin chi.Router) {
		if auth != nil {
			admin.Use(auth)
		}

		admin.Route("/flags", func(fr chi.Router) {
			fr.Post("/", svc.handleCreateFlag)
			fr.Get("/", svc.handleListFlags)
			fr.Get("/{key}", svc.handleGetFlag)
			fr.Put("/{key}", svc.handleUpdateFlag)
			fr.Delete("/{key}", svc.handleDeleteFlag)
		})

		admin.Route("/webhooks", func(wr chi.Router) {
			wr.Post("/", svc.handleAddWebhook)
			wr.Get("/", svc.handleListWebhooks)
			wr.Delete("/", svc.handleRemoveWebhook)
		})
	})

	r.Post("/evaluate/{key}", svc.handleEvaluate)
	r.Get("/experiments/{key}/summary", svc.handleSummary)

	return r
}
