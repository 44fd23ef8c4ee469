package internal

import (
	"net/http"
	"trustive/internal/controllers"
	"trustive/internal/providers"
)

func InitRoutes(directoryController *controllers.DirectoryController, authController *controllers.AuthController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/coaches", http.HandlerFunc(directoryController.ListCoaches))
	routers.Post("/coaches", http.HandlerFunc(directoryController.CreateCoach))
	routers.Get("/coaches/{id}", http.HandlerFunc(directoryController.GetCoach))
	routers.Put("/coaches/{id}", http.HandlerFunc(directoryController.UpdateCoach))
	routers.Delete("/coaches/{id}", http.HandlerFunc(directoryController.DeleteCoach))
	routers.Post("/coaches/{id}/reviews", http.HandlerFunc(directoryController.SubmitReview))
	routers.Post("/coaches/{id}/reviews/{reviewID}/reply", http.HandlerFunc(directoryController.ReplyToReview))
	routers.Post("/claims", http.HandlerFunc(directoryController.RequestClaim))

	routers.Post("/auth/signup", http.HandlerFunc(authController.Signup))
	routers.Post("/auth/login", http.HandlerFunc(authController.Login))
	routers.Post("/auth/logout", http.HandlerFunc(authController.Logout))
	routers.Get("/auth/session", http.HandlerFunc(authController.Session))
	return routers
}
