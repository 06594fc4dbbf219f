package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mistri/auth"
	"mistri/bids"
	"mistri/chats"
	"mistri/contact"
	"mistri/middleware"
	"mistri/notifications"
	"mistri/profile"
	"mistri/projects"
	"mistri/ratelim"
	"mistri/store"
	"mistri/utils"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))

	router.POST("/api/auth/request-otp", rl.Limit(auth.RequestOTPHandler))
	router.POST("/api/auth/verify-otp", rl.Limit(auth.VerifyOTPHandler))
}

func AddProjectRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, s store.Storage) {
	h := projects.NewHandlers(s)

	router.GET("/api/projects/projects", rl.Limit(middleware.OptionalAuth(h.ListProjects)))
	router.GET("/api/projects/mine", middleware.Authenticate(h.GetMyProjects))
	router.POST("/api/projects/project", rl.Limit(middleware.Authenticate(h.CreateProject)))
	router.GET("/api/projects/project/:projectid", middleware.OptionalAuth(h.GetProject))
	router.PUT("/api/projects/project/:projectid", middleware.Authenticate(h.EditProject))
	router.DELETE("/api/projects/project/:projectid", middleware.Authenticate(h.DeleteProject))

	router.POST("/api/projects/project/:projectid/close", middleware.Authenticate(h.CloseProject))
	router.POST("/api/projects/project/:projectid/reopen", middleware.Authenticate(h.ReopenProject))
	router.POST("/api/projects/project/:projectid/complete", middleware.Authenticate(h.MarkCompleted))
}

func AddBidRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, s store.Storage) {
	h := bids.NewHandlers(s)

	router.POST("/api/projects/project/:projectid/bids", rl.Limit(middleware.Authenticate(h.SubmitBid)))
	router.GET("/api/projects/project/:projectid/bids", middleware.Authenticate(h.GetProjectBids))
	router.GET("/api/bids/mine", middleware.Authenticate(h.GetMyBids))

	router.POST("/api/bids/bid/:bidid/accept", middleware.Authenticate(h.AcceptBid))
	router.POST("/api/bids/bid/:bidid/reject", middleware.Authenticate(h.RejectBid))
	router.POST("/api/bids/bid/:bidid/shortlist", middleware.Authenticate(h.ShortlistBid))
	router.POST("/api/bids/bid/:bidid/withdraw", middleware.Authenticate(h.WithdrawBid))
}

func AddProfileRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, s store.Storage) {
	h := profile.NewHandlers(s)

	router.GET("/api/profile", middleware.Authenticate(h.GetMyProfile))
	router.PUT("/api/profile", middleware.Authenticate(h.UpdateProfile))
	router.GET("/api/users/:userid", rl.Limit(h.GetUserProfile))
}

func AddChatRoutes(router *httprouter.Router, hub *chats.Hub) {
	router.POST("/api/chats", middleware.Authenticate(chats.StartChat))
	router.GET("/api/chats", middleware.Authenticate(chats.GetMyChats))
	router.GET("/api/chats/:chatid/messages", middleware.Authenticate(chats.GetChatMessages))
	router.POST("/api/chats/:chatid/messages", middleware.Authenticate(chats.SendMessage(hub)))
	router.GET("/api/chats/:chatid/ws", middleware.Authenticate(chats.WebSocketHandler(hub)))
}

func AddContactRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/contact", rl.Limit(contact.SubmitContactMessage))
	router.GET("/api/contact", middleware.Authenticate(contact.GetContactMessages))
}

func AddNotificationRoutes(router *httprouter.Router) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.GetMyNotifications))
	router.POST("/api/notifications/:notificationid/read", middleware.Authenticate(notifications.MarkNotificationRead))
}

func AddUtilityRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/csrf", rl.Limit(utils.CSRF))
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		fmt.Fprint(w, "200")
	})
}
