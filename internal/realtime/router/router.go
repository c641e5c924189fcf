package router

import (
	"context"

	"student_community_service/internal/realtime/app"
	"student_community_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register the REST surface and the websocket endpoint.
// Everything sits behind the bearer-token gate.
func RegisterRoutes(r *fiber.App, httpHandler *app.CommunityHTTPHandler, wsHandler *app.CommunityWebsocketHandler) {
	r.Use(middlewares.JWTMiddleware())

	api := r.Group("/api")

	notifications := api.Group("/notifications")
	notifications.Get("/", httpHandler.ListNotifications)
	notifications.Post("/create", httpHandler.CreateNotification)
	notifications.Patch("/read-all", httpHandler.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", httpHandler.MarkNotificationRead)
	notifications.Delete("/:id", httpHandler.DeleteNotification)

	messages := api.Group("/messages")
	messages.Post("/", httpHandler.SendMessage)
	messages.Put("/read/:peerId", httpHandler.MarkConversationRead)
	messages.Get("/:peerId", httpHandler.GetConversation)

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHandler.HandleConnection(context.Background(), c)
	}))
}
