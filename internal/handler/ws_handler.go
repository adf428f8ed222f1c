/*
Package handler provides the HTTP handler function for websocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
upgrading the HTTP connection to websocket, and initiating the client lifecycle. Joining a
room happens only via the in-band join event after the upgrade.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Alanshi2019/Ichat/internal/app/chat"
	"github.com/Alanshi2019/Ichat/internal/pkg/errs"
	"github.com/Alanshi2019/Ichat/internal/pkg/limiter"
	"github.com/Alanshi2019/Ichat/internal/pkg/logx"
	"github.com/Alanshi2019/Ichat/internal/pkg/randx"
	"github.com/Alanshi2019/Ichat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process websocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := randx.ConnectionID()
		sess := deps.Sessions.NewSession(connID)
		client := chat.NewClient(deps.Hub, conn, sess)

		go client.WritePump()

		deps.Hub.Register(client)

		logx.Info("WebSocket connection established", "conn_id", connID)

		client.ReadPump()
	}
}
