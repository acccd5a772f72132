package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/chat"
	"github.com/trezcool/darasa/core/user"
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// send pings to peer with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
	// maximum message size allowed from peer
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type chatApi struct {
	svc     *chat.Service
	userSvc *user.Service
	hub     *chat.Hub
	logger  core.Logger
}

func registerChatAPI(
	e *echo.Echo,
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	conf *core.Config,
	svc *chat.Service,
	userSvc *user.Service,
	hub *chat.Hub,
	logger core.Logger,
) {
	api := chatApi{svc: svc, userSvc: userSvc, hub: hub, logger: logger}

	cg := g.Group("/chat", jwt)
	cg.GET("/:username/history", api.history)

	wsJWT := middleware.JWTWithConfig(newWSJWTConfig(conf))
	e.GET("/ws/chat/:username", api.serve, wsJWT)
}

// Handlers

func (api *chatApi) history(ctx echo.Context) error {
	sender, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	other, err := api.userSvc.GetByUsername(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}
	msgs, err := api.svc.History(ctx.Request().Context(), sender, other)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// serve upgrades the connection and joins the pair's room. The receiver is
// resolved before the upgrade so an unknown username fails the handshake.
func (api *chatApi) serve(ctx echo.Context) error {
	sender, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	receiver, err := api.userSvc.GetByUsername(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Upgrade has already replied to the client
		return nil
	}

	room := chat.RoomKey(sender.Username, receiver.Username)
	sess := api.hub.Join(room)
	errs := make(chan chat.Event, 4)

	go api.writePump(conn, sess, errs)
	api.readPump(ctx, conn, sess, errs, sender, receiver, room)
	return nil
}

// readPump relays inbound frames: persist first, broadcast only on success.
func (api *chatApi) readPump(
	ctx echo.Context,
	conn *websocket.Conn,
	sess *chat.Session,
	errs chan chat.Event,
	sender, receiver user.User,
	room string,
) {
	defer func() {
		api.hub.Leave(sess)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		var in struct {
			Message string `json:"message"`
		}
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				api.logger.Debug(fmt.Sprintf("chat connection closed: %v", err))
			}
			return
		}

		text := core.CleanString(in.Message)
		if text == "" {
			api.sendError(errs, "message is required")
			continue
		}

		msg, err := api.svc.Save(ctx.Request().Context(), sender, receiver, text)
		if err != nil {
			api.logger.Error(fmt.Sprintf("saving chat message: %v", err), err, sender)
			api.sendError(errs, "message could not be delivered")
			continue
		}
		api.hub.Broadcast(room, chat.NewChatEvent(msg))
	}
}

// writePump owns all writes on the connection: room broadcasts, error
// frames for this peer only, and keepalive pings.
func (api *chatApi) writePump(conn *websocket.Conn, sess *chat.Session, errs chan chat.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case evt, ok := <-sess.Receive():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case evt := <-errs:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (api *chatApi) sendError(errs chan chat.Event, msg string) {
	select {
	case errs <- chat.Event{Type: "error", Message: msg}:
	default:
	}
}
