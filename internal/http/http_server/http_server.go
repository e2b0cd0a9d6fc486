package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"auctionhouse/internal/http/auctionhandler"
	"auctionhouse/internal/http/identity"
	"auctionhouse/internal/http/notificationhandler"
	"auctionhouse/internal/services/auctionsvc"
	"auctionhouse/internal/services/notification"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	listenPort          uint16
	srv                 http.Server
	ln                  net.Listener
	auctionService      auctionsvc.IAuctionService
	notificationService notification.INotificationService
	ctx                 context.Context
}

func NewHttpServer(ctx context.Context, listenPort uint16,
	auctionService auctionsvc.IAuctionService,
	notificationService notification.INotificationService,
) *httpServer {
	return &httpServer{
		listenPort:          listenPort,
		auctionService:      auctionService,
		notificationService: notificationService,
		ctx:                 ctx,
	}
}

// NewRouter builds the gin engine with every API route mounted.
func NewRouter(auctionService auctionsvc.IAuctionService, notificationService notification.INotificationService) *gin.Engine {
	routerEngine := gin.New()

	routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))

	authed := routerEngine.Group("", identity.Middleware())

	auctionhandler.New(auctionService).Register(routerEngine, authed)
	notificationhandler.New(notificationService).Register(authed)

	return routerEngine
}

// Start blocks serving HTTP until Dispose is called.
func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	h.srv = http.Server{
		Handler:           NewRouter(h.auctionService, h.notificationService),
		ReadHeaderTimeout: 5 * time.Second,
	}
	zap.L().Info("http_listening", zap.String("addr", listenAddr))

	if err := h.srv.Serve(h.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Dispose gracefully shuts the HTTP server down, waiting up to 10 s for
// in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), shutdownTimeout)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		} else {
			zap.L().Error("http_dispose", zap.Error(err))
		}
		return err
	}
	return nil
}
