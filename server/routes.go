// Package server - HTTP-Server fuer Inferenz auf einem geladenen Modell
//
// Dieses Modul enthaelt:
// - Server: Modellhandle und Routenaufbau
// - GenerateRoutes: Router mit CORS, Hostfilter und Request-Ids
// - Serve: Modell laden, lauschen, sauber herunterfahren
//
// Der Server laedt genau ein Modell beim Start und beantwortet daraus
// Predict-, Embed-, Nachbar- und Analogie-Anfragen. Die Inferenz teilt
// sich einen Zufallsstrom und Arbeitspuffer, Anfragen an das Modell
// laufen deshalb ueber ein Semaphor nacheinander.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/wortvek/wortvek/envconfig"
	"github.com/wortvek/wortvek/logutil"
	"github.com/wortvek/wortvek/model"
	"github.com/wortvek/wortvek/version"
)

var mode string = gin.DebugMode

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.DebugMode
	}

	gin.SetMode(mode)
}

// Server verwaltet das geladene Modell und den HTTP-Router
type Server struct {
	addr  net.Addr
	model *model.Model
	sem   *semaphore.Weighted
}

// NewServer bindet einen Server an ein fertig geladenes Modell
func NewServer(addr net.Addr, m *model.Model) *Server {
	return &Server{
		addr:  addr,
		model: m,
		sem:   semaphore.NewWeighted(1),
	}
}

// isLocalIP prueft ob die IP-Adresse zu einem lokalen Interface gehoert
func isLocalIP(ip netip.Addr) bool {
	if interfaces, err := net.Interfaces(); err == nil {
		for _, iface := range interfaces {
			addrs, err := iface.Addrs()
			if err != nil {
				continue
			}

			for _, a := range addrs {
				if parsed, _, err := net.ParseCIDR(a.String()); err == nil {
					if parsed.String() == ip.String() {
						return true
					}
				}
			}
		}
	}

	return false
}

// allowedHost prueft ob der Host erlaubt ist
func allowedHost(host string) bool {
	host = strings.ToLower(host)

	if host == "" || host == "localhost" {
		return true
	}

	if hostname, err := os.Hostname(); err == nil && host == strings.ToLower(hostname) {
		return true
	}

	for _, tld := range []string{"localhost", "local", "internal"} {
		if strings.HasSuffix(host, "."+tld) {
			return true
		}
	}

	return false
}

// allowedHostsMiddleware blockiert Anfragen von nicht erlaubten Hosts,
// solange der Server nur auf Loopback lauscht
func allowedHostsMiddleware(addr net.Addr) gin.HandlerFunc {
	return func(c *gin.Context) {
		if addr == nil {
			c.Next()
			return
		}

		if addr, err := netip.ParseAddrPort(addr.String()); err == nil && !addr.Addr().IsLoopback() {
			c.Next()
			return
		}

		host, _, err := net.SplitHostPort(c.Request.Host)
		if err != nil {
			host = c.Request.Host
		}

		if addr, err := netip.ParseAddr(host); err == nil {
			if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || isLocalIP(addr) {
				c.Next()
				return
			}
		}

		if allowedHost(host) {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}

			c.Next()
			return
		}

		c.AbortWithStatus(http.StatusForbidden)
	}
}

// requestIDMiddleware vergibt eine Request-Id, falls der Client keine
// mitschickt, und spiegelt sie in die Antwort
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() (http.Handler, error) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowBrowserExtensions = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
		"X-Request-Id",
	}
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.Use(
		cors.New(corsConfig),
		allowedHostsMiddleware(s.addr),
		requestIDMiddleware(),
	)

	// General
	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "Wortvek is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Wortvek is running") })
	r.HEAD("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })
	r.GET("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })

	// Inference
	r.POST("/api/predict", s.PredictHandler)
	r.POST("/api/embed", s.EmbedHandler)
	r.POST("/api/nn", s.NNHandler)
	r.POST("/api/analogy", s.AnalogyHandler)
	r.GET("/api/show", s.ShowHandler)

	return r, nil
}

// Serve laedt das Modell und bedient den Listener, bis SIGINT oder
// SIGTERM kommt
func Serve(ln net.Listener, modelPath string) error {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
	slog.Info("server config", "env", envconfig.Values())

	start := time.Now()
	m, err := model.Load(modelPath)
	if err != nil {
		return err
	}
	slog.Info("model loaded",
		"path", modelPath,
		"words", m.Dict().NWords(),
		"labels", m.Dict().NLabels(),
		"dim", m.Args().Dim,
		"duration", time.Since(start))

	s := NewServer(ln.Addr(), m)
	h, err := s.GenerateRoutes()
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("Listening on %s (version %s)", ln.Addr(), version.Version))
	srvr := &http.Server{
		Handler: h,
	}

	ctx, done := context.WithCancel(context.Background())
	defer done()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			srvr.Close()
			done()
		case <-ctx.Done():
		}
	}()

	if err := srvr.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
