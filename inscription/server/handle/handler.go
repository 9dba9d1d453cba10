package handle

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/middlewares"
	"github.com/inscription-c/ordinscribe/internal/sentry"
	"github.com/inscription-c/ordinscribe/internal/signal"
)

const (
	defaultMaxUploadSize = 4 << 20
	shutdownTimeout      = 10 * time.Second
)

type Options struct {
	addr          string
	engin         *gin.Engine
	inscriber     *inscription.Inscriber
	enablePProf   bool
	prometheus    bool
	origins       []string
	maxUploadSize int64
}

type Option func(*Options)

func WithAddr(addr string) func(*Options) {
	return func(options *Options) {
		options.addr = addr
	}
}

func WithInscriber(s *inscription.Inscriber) func(*Options) {
	return func(options *Options) {
		options.inscriber = s
	}
}

func WithEnablePProf(enable bool) func(*Options) {
	return func(options *Options) {
		options.enablePProf = enable
	}
}

func WithPrometheus(enable bool) func(*Options) {
	return func(options *Options) {
		options.prometheus = enable
	}
}

func WithOrigins(origins []string) func(*Options) {
	return func(options *Options) {
		options.origins = origins
	}
}

// WithMaxUploadSize caps the request body of the upload endpoints, in bytes.
func WithMaxUploadSize(size int64) func(*Options) {
	return func(options *Options) {
		options.maxUploadSize = size
	}
}

type Handler struct {
	options *Options
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{}
	h.options = &Options{}
	for _, opt := range opts {
		opt(h.options)
	}
	if h.options.inscriber == nil {
		return nil, errors.New("inscriber is nil")
	}
	if h.options.addr == "" {
		h.options.addr = ":8335"
	}
	if h.options.maxUploadSize <= 0 {
		h.options.maxUploadSize = defaultMaxUploadSize
	}
	h.options.engin = gin.New()

	registerValidators()
	h.Engine().Use(middlewares.Logger(), middlewares.Recovery())
	if h.options.prometheus {
		h.Engine().Use(HTTPMetrics)
	}
	if len(h.options.origins) > 0 {
		h.Engine().Use(cors.New(cors.Config{
			AllowOrigins:     h.options.origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	h.InitRouter()
	return h, nil
}

func (h *Handler) Engine() *gin.Engine {
	return h.options.engin
}

func (h *Handler) Inscriber() *inscription.Inscriber {
	return h.options.inscriber
}

func (h *Handler) Run() error {
	srv := &http.Server{
		Addr:    h.options.addr,
		Handler: h.options.engin,
	}
	signal.AddInterruptHandler(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Srv.Errorf("srv.Shutdown: %v", err)
		}
	})
	go func() {
		defer sentry.RecoverPanic()
		log.Srv.Infof("api server listening on %s", h.options.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Srv.Errorf("srv.ListenAndServe: %v", err)
			os.Exit(1)
		}
	}()
	return nil
}
