// launching the server, storage, kafka, redis
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/imagekit/config"
	"github.com/ds124wfegd/imagekit/internal/database"
	rediscache "github.com/ds124wfegd/imagekit/internal/database/redis"
	"github.com/ds124wfegd/imagekit/internal/pkg/analyzer"
	"github.com/ds124wfegd/imagekit/internal/pkg/kafka"
	"github.com/ds124wfegd/imagekit/internal/pkg/processor"
	"github.com/ds124wfegd/imagekit/internal/pkg/raster"
	"github.com/ds124wfegd/imagekit/internal/pkg/storage"
	"github.com/ds124wfegd/imagekit/internal/pkg/vector"
	"github.com/ds124wfegd/imagekit/internal/service"
	"github.com/ds124wfegd/imagekit/internal/transport"
	"github.com/ds124wfegd/imagekit/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// newProcessor builds the engine stack shared by the API and the worker.
func newProcessor(cfg *config.Config) processor.ImageProcessor {
	return processor.NewImageProcessor(
		raster.NewEngine(),
		analyzer.NewAnalyzer(cfg.Analyzer),
		vector.NewToolkit(),
		processor.Options{Workers: cfg.Engine.Workers, DefaultQuality: cfg.Engine.DefaultQuality},
	)
}

func newJobService(cfg *config.Config, producer kafka.Producer, proc processor.ImageProcessor) service.JobService {
	repo := database.NewJobRepository(storage.NewFileStorage(cfg.Storage.BasePath))
	return service.NewJobService(repo, producer, proc, cfg.Engine.DefaultQuality)
}

// newReportCache returns nil when redis is disabled or unreachable.
func newReportCache(cfg *config.Config) service.ReportCache {
	if !cfg.Redis.Enabled {
		return nil
	}
	client := rediscache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	cache := rediscache.NewReportCache(client, cfg.Redis.TTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		logrus.WithError(err).Warn("redis unavailable, analysis cache disabled")
		client.Close()
		return nil
	}
	logrus.WithField("addr", cfg.Redis.Addr).Info("Successfully connected to Redis")
	return cache
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.SetOutput(os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc := newProcessor(cfg)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	jobs := newJobService(cfg, producer, proc)
	analysis := service.NewAnalysisService(proc, vector.NewToolkit(), newReportCache(cfg))

	// без брокера задачи обрабатываются в этом же процессе
	if queue, ok := producer.(*kafka.MemoryQueue); ok {
		go func() {
			if err := worker.NewJobWorker(queue, jobs).Start(ctx); err != nil {
				logrus.Errorf("in-process worker stopped: %s", err.Error())
			}
		}()
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		err := srv.Run(cfg, transport.InitRoutes(transport.NewHandler(jobs, analysis, cfg.Engine.MaxUploadBytes)))
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}

// NewWorker runs the kafka job consumer until SIGINT or SIGTERM.
func NewWorker(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.SetOutput(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	consumer := kafka.NewConsumer([]string{cfg.Kafka.Brokers}, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer consumer.Close()

	// воркер сам ничего не публикует
	jobs := newJobService(cfg, kafka.NewMemoryQueue(1), newProcessor(cfg))

	if err := worker.NewJobWorker(consumer, jobs).Start(ctx); err != nil {
		logrus.Fatalf("worker failed: %s", err.Error())
	}
}
