package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gymsplits/internal/auth"
	"github.com/2beens/gymsplits/internal/config"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/exercises"
	"github.com/2beens/gymsplits/internal/middleware"
	"github.com/2beens/gymsplits/internal/muscles"
	"github.com/2beens/gymsplits/internal/sessions"
	"github.com/2beens/gymsplits/internal/splits"
	"github.com/2beens/gymsplits/internal/telemetry/metrics"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
	"github.com/2beens/gymsplits/internal/users"
	"github.com/2beens/gymsplits/internal/workouts"
	"github.com/2beens/gymsplits/pkg"
)

// bulk exercise imports are the largest bodies
const maxRequestBodyBytes = 2 << 20

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient *redis.Client
	authService *auth.Service
	cron        *cron.Cron

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
	// InitDB creates the tables when they are missing
	InitDB bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if params.InitDB {
		if err := db.EnsureSchema(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("ensure db schema: %w", err)
		}
		log.Info("db schema ensured")
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(params.VersionInfo, pgxpoolCollector)
	metricsManager := metrics.NewManager("gymsplits", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymsplits", rdb)
	if err != nil {
		return nil, err
	}

	sessionTTL := time.Duration(params.Config.SessionTTLHours) * time.Hour
	authService := auth.NewAuthService(sessionTTL, rdb)

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		authService: authService,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	s.cron, err = s.sessionCleanupJob(ctx)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// sessionCleanupJob schedules the removal of expired sessions. The returned
// cron is not started yet.
func (s *Server) sessionCleanupJob(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithLogger(cron.PrintfLogger(log.StandardLogger())))
	if _, err := c.AddFunc(s.config.SessionCleanupSchedule, func() {
		removed := s.authService.ScanAndClean(ctx)
		s.metricsManager.CounterSessionsCleaned.Add(float64(removed))
		log.Infof("session cleanup: %d sessions removed", removed)
	}); err != nil {
		return nil, fmt.Errorf("schedule session cleanup [%s]: %w", s.config.SessionCleanupSchedule, err)
	}
	return c, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymsplits-router"))

	txRunner := db.NewTxRunner(s.dbPool)
	usersRepo := users.NewRepo(s.dbPool)
	musclesRepo := muscles.NewRepo(s.dbPool)
	exercisesRepo := exercises.NewRepo(s.dbPool)
	workoutsRepo := workouts.NewRepo(s.dbPool)

	usersService := users.NewService(usersRepo, txRunner)
	musclesService := muscles.NewService(
		musclesRepo,
		time.Duration(s.config.MusclesCacheTTLSeconds)*time.Second,
	)
	exercisesService := exercises.NewService(
		exercisesRepo,
		exercises.NewFavoritesRepo(s.dbPool),
		musclesRepo,
		usersRepo,
		txRunner,
	)
	splitsRepo := splits.NewRepo(s.dbPool)
	aggregator := splits.NewAggregator(
		splitsRepo,
		usersRepo,
		musclesRepo,
		workoutsRepo,
		txRunner,
	)
	workoutsService := workouts.NewService(workoutsRepo, usersRepo, exercisesRepo, txRunner)
	sessionsService := sessions.NewService(
		sessions.NewRepo(s.dbPool),
		splitsRepo,
		usersRepo,
		musclesRepo,
		txRunner,
	)

	r.HandleFunc("/", s.handleRoot).Methods("GET", "OPTIONS").Name("root")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginRateLimit := middleware.RateLimit(reqRateLimiter, s.metricsManager, "login", s.config.LoginRateLimitAllowedPerMin)

	authHandler := auth.NewHandler(usersService, s.authService)
	r.HandleFunc("/auth/signup", authHandler.HandleSignup).Methods("POST", "OPTIONS").Name("signup")
	r.Handle("/auth/login", loginRateLimit(http.HandlerFunc(authHandler.HandleLogin))).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/auth/logout", authHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	r.HandleFunc("/auth/me", authHandler.HandleMe).Methods("GET", "OPTIONS").Name("me")

	usersHandler := users.NewHandler(usersService, s.authService)
	r.HandleFunc("/users/me", usersHandler.HandleDeleteMe).Methods("DELETE", "OPTIONS").Name("delete-me")

	catalogAdminOnly := middleware.CatalogAdminOnly(usersRepo, s.config.CatalogAdmins)

	musclesHandler := muscles.NewHandler(musclesService)
	r.HandleFunc("/muscles", musclesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-muscles")
	r.Handle("/muscles", catalogAdminOnly(http.HandlerFunc(musclesHandler.HandleCreate))).Methods("POST", "OPTIONS").Name("new-muscle")

	exercisesHandler := exercises.NewHandler(exercisesService, s.metricsManager)
	r.HandleFunc("/muscles/{id}/exercises", exercisesHandler.HandleListForMuscle).Methods("GET", "OPTIONS").Name("list-muscle-exercises")
	r.HandleFunc("/exercises", exercisesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.Handle("/exercises", catalogAdminOnly(http.HandlerFunc(exercisesHandler.HandleCreate))).Methods("POST", "OPTIONS").Name("new-exercise")
	r.Handle("/exercises/bulk", catalogAdminOnly(http.HandlerFunc(exercisesHandler.HandleCreateBulk))).Methods("POST", "OPTIONS").Name("new-exercises-bulk")
	r.HandleFunc("/favorites", exercisesHandler.HandleFavorites).Methods("GET", "OPTIONS").Name("list-favorites")
	r.HandleFunc("/favorites/{exerciseId}", exercisesHandler.HandleAddFavorite).Methods("POST", "OPTIONS").Name("add-favorite")
	r.HandleFunc("/favorites/{exerciseId}", exercisesHandler.HandleRemoveFavorite).Methods("DELETE", "OPTIONS").Name("remove-favorite")

	splitsHandler := splits.NewHandler(aggregator, s.metricsManager)
	r.HandleFunc("/splits", splitsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-splits")
	r.HandleFunc("/splits", splitsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-split")
	r.HandleFunc("/splits/{id}", splitsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-split")

	workoutsHandler := workouts.NewHandler(workoutsService, s.metricsManager)
	r.HandleFunc("/workouts", workoutsHandler.HandleLog).Methods("POST", "OPTIONS").Name("log-workout")
	r.HandleFunc("/workouts/today", workoutsHandler.HandleToday).Methods("GET", "OPTIONS").Name("workouts-today")
	r.HandleFunc("/workouts/exercise/{id}", workoutsHandler.HandleHistory).Methods("GET", "OPTIONS").Name("workouts-history")

	sessionsHandler := sessions.NewHandler(sessionsService, s.metricsManager)
	r.HandleFunc("/workout-sessions", sessionsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workout-sessions")
	r.HandleFunc("/workout-sessions", sessionsHandler.HandleStart).Methods("POST", "OPTIONS").Name("new-workout-session")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, "not found", http.StatusNotFound)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitRequestBody(maxRequestBodyBytes))

	return r, nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, map[string]string{
		"service": "gymsplits",
		"version": s.versionInfo,
	}, http.StatusOK)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.cron.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.cron != nil {
		// waits for a running cleanup to finish
		<-s.cron.Stop().Done()
		log.Trace("cron stopped ...")
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
