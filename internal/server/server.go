package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskapi/internal/auth"
	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
)

type TaskRepository interface {
	GetTasks(ctx context.Context) ([]models.Task, error)
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type TypeRepository interface {
	GetTypes(ctx context.Context) ([]models.Type, error)
	GetTypeByID(ctx context.Context, id int64) (*models.Type, error)
	CreateType(ctx context.Context, typ *models.Type) error
	UpdateType(ctx context.Context, id int64, name string) (*models.Type, error)
	DeleteType(ctx context.Context, id int64) error
}

// Repository is everything the API needs from a store. Both the PostgreSQL
// and the in-memory storage satisfy it.
type Repository interface {
	auth.UserStore
	auth.UserCreator
	auth.TokenStore
	TaskRepository
	TypeRepository
}

type TaskAPI struct {
	httpSrv *http.Server
	issuer  *auth.Issuer
	tasks   TaskRepository
	types   TypeRepository
	status  statusCodes
	log     zerolog.Logger
}

func NewTaskAPI(repo Repository, cfg *Config, log zerolog.Logger) *TaskAPI {
	if repo == nil {
		return nil
	}
	if cfg == nil {
		cfg = &DefaultConfig
	}
	appKey := cfg.AppKey
	if appKey == "" {
		appKey = DefaultConfig.AppKey
	}

	api := &TaskAPI{
		httpSrv: &http.Server{
			Addr:              cfg.ListenAddr(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		issuer: auth.NewIssuer(repo, repo, appKey, log),
		tasks:  repo,
		types:  repo,
		status: canonicalStatus,
		log:    log.With().Str("component", "http").Logger(),
	}
	if cfg.LegacyStatusCodes {
		api.status = legacyStatus
	}

	api.configRoutes()
	return api
}

func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	api.log.Info().Str("addr", api.httpSrv.Addr).Msg("http server listening")
	return api.httpSrv.ListenAndServe()
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	return api.httpSrv.Shutdown(ctx)
}

// Issuer exposes the token issuer, e.g. to revoke tokens.
func (api *TaskAPI) Issuer() *auth.Issuer {
	return api.issuer
}

func (api *TaskAPI) configRoutes() {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), RequestLogger(api.log), GzipRequestDecompress())

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"message": "The method is not supported for this route."})
	})
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})

	router.POST("/auth/login", api.login)

	protected := router.Group("", RequireToken(api.issuer, api.log))

	task := protected.Group("/task")
	{
		task.GET("", api.getTasks)
		task.POST("", api.createTask)
		task.GET("/:id", api.getTask)
		task.PUT("/:id", api.updateTask)
		task.DELETE("/:id", api.deleteTask)
	}

	typ := protected.Group("/type")
	{
		typ.GET("", api.getTypes)
		typ.POST("", api.createType)
		typ.GET("/:id", api.getType)
		typ.PUT("/:id", api.updateType)
		typ.DELETE("/:id", api.deleteType)
	}

	api.httpSrv.Handler = router
}
