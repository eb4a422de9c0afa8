package db

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
)

const (
	DefaultQueryTimeout = 15 * time.Second

	taskColumns = `id, type_id, user_id, title, description, start_date, deadline, finish_date, status, created_at, updated_at, deleted_at`
	typeColumns = `id, name, created_at, updated_at`
	userColumns = `id, name, email, password, created_at, updated_at`
)

type queries struct {
	createUser         string
	getUserByID        string
	getUserByEmail     string
	createToken        string
	getToken           string
	touchToken         string
	deleteToken        string
	getTasks           string
	getTaskByID        string
	getTaskWithTrashed string
	createTask         string
	updateTask         string
	deleteTask         string
	getTypes           string
	getTypeByID        string
	createType         string
	updateType         string
	deleteType         string
}

// Storage is the PostgreSQL store. pgx caches a prepared statement per query
// string on each pooled connection.
type Storage struct {
	pool    *pgxpool.Pool
	q       queries
	timeout time.Duration
	log     zerolog.Logger
}

func NewStorage(ctx context.Context, connStr string, timeout time.Duration, log zerolog.Logger) (*Storage, error) {
	log = log.With().Str("component", "postgres").Logger()
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse postgres config")
		return nil, err
	}
	poolCfg.ConnConfig.ConnectTimeout = timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to postgres")
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("failed to ping postgres")
		return nil, err
	}

	s := &Storage{
		pool:    pool,
		timeout: timeout,
		log:     log,
		q: queries{
			createUser:         `INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING ` + userColumns,
			getUserByID:        `SELECT ` + userColumns + ` FROM users WHERE id = $1`,
			getUserByEmail:     `SELECT ` + userColumns + ` FROM users WHERE email = $1`,
			createToken:        `INSERT INTO personal_access_tokens (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
			getToken:           `SELECT id, user_id, name, created_at, last_used_at FROM personal_access_tokens WHERE id = $1`,
			touchToken:         `UPDATE personal_access_tokens SET last_used_at = $1 WHERE id = $2`,
			deleteToken:        `DELETE FROM personal_access_tokens WHERE id = $1`,
			getTasks:           `SELECT ` + taskColumns + ` FROM tasks WHERE deleted_at IS NULL ORDER BY deadline ASC, id ASC`,
			getTaskByID:        `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND deleted_at IS NULL`,
			getTaskWithTrashed: `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`,
			createTask: `INSERT INTO tasks (type_id, user_id, title, description, start_date, deadline, finish_date, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ` + taskColumns,
			updateTask: `UPDATE tasks SET
					type_id = COALESCE($1, type_id),
					title = COALESCE($2, title),
					description = COALESCE($3, description),
					start_date = COALESCE($4, start_date),
					deadline = COALESCE($5, deadline),
					finish_date = COALESCE($6, finish_date),
					status = COALESCE($7, status),
					updated_at = now()
				WHERE id = $8 AND deleted_at IS NULL
				RETURNING ` + taskColumns,
			deleteTask:  `UPDATE tasks SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`,
			getTypes:    `SELECT ` + typeColumns + ` FROM types ORDER BY name COLLATE "C" ASC, id ASC`,
			getTypeByID: `SELECT ` + typeColumns + ` FROM types WHERE id = $1`,
			createType:  `INSERT INTO types (name) VALUES ($1) RETURNING ` + typeColumns,
			updateType:  `UPDATE types SET name = $1, updated_at = now() WHERE id = $2 RETURNING ` + typeColumns,
			deleteType:  `DELETE FROM types WHERE id = $1`,
		},
	}
	log.Info().Msg("connected to postgres")
	return s, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	s.log.Info().Msg("disconnected from postgres")
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func repoErr(err error) error {
	return fmt.Errorf("%w: %w", errors.ErrRepository, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	var status string
	err := row.Scan(
		&task.ID, &task.TypeID, &task.UserID, &task.Title, &task.Description,
		&task.StartDate.Time, &task.Deadline.Time, &task.FinishDate.Time,
		&status, &task.CreatedAt, &task.UpdatedAt, &task.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Status = models.TaskStatus(status)
	task.StatusLabel = task.Status.Label()
	return task, nil
}

func scanType(row pgx.Row) (*models.Type, error) {
	typ := &models.Type{}
	err := row.Scan(&typ.ID, &typ.Name, &typ.CreatedAt, &typ.UpdatedAt)
	return typ, err
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	created, err := scanUser(s.pool.QueryRow(ctx, s.q.createUser, user.Name, user.Email, user.Password))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrUserAlreadyExists
		}
		s.log.Error().Err(err).Msg("failed to create user")
		return repoErr(err)
	}
	*user = *created
	s.log.Info().Int64("user_id", user.ID).Msg("user created")
	return nil
}

func (s *Storage) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	user, err := scanUser(s.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		s.log.Error().Err(err).Msg("failed to fetch user")
		return nil, repoErr(err)
	}
	return user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, s.q.getUserByID, id)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, s.q.getUserByEmail, email)
}

func (s *Storage) CreateToken(ctx context.Context, token *models.AccessToken) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if _, err := s.pool.Exec(ctx, s.q.createToken, token.ID, token.UserID, token.Name, token.CreatedAt); err != nil {
		s.log.Error().Err(err).Msg("failed to create access token")
		return repoErr(err)
	}
	return nil
}

func (s *Storage) GetToken(ctx context.Context, id string) (*models.AccessToken, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	token := &models.AccessToken{}
	err := s.pool.QueryRow(ctx, s.q.getToken, id).
		Scan(&token.ID, &token.UserID, &token.Name, &token.CreatedAt, &token.LastUsedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrTokenNotFound
		}
		s.log.Error().Err(err).Msg("failed to fetch access token")
		return nil, repoErr(err)
	}
	return token, nil
}

func (s *Storage) TouchToken(ctx context.Context, id string, usedAt time.Time) error {
	return s.execAffecting(ctx, errors.ErrTokenNotFound, s.q.touchToken, usedAt, id)
}

func (s *Storage) DeleteToken(ctx context.Context, id string) error {
	return s.execAffecting(ctx, errors.ErrTokenNotFound, s.q.deleteToken, id)
}

// execAffecting runs a single-row write and reports notFound when no row
// matched.
func (s *Storage) execAffecting(ctx context.Context, notFound error, query string, args ...any) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		s.log.Error().Err(err).Msg("write failed")
		return repoErr(err)
	}
	if ct.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func (s *Storage) GetTasks(ctx context.Context) ([]models.Task, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, s.q.getTasks)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list tasks")
		return nil, repoErr(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to read task row")
			return nil, repoErr(err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, repoErr(err)
	}
	return tasks, nil
}

func (s *Storage) getTask(ctx context.Context, query string, id int64) (*models.Task, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	task, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		s.log.Error().Err(err).Int64("task_id", id).Msg("failed to fetch task")
		return nil, repoErr(err)
	}
	return task, nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.getTask(ctx, s.q.getTaskByID, id)
}

// GetTaskWithTrashed bypasses the soft-delete filter.
func (s *Storage) GetTaskWithTrashed(ctx context.Context, id int64) (*models.Task, error) {
	return s.getTask(ctx, s.q.getTaskWithTrashed, id)
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	created, err := scanTask(s.pool.QueryRow(ctx, s.q.createTask,
		task.TypeID, task.UserID, task.Title, task.Description,
		task.StartDate.Time, task.Deadline.Time, task.FinishDate.Time, string(task.Status),
	))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create task")
		return repoErr(err)
	}
	*task = *created
	s.log.Info().Int64("task_id", task.ID).Msg("task created")
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var status *string
	if patch.Status != nil {
		v := string(*patch.Status)
		status = &v
	}
	task, err := scanTask(s.pool.QueryRow(ctx, s.q.updateTask,
		patch.TypeID, patch.Title, patch.Description,
		dateArg(patch.StartDate), dateArg(patch.Deadline), dateArg(patch.FinishDate),
		status, id,
	))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		s.log.Error().Err(err).Int64("task_id", id).Msg("failed to update task")
		return nil, repoErr(err)
	}
	s.log.Info().Int64("task_id", id).Msg("task updated")
	return task, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	if err := s.execAffecting(ctx, errors.ErrNotFound, s.q.deleteTask, id); err != nil {
		return err
	}
	s.log.Info().Int64("task_id", id).Msg("task soft-deleted")
	return nil
}

func (s *Storage) GetTypes(ctx context.Context) ([]models.Type, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, s.q.getTypes)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list types")
		return nil, repoErr(err)
	}
	defer rows.Close()

	types := []models.Type{}
	for rows.Next() {
		typ, err := scanType(rows)
		if err != nil {
			return nil, repoErr(err)
		}
		types = append(types, *typ)
	}
	if err := rows.Err(); err != nil {
		return nil, repoErr(err)
	}
	return types, nil
}

func (s *Storage) GetTypeByID(ctx context.Context, id int64) (*models.Type, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	typ, err := scanType(s.pool.QueryRow(ctx, s.q.getTypeByID, id))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		return nil, repoErr(err)
	}
	return typ, nil
}

func (s *Storage) CreateType(ctx context.Context, typ *models.Type) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	created, err := scanType(s.pool.QueryRow(ctx, s.q.createType, typ.Name))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create type")
		return repoErr(err)
	}
	*typ = *created
	return nil
}

func (s *Storage) UpdateType(ctx context.Context, id int64, name string) (*models.Type, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	typ, err := scanType(s.pool.QueryRow(ctx, s.q.updateType, name, id))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		s.log.Error().Err(err).Int64("type_id", id).Msg("failed to update type")
		return nil, repoErr(err)
	}
	return typ, nil
}

func (s *Storage) DeleteType(ctx context.Context, id int64) error {
	if err := s.execAffecting(ctx, errors.ErrNotFound, s.q.deleteType, id); err != nil {
		return err
	}
	s.log.Info().Int64("type_id", id).Msg("type deleted")
	return nil
}

func dateArg(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}
