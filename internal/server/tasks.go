package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
)

func (api *TaskAPI) getTasks(ctx *gin.Context) {
	tasks, err := api.tasks.GetTasks(ctx.Request.Context())
	if err != nil {
		api.log.Error().Err(err).Msg("list tasks failed")
		respondError(ctx, http.StatusInternalServerError, msgWrongError)
		return
	}

	tag := requestLanguage(ctx)
	for i := range tasks {
		localize(tag, &tasks[i])
	}
	respondData(ctx, "tasks", tasks, "List of tasks!")
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		api.log.Error().Str("path", ctx.FullPath()).Msg("create task reached without an authenticated user")
		abortUnauthenticated(ctx)
		return
	}

	var req models.CreateTaskRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		respondInvalid(ctx, err)
		return
	}

	task := req.Task(user.ID)
	if err := api.tasks.CreateTask(ctx.Request.Context(), &task); err != nil {
		// The raw storage message is surfaced to the caller on purpose.
		api.log.Error().Err(err).Msg("create task failed")
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	localize(requestLanguage(ctx), &task)
	respondData(ctx, "task", task, "Task created with success!")
}

func (api *TaskAPI) getTask(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		respondError(ctx, api.status.readMissing, msgWrongError)
		return
	}

	task, err := api.tasks.GetTaskByID(ctx.Request.Context(), id)
	if err != nil {
		api.respondLookupError(ctx, err, api.status.readMissing)
		return
	}

	localize(requestLanguage(ctx), task)
	respondData(ctx, "task", task, "Show Task!")
}

func (api *TaskAPI) updateTask(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		respondError(ctx, api.status.writeMissing, msgWrongError)
		return
	}

	var req models.UpdateTaskRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		respondInvalid(ctx, err)
		return
	}

	task, err := api.tasks.UpdateTask(ctx.Request.Context(), id, req.Patch())
	if err != nil {
		api.respondLookupError(ctx, err, api.status.writeMissing)
		return
	}

	localize(requestLanguage(ctx), task)
	respondData(ctx, "task", task, "Task updated with success!")
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		respondError(ctx, api.status.writeMissing, msgWrongError)
		return
	}

	if err := api.tasks.DeleteTask(ctx.Request.Context(), id); err != nil {
		api.respondLookupError(ctx, err, api.status.writeMissing)
		return
	}

	respondData(ctx, "task", []any{}, "The resource was deleted successfully!")
}

// respondLookupError reports ErrNotFound with missingCode and anything else
// as an internal error.
func (api *TaskAPI) respondLookupError(ctx *gin.Context, err error, missingCode int) {
	if stderrors.Is(err, errors.ErrNotFound) {
		respondError(ctx, missingCode, msgWrongError)
		return
	}
	api.log.Error().Err(err).Str("path", ctx.FullPath()).Msg("repository call failed")
	respondError(ctx, http.StatusInternalServerError, msgWrongError)
}
