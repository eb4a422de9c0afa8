package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapi/internal/domain/models"
)

func (api *TaskAPI) getTypes(ctx *gin.Context) {
	types, err := api.types.GetTypes(ctx.Request.Context())
	if err != nil {
		api.log.Error().Err(err).Msg("list types failed")
		respondError(ctx, http.StatusInternalServerError, msgWrongError)
		return
	}
	respondData(ctx, "types", types, "List of types!")
}

func (api *TaskAPI) createType(ctx *gin.Context) {
	var req models.CreateTypeRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		respondInvalid(ctx, err)
		return
	}

	typ := models.Type{Name: req.Name}
	if err := api.types.CreateType(ctx.Request.Context(), &typ); err != nil {
		api.log.Error().Err(err).Msg("create type failed")
		respondError(ctx, http.StatusBadRequest, err.Error())
		return
	}
	respondData(ctx, "type", typ, "Type created with success!")
}

func (api *TaskAPI) getType(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		respondError(ctx, api.status.readMissing, msgWrongError)
		return
	}

	typ, err := api.types.GetTypeByID(ctx.Request.Context(), id)
	if err != nil {
		api.respondLookupError(ctx, err, api.status.readMissing)
		return
	}
	respondData(ctx, "type", typ, "Show Type!")
}

func (api *TaskAPI) updateType(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		respondError(ctx, api.status.writeMissing, msgWrongError)
		return
	}

	var req models.UpdateTypeRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		respondInvalid(ctx, err)
		return
	}

	typ, err := api.types.UpdateType(ctx.Request.Context(), id, req.Name)
	if err != nil {
		api.respondLookupError(ctx, err, api.status.writeMissing)
		return
	}
	respondData(ctx, "type", typ, "Type updated with success!")
}

// deleteType hard-deletes; tasks referencing the type are left alone.
func (api *TaskAPI) deleteType(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		respondError(ctx, api.status.writeMissing, msgWrongError)
		return
	}

	if err := api.types.DeleteType(ctx.Request.Context(), id); err != nil {
		api.respondLookupError(ctx, err, api.status.writeMissing)
		return
	}
	respondData(ctx, "type", []any{}, "The resource was deleted successfully!")
}
