package server

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"taskapi/internal/domain/models"
	"taskapi/internal/validation"
)

const msgWrongError = "Sorry, wrong error. Please try again"

// statusCodes decides how a missing record is reported. Reads and writes
// differ only under the legacy policy.
type statusCodes struct {
	readMissing  int
	writeMissing int
}

var (
	canonicalStatus = statusCodes{readMissing: http.StatusNotFound, writeMissing: http.StatusNotFound}
	legacyStatus    = statusCodes{readMissing: http.StatusBadRequest, writeMissing: http.StatusNoContent}
)

func respondData(ctx *gin.Context, key string, value any, message string) {
	ctx.JSON(http.StatusOK, gin.H{
		"data":    gin.H{key: value},
		"status":  "success",
		"message": message,
	})
}

func respondError(ctx *gin.Context, code int, message string) {
	ctx.JSON(code, gin.H{
		"data":    []any{},
		"status":  "error",
		"message": message,
	})
}

// respondInvalid writes the 422 envelope for *validation.Errors and a plain
// 500 for anything else.
func respondInvalid(ctx *gin.Context, err error) {
	var verrs *validation.Errors
	if !stderrors.As(err, &verrs) {
		respondError(ctx, http.StatusInternalServerError, msgWrongError)
		return
	}
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": "Validation errors",
		"data":    verrs.Fields,
	})
}

// bindAndValidate decodes the JSON body into req and runs the validation
// layer over it.
func bindAndValidate(ctx *gin.Context, req any) error {
	return validation.Check(ctx.ShouldBindJSON(req), req)
}

func paramID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func requestLanguage(ctx *gin.Context) language.Tag {
	return models.MatchLanguage(ctx.GetHeader("Accept-Language"))
}

func localize(tag language.Tag, tasks ...*models.Task) {
	for _, t := range tasks {
		t.StatusLabel = t.Status.LabelFor(tag)
	}
}
