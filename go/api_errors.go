package marketplaceserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-marketplace/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", apierrors.AppErrorMapper)

// respondProblem sends a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError maps an application error to its RFC 7807 response.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondBadRequest reports a body or parameter that could not be decoded.
func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
