package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
	"github.com/pkg/errors"
)

type errMapping struct {
	target error
	status int
	code   api.Code
}

var errMappings = []errMapping{
	{inscription.ErrInvalidKeyEncoding, http.StatusBadRequest, api.CodeInvalidKeyEncoding},
	{inscription.ErrInvalidFeeRate, http.StatusBadRequest, api.CodeInvalidFeeRate},
	{inscription.ErrInvalidAddress, http.StatusBadRequest, api.CodeInvalidAddress},
	{inscription.ErrDustOutput, http.StatusBadRequest, api.CodeDustOutput},
	{inscription.ErrInvalidOutpoint, http.StatusBadRequest, api.CodeInvalidOutpoint},
	{inscription.ErrCommitMismatch, http.StatusBadRequest, api.CodeCommitMismatch},
	{inscription.ErrInvalidMetadata, http.StatusBadRequest, api.CodeInvalidMetadata},
	{inscription.ErrTxTooLarge, http.StatusBadRequest, api.CodeTxTooLarge},
	{inscription.ErrInvalidAmount, http.StatusBadRequest, api.CodeInvalidAmount},
	{inscription.ErrInvalidTransition, http.StatusBadRequest, api.CodeInvalidTransition},
	{inscription.ErrNotFound, http.StatusNotFound, api.CodeNotFound},
	{inscription.ErrConflict, http.StatusConflict, api.CodeConflict},
	{inscription.ErrSigningFailure, http.StatusInternalServerError, api.CodeSigningFailure},
}

// respondErr writes the api error matching err. Anything that is not a known
// engine or ledger error is reported as a 500 without its message.
func respondErr(c *gin.Context, err error) {
	for _, m := range errMappings {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				log.Srv.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
			}
			c.JSON(m.status, api.RespErr(m.code, err.Error()))
			return
		}
	}
	log.Srv.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, api.RespErr(api.CodeError500, "internal error"))
}

// respondBindErr reports a request that failed form or json binding.
func respondBindErr(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		c.JSON(http.StatusRequestEntityTooLarge, api.RespErr(api.CodeFileTooLarge, err.Error()))
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == txidTag {
				c.JSON(http.StatusBadRequest, api.RespErr(api.CodeInvalidOutpoint, fe.Error()))
				return
			}
		}
	}
	c.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, err.Error()))
}
