package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
)

// Inscription handles GET /inscription/:id.
func (h *Handler) Inscription(c *gin.Context) {
	id := gconv.Uint64(c.Param("id"))
	if id == 0 {
		c.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, "invalid inscription id"))
		return
	}
	resp, err := h.Inscriber().Query(id)
	observeOperation(opQuery, err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, api.RespOK(resp))
}
