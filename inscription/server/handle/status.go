package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
)

type updateStatusBody struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles POST /inscription/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id := gconv.Uint64(c.Param("id"))
	if id == 0 {
		c.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, "invalid inscription id"))
		return
	}
	body := &updateStatusBody{}
	if err := c.ShouldBindJSON(body); err != nil {
		respondBindErr(c, err)
		return
	}
	resp, err := h.Inscriber().UpdateStatus(id, body.Status)
	observeOperation(opUpdateStatus, err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, api.RespOK(resp))
}
