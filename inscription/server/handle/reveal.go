package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
)

type createRevealForm struct {
	InscriptionID uint64  `form:"inscriptionId" binding:"required"`
	CommitTxID    string  `form:"commitTxId" binding:"required,txid"`
	Vout          *uint32 `form:"vout" binding:"required"`
	Amount        int64   `form:"amount" binding:"required,gt=0"`
	Version       uint64  `form:"version"`
}

// CreateReveal handles POST /create-reveal.
func (h *Handler) CreateReveal(c *gin.Context) {
	defer cleanupMultipart(c)
	if !h.limitBody(c) {
		return
	}

	form := &createRevealForm{}
	if err := c.ShouldBind(form); err != nil {
		respondBindErr(c, err)
		return
	}
	file, err := readUpload(c)
	if err != nil {
		respondBindErr(c, err)
		return
	}
	UploadBytes.WithLabelValues(opCreateReveal).Observe(float64(len(file)))

	resp, err := h.Inscriber().CreateReveal(&inscription.CreateRevealRequest{
		InscriptionID:     form.InscriptionID,
		File:              file,
		CommitTxID:        form.CommitTxID,
		OutputIndex:       *form.Vout,
		FundingAmountSats: form.Amount,
		Version:           form.Version,
	})
	observeOperation(opCreateReveal, err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, api.RespOK(resp))
}
