package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
)

type createCommitForm struct {
	// FeeRate is taken as text so that a malformed rate is reported as an
	// invalid fee rate rather than a generic binding error.
	FeeRate            string `form:"feeRate" binding:"required"`
	RecipientAddress   string `form:"recipientAddress" binding:"required"`
	ExistingPrivateKey string `form:"existingPrivateKey"`
	ContentType        string `form:"contentType"`
	Compress           bool   `form:"compress"`
	Metadata           string `form:"metadata"`
}

// CreateCommit handles POST /create-commit.
func (h *Handler) CreateCommit(c *gin.Context) {
	defer cleanupMultipart(c)
	if !h.limitBody(c) {
		return
	}

	form := &createCommitForm{}
	if err := c.ShouldBind(form); err != nil {
		respondBindErr(c, err)
		return
	}
	file, err := readUpload(c)
	if err != nil {
		respondBindErr(c, err)
		return
	}
	UploadBytes.WithLabelValues(opCreateCommit).Observe(float64(len(file)))

	req := &inscription.CreateCommitRequest{
		File:                  file,
		FeeRate:               gconv.Float64(form.FeeRate),
		RecipientAddress:      form.RecipientAddress,
		ExistingPrivateKeyHex: form.ExistingPrivateKey,
		ContentType:           form.ContentType,
		Compress:              form.Compress,
	}
	if form.Metadata != "" {
		req.MetadataJSON = []byte(form.Metadata)
	}

	resp, err := h.Inscriber().CreateCommit(req)
	observeOperation(opCreateCommit, err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, api.RespOK(resp))
}
