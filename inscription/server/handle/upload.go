package handle

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
	"github.com/pkg/errors"
)

const (
	fileField = "file"
	txidTag   = "txid"
)

var (
	txidRegexp       = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	registerTxidOnce sync.Once
)

func registerValidators() {
	registerTxidOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation(txidTag, func(fl validator.FieldLevel) bool {
			return txidRegexp.MatchString(fl.Field().String())
		}); err != nil {
			log.Srv.Errorf("register %s validator: %v", txidTag, err)
		}
	})
}

// limitBody caps how much of the request body the multipart parser may read.
// It answers 413 and returns false when the declared length is already over.
func (h *Handler) limitBody(c *gin.Context) bool {
	if c.Request.ContentLength > h.options.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, api.RespErr(api.CodeFileTooLarge,
			fmt.Sprintf("request body exceeds %s", humanize.IBytes(uint64(h.options.maxUploadSize)))))
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.options.maxUploadSize)
	return true
}

// readUpload returns the content of the multipart file field.
func readUpload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile(fileField)
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	return data, nil
}

// cleanupMultipart removes the temp files the multipart parser spilled to disk.
func cleanupMultipart(c *gin.Context) {
	if c.Request.MultipartForm == nil {
		return
	}
	if err := c.Request.MultipartForm.RemoveAll(); err != nil {
		log.Srv.Warnf("remove multipart files: %v", err)
	}
}
