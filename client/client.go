// Package client talks to a running ordinscribe api server.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
	"github.com/pkg/errors"
)

var validate = validator.New()

type clientOptions struct {
	Host          string `validate:"required,url"`
	Cert          string
	TLSSkipVerify bool
	Timeout       time.Duration
}

type Option func(*clientOptions)

// WithHost sets the api server base url, e.g. http://localhost:8335.
func WithHost(host string) Option {
	return func(o *clientOptions) {
		o.Host = host
	}
}

// WithCert pins the server certificate to the PEM file at path.
func WithCert(path string) Option {
	return func(o *clientOptions) {
		o.Cert = path
	}
}

func WithTLSSkipVerify(skip bool) Option {
	return func(o *clientOptions) {
		o.TLSSkipVerify = skip
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.Timeout = timeout
	}
}

type Client struct {
	host string
	http *http.Client
}

func New(opts ...Option) (*Client, error) {
	options := &clientOptions{Timeout: time.Minute}
	for _, opt := range opts {
		opt(options)
	}
	if err := validate.Struct(options); err != nil {
		return nil, err
	}
	httpClient, err := newHTTPClient(options)
	if err != nil {
		return nil, err
	}
	return &Client{
		host: strings.TrimRight(options.Host, "/"),
		http: httpClient,
	}, nil
}

// newHTTPClient returns a new HTTP client that is configured according to the
// TLS settings in the options.
func newHTTPClient(o *clientOptions) (*http.Client, error) {
	client := &http.Client{Timeout: o.Timeout}
	if o.Cert == "" && !o.TLSSkipVerify {
		return client, nil
	}
	tlsConfig := &tls.Config{InsecureSkipVerify: o.TLSSkipVerify}
	if o.Cert != "" {
		pem, err := os.ReadFile(o.Cert)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in %s", o.Cert)
		}
		tlsConfig.RootCAs = pool
	}
	client.Transport = &http.Transport{TLSClientConfig: tlsConfig}
	return client, nil
}

type CommitParams struct {
	File               []byte
	FileName           string
	FeeRate            float64
	RecipientAddress   string
	ExistingPrivateKey string
	ContentType        string
	Compress           bool
	MetadataJSON       []byte
}

func (c *Client) CreateCommit(ctx context.Context, p *CommitParams) (*inscription.CreateCommitResponse, error) {
	fields := map[string]string{
		"feeRate":          gconv.String(p.FeeRate),
		"recipientAddress": p.RecipientAddress,
	}
	if p.ExistingPrivateKey != "" {
		fields["existingPrivateKey"] = p.ExistingPrivateKey
	}
	if p.ContentType != "" {
		fields["contentType"] = p.ContentType
	}
	if p.Compress {
		fields["compress"] = "true"
	}
	if len(p.MetadataJSON) > 0 {
		fields["metadata"] = string(p.MetadataJSON)
	}
	resp := &inscription.CreateCommitResponse{}
	if err := c.postMultipart(ctx, "/create-commit", p.FileName, p.File, fields, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

type RevealParams struct {
	InscriptionID uint64
	File          []byte
	FileName      string
	CommitTxID    string
	Vout          uint32
	Amount        int64
	Version       uint64
}

func (c *Client) CreateReveal(ctx context.Context, p *RevealParams) (*inscription.CreateRevealResponse, error) {
	fields := map[string]string{
		"inscriptionId": gconv.String(p.InscriptionID),
		"commitTxId":    p.CommitTxID,
		"vout":          gconv.String(p.Vout),
		"amount":        gconv.String(p.Amount),
	}
	if p.Version > 0 {
		fields["version"] = gconv.String(p.Version)
	}
	resp := &inscription.CreateRevealResponse{}
	if err := c.postMultipart(ctx, "/create-reveal", p.FileName, p.File, fields, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Inscription(ctx context.Context, id uint64) (*inscription.QueryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/inscription/%d", c.host, id), nil)
	if err != nil {
		return nil, err
	}
	resp := &inscription.QueryResponse{}
	if err := c.do(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id uint64, status string) (*inscription.QueryResponse, error) {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/inscription/%d/status", c.host, id), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp := &inscription.QueryResponse{}
	if err := c.do(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) postMultipart(ctx context.Context, path, fileName string, file []byte,
	fields map[string]string, result interface{}) error {

	if fileName == "" {
		fileName = "inscription"
	}
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(file); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, result)
}

type response struct {
	ErrNo  api.Code        `json:"err_no"`
	ErrMsg string          `json:"err_msg"`
	Data   json.RawMessage `json:"data"`
}

func (c *Client) do(req *http.Request, result interface{}) error {
	httpResponse, err := c.http.Do(req)
	if err != nil {
		return err
	}
	respBytes, err := io.ReadAll(httpResponse.Body)
	_ = httpResponse.Body.Close()
	if err != nil {
		return errors.Wrap(err, "read api reply")
	}

	resp := &response{}
	if err := json.Unmarshal(respBytes, resp); err != nil {
		if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
			return fmt.Errorf("%d %s", httpResponse.StatusCode, http.StatusText(httpResponse.StatusCode))
		}
		return errors.Wrap(err, "decode api reply")
	}
	if resp.ErrNo != api.CodeSuccess {
		return &Error{Status: httpResponse.StatusCode, Code: resp.ErrNo, Msg: resp.ErrMsg}
	}
	return json.Unmarshal(resp.Data, result)
}
