// Package remote talks to the catalog REST API.
package remote

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rogerio-castellano/catalog-sync/internal/config"
	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"go.uber.org/zap"
)

const (
	listPath = "public/get"
	addPath  = "public/add"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is returned for any non-2xx answer.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type Client struct {
	http *resty.Client
}

// NewClient builds a client from the remote section of the config.
func NewClient(cfg config.RemoteConfig) *Client {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &deadlineConn{Conn: conn, read: cfg.ReadTimeout, write: cfg.WriteTimeout}, nil
		},
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTransport(transport).
		SetTimeout(cfg.ConnectTimeout+cfg.WriteTimeout+cfg.ReadTimeout).
		SetLogger(zap.S().Named("remote")).
		SetDebug(cfg.Debug).
		SetHeader("Accept", "application/json")
	c.JSONMarshal = json.Marshal
	c.JSONUnmarshal = json.Unmarshal

	return &Client{http: c}
}

// deadlineConn bounds every single read and write on the connection, so a
// stalled upload or body fails after the write or read timeout. The client
// timeout stays as an overall cap of connect+write+read.
type deadlineConn struct {
	net.Conn
	read, write time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if c.read > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.read)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if c.write > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.write)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}

// ListProducts fetches the full remote catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	resp, err := c.http.R().SetContext(ctx).Get(listPath)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var products []models.Product
	if err := json.Unmarshal(resp.Body(), &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for i := range products {
		if products[i].Image != nil && *products[i].Image == "" {
			products[i].Image = nil
		}
	}
	return products, nil
}

// AddProduct submits one product as a multipart form. The image file, when
// given, is attached as files[].
func (c *Client) AddProduct(ctx context.Context, in models.NewProduct) (models.AddProductResponse, error) {
	req := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"product_name": in.Name,
			"product_type": in.Type,
			"price":        in.Price,
			"tax":          in.Tax,
		})

	if in.ImagePath != "" {
		f, err := os.Open(in.ImagePath)
		if err != nil {
			return models.AddProductResponse{}, fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		req.SetMultipartField("files[]", filepath.Base(in.ImagePath), "image/*", f)
	}

	resp, err := req.Post(addPath)
	if err != nil {
		return models.AddProductResponse{}, fmt.Errorf("add product: %w", err)
	}
	if resp.IsError() {
		return models.AddProductResponse{}, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var out models.AddProductResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return models.AddProductResponse{}, fmt.Errorf("decode add response: %w", err)
	}
	return out, nil
}
