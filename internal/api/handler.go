package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rm-hull/inteliver/internal/service"
	"github.com/rm-hull/inteliver/internal/source"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

var errMissingSource = errors.New("path must be /{cloudname}/{command}/s3/{key} or /{cloudname}/{command}/http/{url}")

type Processor interface {
	Process(ctx context.Context, req service.Request) (*service.Result, error)
}

type ImageHandler struct {
	svc Processor
}

func NewImageHandler(svc Processor) *ImageHandler {
	return &ImageHandler{svc: svc}
}

// Register mounts the image routes. The command may itself contain slashes, so
// everything after the cloudname is split by hand.
func (h *ImageHandler) Register(r gin.IRouter) {
	r.GET("/image/:cloudname/*rest", h.Get)
}

func (h *ImageHandler) Get(c *gin.Context) {
	req, err := parsePath(c.Param("cloudname"), c.Param("rest"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Source == source.KindHTTP && c.Request.URL.RawQuery != "" {
		req.URI += "?" + c.Request.URL.RawQuery
	}

	res, err := h.svc.Process(c.Request.Context(), req)
	if err != nil {
		failure := service.Classify(err)
		log := zap.S().With("request_id", c.GetString("request_id"), "cloudname", req.Cloudname, "command", req.Command, "uri", req.URI, "type", failure.Type)
		if failure.HTTPStatus >= http.StatusInternalServerError {
			log.Errorw("image request failed", "error", err)
		} else {
			log.Infow("image request rejected", "error", err)
		}
		c.JSON(failure.HTTPStatus, gin.H{"detail": err.Error()})
		return
	}

	c.Data(http.StatusOK, res.ContentType, res.Body)
}

// parsePath splits "/{command}/{s3|http}/{uri}". Command tokens always start
// with "i_", so the first bare s3 or http segment marks the source.
func parsePath(cloudname, rest string) (service.Request, error) {
	segments := strings.Split(strings.TrimPrefix(rest, "/"), "/")
	for i := 1; i < len(segments); i++ {
		kind, err := source.ParseKind(segments[i])
		if err != nil {
			continue
		}

		uri := strings.Join(segments[i+1:], "/")
		if uri == "" {
			return service.Request{}, errMissingSource
		}
		if kind == source.KindHTTP {
			uri = source.NormalizeURL(uri)
		}
		return service.Request{
			Cloudname: cloudname,
			Command:   strings.Join(segments[:i], "/"),
			Source:    kind,
			URI:       uri,
		}, nil
	}
	return service.Request{}, errMissingSource
}

// RequestID propagates or assigns an X-Request-Id for every request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
