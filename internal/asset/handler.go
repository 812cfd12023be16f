package asset

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mukeshiit422/epemcell-backend/internal/response"
)

const (
	msgNoFile       = "No file uploaded"
	msgInvalidID    = "Invalid file id"
	msgNotFound     = "File not found"
	msgUploadFailed = "Upload failed"
	msgQueryFailed  = "Failed to fetch files"
	msgDeleteFailed = "Failed to delete file"

	msgUploaded = "File uploaded"
	msgDeleted  = "File deleted successfully"
)

// Handler holds HTTP handlers for asset endpoints.
type Handler struct {
	svc       *Service
	uploadDir string
	maxMemory int64
}

// NewHandler creates a new asset Handler. Uploaded parts are staged as temp
// files in uploadDir; maxMemory bounds the multipart bytes parsed in memory.
func NewHandler(svc *Service, uploadDir string, maxMemory int64) *Handler {
	return &Handler{svc: svc, uploadDir: uploadDir, maxMemory: maxMemory}
}

// RegisterRoutes mounts the asset endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/upload", func(r chi.Router) {
		r.Post("/", h.Upload)
		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
	})
}

type uploadResponse struct {
	Message string `json:"message" example:"File uploaded"`
	File    *Asset `json:"file"`
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Store the file in the bucket under "<unix-millis>-<filename>" and record it in the assets table.
//	@Tags			assets
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File to upload"
//	@Success		200		{object}	uploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		response.BadRequest(w, msgNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, msgNoFile)
		return
	}
	defer file.Close()

	staged, size, err := stage(h.uploadDir, file)
	if err != nil {
		logError(r, "upload", err)
		response.InternalError(w, msgUploadFailed)
		return
	}
	defer discard(staged)

	a, err := h.svc.Upload(r.Context(), header.Filename, contentType(header), staged, size)
	if err != nil {
		logError(r, "upload", err)
		response.InternalError(w, msgUploadFailed)
		return
	}

	response.OK(w, uploadResponse{Message: msgUploaded, File: a})
}

// List godoc
//
//	@Summary		List uploaded files
//	@Description	Returns every recorded asset, most recent first.
//	@Tags			assets
//	@Produce		json
//	@Success		200	{array}		Asset
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/upload [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.svc.List(r.Context())
	if err != nil {
		logError(r, "list", err)
		response.InternalError(w, msgQueryFailed)
		return
	}
	response.OK(w, assets)
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Description	Removes the stored object, then the asset row.
//	@Tags			assets
//	@Produce		json
//	@Param			id	path		int	true	"Asset id"
//	@Success		200	{object}	response.MessageBody
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/upload/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, msgInvalidID)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, msgNotFound)
			return
		}
		logError(r, "delete", err)
		response.InternalError(w, msgDeleteFailed)
		return
	}

	response.Message(w, msgDeleted)
}

// stage copies src into a new temp file under dir and rewinds it for reading.
func stage(dir string, src io.Reader) (*os.File, int64, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, 0, fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return nil, 0, fmt.Errorf("create temp file: %w", err)
	}

	n, err := io.Copy(f, src)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		discard(f)
		return nil, 0, fmt.Errorf("stage upload: %w", err)
	}
	return f, n, nil
}

// discard closes and removes a staged file.
func discard(f *os.File) {
	_ = f.Close()
	if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("asset: remove temp file %s: %v", f.Name(), err)
	}
}

func contentType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func logError(r *http.Request, op string, err error) {
	log.Printf("%s error: %v request_id=%s", op, err, chiMiddleware.GetReqID(r.Context()))
}
