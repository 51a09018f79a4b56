package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/services"
)

type PhotosHandler struct {
	photoService  *services.PhotoService
	exportService *services.ExportService
	baseURL       string
}

func NewPhotosHandler(photoService *services.PhotoService, exportService *services.ExportService, baseURL string) *PhotosHandler {
	return &PhotosHandler{
		photoService:  photoService,
		exportService: exportService,
		baseURL:       baseURL,
	}
}

func readUploadFile(c *gin.Context) (filename, contentType string, data []byte, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing file",
			Message: err.Error(),
		})
		return "", "", nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open file"})
		return "", "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read file"})
		return "", "", nil, false
	}

	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, true
}

// UploadPhoto godoc
// @Summary     Upload an original photo
// @Description Accepts a JPEG file and registers it in the project
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       file formData file true "JPEG file"
// @Success     201 {object} models.PhotoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /photos/{project_id}/upload [post]
func (h *PhotosHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	filename, contentType, data, ok := readUploadFile(c)
	if !ok {
		return
	}

	photo, err := h.photoService.UploadPhoto(c.Request.Context(), userID, projectID, filename, contentType, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewPhotoResponse(photo, false))
}

// UploadEditedPhoto godoc
// @Summary     Upload an edited photo
// @Description Attaches an edited rendition to its base photo. The filename may carry a variant suffix (e.g. IMG_1_edited.jpg); the base photo must be selected.
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       file formData file true "JPEG file"
// @Success     201 {object} models.PhotoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos/{project_id}/upload-edited [post]
func (h *PhotosHandler) UploadEditedPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	filename, contentType, data, ok := readUploadFile(c)
	if !ok {
		return
	}

	photo, err := h.photoService.UploadEditedPhoto(c.Request.Context(), userID, projectID, filename, contentType, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewPhotoResponse(photo, true))
}

// ListProjectPhotos godoc
// @Summary     List a project's photos
// @Tags        photos
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       skip query int false "Offset"
// @Param       limit query int false "Page size (max 100)"
// @Param       is_selected query bool false "Selection filter"
// @Success     200 {object} models.PhotoListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos/{project_id}/list [get]
func (h *PhotosHandler) ListProjectPhotos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	p := queryPagination(c)
	photos, total, err := h.photoService.GetProjectPhotos(userID, projectID, p, querySelectedFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PhotoListResponse{
		Photos: photos,
		Meta:   models.NewPaginationMeta(p, total),
	})
}

// GetPhotoImage godoc
// @Summary     Stream a photo rendition
// @Description Returns the photo bytes. Thumbnails come back as WebP; width/height trigger an on-the-fly resize.
// @Tags        photos
// @Produce     image/jpeg
// @Security    Bearer
// @Param       photo_id path string true "Photo ID (UUID)"
// @Param       version query string false "original or edited" default(original)
// @Param       width query int false "Target width"
// @Param       height query int false "Target height"
// @Param       is_thumbnail query bool false "WebP thumbnail"
// @Success     200 {file} binary
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos/{photo_id} [get]
func (h *PhotosHandler) GetPhotoImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	photoID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	version := c.DefaultQuery("version", models.VersionOriginal)
	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))
	thumbnail, _ := strconv.ParseBool(c.Query("is_thumbnail"))

	image, err := h.photoService.GetPhotoImage(c.Request.Context(), userID, photoID, version, width, height, thumbnail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", image.Filename))
	c.Data(http.StatusOK, image.ContentType, image.Data)
}

// GetPhotoMeta godoc
// @Summary     Get a photo with all comments
// @Tags        photos
// @Produce     json
// @Security    Bearer
// @Param       photo_id path string true "Photo ID (UUID)"
// @Success     200 {object} models.PhotoMetaResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos/{photo_id}/meta [get]
func (h *PhotosHandler) GetPhotoMeta(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	photoID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	meta, err := h.photoService.GetPhotoMeta(userID, photoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

// UpdatePhotoFlags godoc
// @Summary     Update approval flags
// @Description Sets the owner-controlled is_approved / is_rejected flags
// @Tags        photos
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       photo_id path string true "Photo ID (UUID)"
// @Success     200 {object} models.PhotoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos/{photo_id}/flags [patch]
func (h *PhotosHandler) UpdatePhotoFlags(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	photoID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		IsApproved *bool `json:"is_approved,omitempty"`
		IsRejected *bool `json:"is_rejected,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	photo, hasEdited, err := h.photoService.SetPhotoFlags(userID, photoID, req.IsApproved, req.IsRejected)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewPhotoResponse(photo, hasEdited))
}

// DownloadPhotos godoc
// @Summary     Download export artifacts
// @Description type=manifest returns a ZIP of the manifest CSV plus the selected photos; type=scripts returns shell script templates; type=csv returns the raw CSV.
// @Tags        photos
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       type query string true "manifest, scripts, or csv"
// @Success     200 {object} models.ScriptsResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos/{project_id}/download-photos [get]
func (h *PhotosHandler) DownloadPhotos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	manifest, err := h.exportService.BuildPhotoManifest(projectID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	switch c.Query("type") {
	case "manifest":
		data, err := h.exportService.BuildManifestZip(c.Request.Context(), manifest)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", manifest.ProjectTitle+".zip"))
		c.Data(http.StatusOK, "application/zip", data)

	case "scripts":
		csvURL := fmt.Sprintf("%s/photos/%s/download-photos?type=csv", h.baseURL, projectID)
		c.JSON(http.StatusOK, models.ScriptsResponse{
			ProjectTitle:   manifest.ProjectTitle,
			Scripts:        h.exportService.GenerateScriptTemplates(manifest),
			CSVDownloadURL: csvURL,
		})

	case "csv":
		content, err := h.exportService.GenerateCSVContent(manifest)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", manifest.ProjectTitle+".csv"))
		c.Data(http.StatusOK, "text/csv", []byte(content))

	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "type must be one of: manifest, scripts, csv",
		})
	}
}
