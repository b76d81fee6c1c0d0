package echoapi

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
)

const uploadField = "files"

type contentApi struct {
	svc content.Service
}

func registerContentAPI(g *echo.Group, svc content.Service, uploadLimit string) {
	api := contentApi{svc: svc}

	cg := g.Group("/content")
	cg.POST("/upload", api.upload, middleware.BodyLimit(uploadLimit))
	cg.POST("/process", api.process)
	cg.POST("/save", api.save)
	cg.GET("/teacher/:teacherId", api.queryByTeacher)

	// detail endpoints
	dg := cg.Group("/:contentId")
	dg.GET("", api.retrieve)
	dg.PATCH("/status", api.setStatus)
	dg.POST("/views", api.recordView)
	dg.POST("/downloads", api.recordDownload)
	dg.DELETE("", api.destroy)
}

type (
	ProcessRequest struct {
		Files []content.UploadedFile `json:"files"`
	}

	ProcessResponse struct {
		Success        bool              `json:"success"`
		Content        content.Generated `json:"content"`
		ModelUsed      string            `json:"modelUsed"`
		ParseOutcome   content.Outcome   `json:"parseOutcome"`
		ProcessingTime int64             `json:"processingTime"`
	}
)

// Handlers

func (api *contentApi) upload(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		if errors.Cause(err) == http.ErrNotMultipart {
			return core.NewValidationError(content.ErrNoFilesUploaded)
		}
		return errors.Wrap(err, "parsing multipart form")
	}

	headers := form.File[uploadField]
	uploads := make([]content.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return fail(errors.Wrapf(err, "opening %q", fh.Filename), "Failed to upload files")
		}
		defer f.Close()
		uploads = append(uploads, newUpload(fh, f))
	}

	files, err := api.svc.Upload(ctx.Request().Context(), uploads)
	if err != nil {
		return fail(err, "Failed to upload files")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "files": files})
}

func newUpload(fh *multipart.FileHeader, f multipart.File) content.Upload {
	return content.Upload{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get(echo.HeaderContentType),
		Size:     fh.Size,
		Body:     f,
	}
}

func (api *contentApi) process(ctx echo.Context) error {
	var data ProcessRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProcessRequest")
	}

	res, err := api.svc.Process(ctx.Request().Context(), data.Files)
	if err != nil {
		return fail(err, "Failed to process files with AI")
	}
	return ctx.JSON(http.StatusOK, ProcessResponse{
		Success:        true,
		Content:        res.Content,
		ModelUsed:      res.ModelUsed,
		ParseOutcome:   res.Outcome,
		ProcessingTime: res.ProcessingTime,
	})
}

func (api *contentApi) save(ctx echo.Context) error {
	var data content.NewContent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContent")
	}

	rec, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return fail(err, "Failed to save content")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Content saved successfully",
		"contentId": rec.ID,
		"data":      rec,
	})
}

func (api *contentApi) queryByTeacher(ctx echo.Context) error {
	var filter content.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.TeacherID = ctx.Param("teacherId")

	recs, err := api.svc.ListByTeacher(ctx.Request().Context(), filter)
	if err != nil {
		return fail(err, "Failed to fetch content")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": recs})
}

func (api *contentApi) retrieve(ctx echo.Context) error {
	rec, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("contentId"))
	if err != nil {
		return fail(err, "Failed to fetch content")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": rec})
}

func (api *contentApi) setStatus(ctx echo.Context) error {
	var data content.UpdateStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatus")
	}

	rec, err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("contentId"), data)
	if err != nil {
		return fail(err, "Failed to update content")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": rec})
}

func (api *contentApi) recordView(ctx echo.Context) error {
	rec, err := api.svc.RecordView(ctx.Request().Context(), ctx.Param("contentId"))
	if err != nil {
		return fail(err, "Failed to update content")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": rec})
}

func (api *contentApi) recordDownload(ctx echo.Context) error {
	rec, err := api.svc.RecordDownload(ctx.Request().Context(), ctx.Param("contentId"))
	if err != nil {
		return fail(err, "Failed to update content")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": rec})
}

func (api *contentApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteByID(ctx.Request().Context(), ctx.Param("contentId")); err != nil {
		return fail(err, "Failed to delete content")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Content deleted successfully"})
}
