package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/trialapi/importer"
	mw "github.com/padraicbc/trialapi/middleware"
	"github.com/padraicbc/trialapi/workbook"
)

type importStats struct {
	DaysCreated       int `json:"daysCreated"`
	ClassesCreated    int `json:"classesCreated"`
	RoundsCreated     int `json:"roundsCreated"`
	EntriesCreated    int `json:"entriesCreated"`
	SelectionsCreated int `json:"selectionsCreated"`
	ScoresCreated     int `json:"scoresCreated"`
}

type importResponse struct {
	Success  bool                   `json:"success"`
	TrialID  int64                  `json:"trialId"`
	RunID    string                 `json:"runId"`
	Stats    importStats            `json:"stats"`
	Skipped  []importer.SkippedUnit `json:"skipped"`
	Warnings []importer.SkippedUnit `json:"warnings"`
}

// Preview summarizes an uploaded workbook without writing anything.
func (h *Handler) Preview(c echo.Context) error {
	wb, err := h.openUpload(c)
	if err != nil {
		return err
	}
	defer wb.Close()

	summary, err := h.importer.Preview(c.Request().Context(), wb)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]*importer.Summary{"summary": summary})
}

// Import writes an uploaded workbook as a new trial, or into the trial named
// by the optional trialId form field.
func (h *Handler) Import(c echo.Context) error {
	opts := importer.Options{}
	opts.Secretary, _ = c.Get(mw.ContextUsername).(string)
	if raw := strings.TrimSpace(c.FormValue("trialId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid trialId %q", raw))
		}
		opts.TrialID = id
	}

	wb, err := h.openUpload(c)
	if err != nil {
		return err
	}
	defer wb.Close()

	rep, err := h.importer.Import(c.Request().Context(), wb, opts)
	switch {
	case errors.Is(err, importer.ErrTrialMissing):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case err != nil:
		h.log.Error("import failed", zap.String("secretary", opts.Secretary), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, importResponse{
		Success: true,
		TrialID: rep.TrialID,
		RunID:   rep.RunID.String(),
		Stats: importStats{
			DaysCreated:       rep.DaysCreated,
			ClassesCreated:    rep.ClassesCreated,
			RoundsCreated:     rep.RoundsCreated,
			EntriesCreated:    rep.EntriesCreated,
			SelectionsCreated: rep.SelectionsCreated,
			ScoresCreated:     rep.ScoresCreated,
		},
		Skipped:  rep.Skipped,
		Warnings: rep.Warnings,
	})
}

// openUpload reads the multipart "file" field as a workbook.
func (h *Handler) openUpload(c echo.Context) (*workbook.File, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}
	if h.UploadLimit > 0 && fh.Size > h.UploadLimit {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file is %d bytes, limit is %d", fh.Size, h.UploadLimit))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	wb, err := workbook.Open(f)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return wb, nil
}
