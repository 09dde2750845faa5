package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/padraicbc/trialapi/importer"
	"github.com/padraicbc/trialapi/middleware"
	"github.com/padraicbc/trialapi/workbook"
)

// TrialImporter previews and imports trial workbooks.
type TrialImporter interface {
	Preview(ctx context.Context, wb workbook.Workbook) (*importer.Summary, error)
	Import(ctx context.Context, wb workbook.Workbook, opts importer.Options) (*importer.Report, error)
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	users       middleware.UserLookup
	importer    TrialImporter
	log         *zap.Logger
	JWTKey      []byte
	UploadLimit int64
}

// New creates a Handler. uploadLimit is the largest accepted workbook in bytes.
func New(users middleware.UserLookup, im TrialImporter, jwtKey []byte, uploadLimit int64, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{users: users, importer: im, log: log, JWTKey: jwtKey, UploadLimit: uploadLimit}
}
