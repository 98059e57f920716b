package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/snapshotdev/snapshot-server/errors"
	snapshotDTO "github.com/snapshotdev/snapshot-server/internal/adapter/dto/snapshot"
	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
	"github.com/snapshotdev/snapshot-server/internal/infrastructure/cache"
	snapshotUsecase "github.com/snapshotdev/snapshot-server/internal/usecase/snapshot"
	"github.com/snapshotdev/snapshot-server/pkg/config"
)

// SnapshotGenerator runs the full generation workflow for one transcript.
type SnapshotGenerator interface {
	Generate(ctx context.Context, vttContent, filename string) (*entities.SnapshotOutput, error)
}

// Snapshot handles snapshot-related HTTP requests
type Snapshot struct {
	generator SnapshotGenerator
	store     cache.SnapshotStore
	cfg       *config.Config
	logger    *zap.Logger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(generator SnapshotGenerator, store cache.SnapshotStore, cfg *config.Config, logger *zap.Logger) *Snapshot {
	return &Snapshot{
		generator: generator,
		store:     store,
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate handles POST /snapshots
func (h *Snapshot) Generate(c echo.Context) error {
	var req snapshotDTO.GenerateSnapshotRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidInput("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidInput(err.Error()))
	}

	filename := req.Filename
	if filename == "" {
		filename = "transcript.vtt"
	}
	format := req.OutputFormat
	if format == "" {
		format = h.cfg.Workflow.DefaultOutputFormat
	}

	output, err := h.generator.Generate(c.Request().Context(), req.VTTContent, filename)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	stored := &entities.StoredSnapshot{
		ID:        uuid.NewString(),
		Filename:  filename,
		Format:    format,
		CreatedAt: time.Now().UTC(),
		Snapshot:  output,
	}
	if err := h.store.Put(c.Request().Context(), stored); err != nil {
		return HandleError(h.logger, c, err)
	}

	h.logger.Info("snapshot stored",
		zap.String("snapshot_id", stored.ID),
		zap.String("filename", filename),
		zap.Float64("avg_confidence", output.Metadata.AvgConfidence),
	)

	return HandleSuccess(h.logger, c, http.StatusCreated, toSnapshotResponse(stored))
}

// List handles GET /snapshots
func (h *Snapshot) List(c echo.Context) error {
	snapshots, err := h.store.List(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items := make([]snapshotDTO.SnapshotListItem, 0, len(snapshots))
	for _, stored := range snapshots {
		items = append(items, snapshotDTO.SnapshotListItem{
			ID:            stored.ID,
			Filename:      stored.Filename,
			CreatedAt:     stored.CreatedAt,
			AvgConfidence: stored.Snapshot.Metadata.AvgConfidence,
			TotalSections: stored.Snapshot.SectionCount(),
			IsValid:       stored.Snapshot.Validation.IsValid(),
		})
	}

	resp := snapshotDTO.ListSnapshotsResponse{
		Snapshots:  items,
		TotalCount: len(items),
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// Get handles GET /snapshots/:id
func (h *Snapshot) Get(c echo.Context) error {
	stored, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	// The stored format can be overridden per request.
	if format := c.QueryParam("format"); format != "" {
		if format != "json" && format != "markdown" {
			return HandleError(h.logger, c, apperrors.ErrInvalidInput("format must be \"json\" or \"markdown\""))
		}
		copied := *stored
		copied.Format = format
		stored = &copied
	}

	return HandleSuccess(h.logger, c, http.StatusOK, toSnapshotResponse(stored))
}

// GetSection handles GET /snapshots/:id/sections/:slug
func (h *Snapshot) GetSection(c echo.Context) error {
	stored, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	name, ok := snapshotUsecase.SectionBySlug(c.Param("slug"))
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrResourceNotFound("section"))
	}

	section, ok := stored.Snapshot.Sections[name]
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrResourceNotFound("section"))
	}

	resp := snapshotDTO.SectionResponse{
		SnapshotID:    stored.ID,
		Name:          name,
		Content:       section.Content,
		Confidence:    section.Confidence,
		MissingFields: section.MissingFields,
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

func toSnapshotResponse(stored *entities.StoredSnapshot) snapshotDTO.GenerateSnapshotResponse {
	resp := snapshotDTO.GenerateSnapshotResponse{
		ID:        stored.ID,
		Filename:  stored.Filename,
		Format:    stored.Format,
		CreatedAt: stored.CreatedAt,
	}

	if stored.Format == "markdown" {
		resp.Markdown = snapshotUsecase.RenderMarkdown(stored.Snapshot)
	} else {
		resp.Snapshot = stored.Snapshot
	}
	return resp
}
