package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/snapshotdev/snapshot-server/errors"
	snapshotDTO "github.com/snapshotdev/snapshot-server/internal/adapter/dto/snapshot"
	"github.com/snapshotdev/snapshot-server/internal/infrastructure/external/zoom"
)

// RecordingLister lists Zoom cloud recordings and their files.
type RecordingLister interface {
	ListRecordings(ctx context.Context, fromDate, toDate string, pageSize int, hasTranscript bool) (*zoom.RecordingList, error)
	GetMeetingRecordings(ctx context.Context, meetingID string) (*zoom.Meeting, error)
}

// Recording handles Zoom recording HTTP requests
type Recording struct {
	client RecordingLister
	logger *zap.Logger
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(client RecordingLister, logger *zap.Logger) *Recording {
	return &Recording{
		client: client,
		logger: logger,
	}
}

// List handles GET /recordings
func (h *Recording) List(c echo.Context) error {
	var req snapshotDTO.ListRecordingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidInput("invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidInput(err.Error()))
	}

	list, err := h.client.ListRecordings(c.Request().Context(), req.FromDate, req.ToDate, req.PageSize, req.HasTranscript)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meetings := list.Meetings
	if req.Topic != "" {
		meetings = zoom.SearchByTopic(meetings, req.Topic)
	}

	resp := zoom.RecordingList{
		Meetings:   meetings,
		FromDate:   list.FromDate,
		ToDate:     list.ToDate,
		TotalCount: len(meetings),
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// GetMeeting handles GET /recordings/:meetingId
func (h *Recording) GetMeeting(c echo.Context) error {
	meeting, err := h.client.GetMeetingRecordings(c.Request().Context(), c.Param("meetingId"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, meeting)
}
