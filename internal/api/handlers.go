package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/transcriptai/transcript-service/internal/observability"
	"github.com/transcriptai/transcript-service/internal/orchestrator"
	"github.com/transcriptai/transcript-service/internal/session"
)

type uploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// handleUploadURL returns a presigned PUT URL so the client can stage
// media directly in object storage.
// POST /api/upload-url
func (s *Server) handleUploadURL(c *gin.Context) {
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" || req.ContentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename and contentType are required"})
		return
	}

	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Object storage is not configured"})
		return
	}

	uploadURL, key, err := s.store.PresignUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		lg := observability.GetLogger()
		lg.Error().Err(err).Str("filename", req.Filename).Msg("Failed to presign upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL"})
		return
	}

	lg := observability.GetLogger()
	lg.Debug().Str("key", key).Msg("Generated presigned upload URL")
	c.JSON(http.StatusOK, uploadURLResponse{UploadURL: uploadURL, Key: key})
}

type transcribeRequest struct {
	Key      string `json:"key"`
	MimeType string `json:"mimeType"`
}

// handleTranscribe runs a full transcription request against staged
// media and records the outcome in the session.
// POST /api/transcribe
func (s *Server) handleTranscribe(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A staged media key is required"})
		return
	}

	if req.MimeType != "" && !allowedMediaType(req.MimeType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only video and audio files can be transcribed"})
		return
	}

	s.session.SetStatus(session.StatusProcessing)

	result, err := s.transcriber.Transcribe(c.Request.Context(), req.Key, req.MimeType)
	if err != nil {
		kind := orchestrator.KindOf(err)
		lg := observability.GetLogger()
		lg.Error().Err(err).Str("key", req.Key).Str("kind", string(kind)).Msg("Transcription failed")
		s.session.SetError(err.Error())
		c.JSON(statusForKind(kind), gin.H{"error": err.Error()})
		return
	}

	s.session.SetResult(result)
	c.JSON(http.StatusOK, result)
}

// handleGetSession returns the current session snapshot.
// GET /api/session
func (s *Server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Snapshot())
}

type setMediaRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

// handleSetMedia registers the selected media file with the session,
// discarding any prior result.
// POST /api/session/media
func (s *Server) handleSetMedia(c *gin.Context) {
	var req setMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file name is required"})
		return
	}

	if !allowedMediaType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only video and audio files are supported"})
		return
	}

	if req.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the maximum upload size"})
		return
	}

	s.session.SetMedia(session.MediaMetadata{
		Name: req.Name,
		Size: req.Size,
		Type: req.Type,
		Key:  req.Key,
	})

	c.JSON(http.StatusOK, s.session.Snapshot())
}

type editSegmentRequest struct {
	Text string `json:"text"`
}

// handleEditSegment replaces one segment's text in place.
// PATCH /api/session/segments/:id
func (s *Server) handleEditSegment(c *gin.Context) {
	var req editSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A text field is required"})
		return
	}

	id := c.Param("id")
	if !s.session.EditSegmentText(id, req.Text) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No segment with id " + id})
		return
	}

	c.JSON(http.StatusOK, s.session.Snapshot())
}

// handleReset clears the session back to idle.
// POST /api/session/reset
func (s *Server) handleReset(c *gin.Context) {
	s.session.Reset()
	c.JSON(http.StatusOK, s.session.Snapshot())
}

// handleDownloadTranscript serves the edited transcript as a plain-text
// attachment, one "[MM:SS] text" line per segment.
// GET /api/session/transcript.txt
func (s *Server) handleDownloadTranscript(c *gin.Context) {
	snap := s.session.Snapshot()
	if snap.Result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No transcript available"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transcript.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(snap.Result.PlainText()))
}
