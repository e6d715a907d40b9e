package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/app"
	"github.com/huddleapp/huddle/internal/assist"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/domain"
)

type Handlers struct {
	Relay       *app.Relay
	ICEServers  []config.ICEServer
	Transcriber assist.Transcriber
}

type createMeetingRequest struct {
	Username    string `json:"username"`
	MeetingName string `json:"meeting_name" binding:"required"`
}

func (h *Handlers) CreateMeeting(c *gin.Context) {
	var req createMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meeting name cannot be empty"})
		return
	}
	if err := domain.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username cannot be empty"})
		return
	}
	if err := domain.ValidateMeetingName(req.MeetingName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meeting name cannot be empty"})
		return
	}

	if err := h.Relay.CreateMeeting(req.MeetingName, req.Username); err != nil {
		if errors.Is(err, domain.ErrNameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Meeting ID already exists, please try again"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Info().Str("module", "adapters.http").Str("meeting", req.MeetingName).Str("host", req.Username).Msg("meeting created")
	c.JSON(http.StatusOK, gin.H{"meeting_name": req.MeetingName})
}

func (h *Handlers) GetSession(c *gin.Context) {
	info, err := h.Relay.Rooms.Info(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting ID not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.Relay.Rooms.Members(c.Param("name"))
	if err != nil {
		// Over-capacity rosters are refused at read time with the
		// same status as a missing meeting.
		if errors.Is(err, domain.ErrRoomFull) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting is full"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting ID not found"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handlers) GetChatHistory(c *gin.Context) {
	history, err := h.Relay.Rooms.History(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting ID not found"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// RTCConfig hands clients the ICE servers they should use for peer
// connections.
func (h *Handlers) RTCConfig(c *gin.Context) {
	servers := make([]webrtc.ICEServer, 0, len(h.ICEServers))
	for _, s := range h.ICEServers {
		ice := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			ice.Username = s.Username
			ice.Credential = s.Credential
		}
		servers = append(servers, ice)
	}
	c.JSON(http.StatusOK, gin.H{"iceServers": servers})
}

func (h *Handlers) Transcribe(c *gin.Context) {
	if h.Transcriber == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not available"})
		return
	}
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	defer src.Close()

	text, err := h.Transcriber.Transcribe(c.Request.Context(), file.Filename, src)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("transcription failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "transcription failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
