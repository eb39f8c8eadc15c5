package httpapi

import (
	"context"
	"errors"
	"net/http"

	"videocall-service/internal/audit"
	"videocall-service/internal/auth"
	"videocall-service/internal/notify"
	"videocall-service/internal/rooms"
	"videocall-service/internal/upstream"
	"videocall-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// GroupFetcher is the minimal group client interface needed by handlers.
type GroupFetcher interface {
	FetchGroup(ctx context.Context, groupID, bearer string) (upstream.Group, error)
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, gate on membership, call internal
// services, return JSON. Authentication already happened in the middleware
// chain by the time any of these run.
type Handlers struct {
	Rooms  *rooms.Service
	Groups GroupFetcher
	Notify *notify.Service
	Audit  *audit.Service // optional, best-effort
}

// requireMembership fetches the group and checks the caller is a member.
// Exactly one group lookup per request; on failure the response is already
// written and ok=false. The caller's bearer is returned for handlers that
// forward it further upstream.
func (h Handlers) requireMembership(c *gin.Context, groupID string) (upstream.Group, auth.Identity, string, bool) {
	id, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return upstream.Group{}, auth.Identity{}, "", false
	}
	bearer, err := auth.BearerFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credential required"})
		return upstream.Group{}, auth.Identity{}, "", false
	}

	group, err := h.Groups.FetchGroup(c.Request.Context(), groupID, bearer)
	if err != nil {
		writeError(c, err)
		return upstream.Group{}, auth.Identity{}, "", false
	}
	if !group.HasMember(id.ID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not a group member"})
		return upstream.Group{}, auth.Identity{}, "", false
	}
	return group, id, bearer, true
}

func (h Handlers) auditLog(c *gin.Context, fn func(ctx context.Context) error) {
	if h.Audit == nil {
		return
	}
	if err := fn(c.Request.Context()); err != nil {
		logger.FromGin(c).Warn("audit append failed", "err", err)
	}
}

/* ===================== CALL LIFECYCLE ===================== */

type createCallRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

// CreateCall opens the group's call room, or joins the existing one.
// 201 with the room token when a new record was created, 200 when an active
// call already existed.
func (h Handlers) CreateCall(c *gin.Context) {
	var req createCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.GroupID == "" || req.UserID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "groupId and userId are required"})
		return
	}

	_, id, _, ok := h.requireMembership(c, req.GroupID)
	if !ok {
		return
	}
	if req.UserID != id.ID {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "userId does not match the authenticated user"})
		return
	}

	rec, created, err := h.Rooms.CreateOrGetActive(c.Request.Context(), req.GroupID, id.ID)
	if err != nil {
		logger.FromGin(c).Error("call create failed", "group_id", req.GroupID, "err", err)
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.auditLog(c, func(ctx context.Context) error {
			return h.Audit.LogCallCreated(ctx, rec.GroupID, rec.RoomID, id.ID, id.Role)
		})
	}
	c.JSON(status, gin.H{"roomId": rec.RoomID})
}

// GetRoom returns the group's active room or 404.
func (h Handlers) GetRoom(c *gin.Context) {
	groupID := c.Param("group_id")
	if groupID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "group id required"})
		return
	}
	if _, _, _, ok := h.requireMembership(c, groupID); !ok {
		return
	}

	rec, err := h.Rooms.GetActive(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roomId":    rec.RoomID,
		"groupId":   rec.GroupID,
		"creatorId": rec.CreatorID,
	})
}

// GetStatus answers "is there an active call for this group". Unlike GetRoom
// it is always 200 for members; absence is data, not an error.
func (h Handlers) GetStatus(c *gin.Context) {
	groupID := c.Param("group_id")
	if groupID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "group id required"})
		return
	}
	if _, _, _, ok := h.requireMembership(c, groupID); !ok {
		return
	}

	rec, err := h.Rooms.GetActive(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, rooms.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"active":    false,
				"roomId":    nil,
				"groupId":   groupID,
				"creatorId": nil,
			})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":    true,
		"roomId":    rec.RoomID,
		"groupId":   rec.GroupID,
		"creatorId": rec.CreatorID,
	})
}

// EndCall transitions the group's active call to ended. Ending a group with
// no active call is 404; the log is untouched.
func (h Handlers) EndCall(c *gin.Context) {
	groupID := c.Param("group_id")
	if groupID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "group id required"})
		return
	}
	_, id, _, ok := h.requireMembership(c, groupID)
	if !ok {
		return
	}

	rec, err := h.Rooms.End(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}

	h.auditLog(c, func(ctx context.Context) error {
		return h.Audit.LogCallEnded(ctx, rec.GroupID, rec.RoomID, id.ID, id.Role)
	})
	c.JSON(http.StatusOK, gin.H{"message": "call ended"})
}

/* ===================== NOTIFICATIONS ===================== */

type notifyRequest struct {
	GroupID  string `json:"groupId"`
	RoomName string `json:"roomName"`
}

// NotifyGroup fans a call-started notice out to the other group members.
// The single group lookup serves both the membership gate and the recipient
// list.
func (h Handlers) NotifyGroup(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.GroupID == "" || req.RoomName == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "groupId and roomName are required"})
		return
	}

	group, id, bearer, ok := h.requireMembership(c, req.GroupID)
	if !ok {
		return
	}

	sent, err := h.Notify.CallStarted(c.Request.Context(), group, req.GroupID, id, bearer)
	if err != nil {
		logger.FromGin(c).Error("notification fan-out failed", "group_id", req.GroupID, "err", err)
		writeError(c, err)
		return
	}

	h.auditLog(c, func(ctx context.Context) error {
		return h.Audit.LogNotifySent(ctx, req.GroupID, req.RoomName, id.ID, sent)
	})
	c.JSON(http.StatusOK, gin.H{"message": "notifications sent successfully"})
}

/* ===================== ROOM INTROSPECTION ===================== */

// GetParticipants lists the members of the group that owns a room token.
func (h Handlers) GetParticipants(c *gin.Context) {
	roomID := c.Param("room_id")
	if roomID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "room id required"})
		return
	}

	rec, err := h.Rooms.GetByRoomID(c.Request.Context(), roomID)
	if err != nil {
		writeError(c, err)
		return
	}

	group, _, _, ok := h.requireMembership(c, rec.GroupID)
	if !ok {
		return
	}

	participants := make([]gin.H, 0, len(group.Members))
	for _, m := range group.Members {
		participants = append(participants, gin.H{
			"id":    m.ID,
			"name":  m.Name,
			"email": m.Email,
		})
	}
	c.JSON(http.StatusOK, gin.H{"participants": participants})
}

// GetHistory returns the group's full call log, newest first.
func (h Handlers) GetHistory(c *gin.Context) {
	groupID := c.Param("group_id")
	if groupID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "group id required"})
		return
	}
	if _, _, _, ok := h.requireMembership(c, groupID); !ok {
		return
	}

	list, err := h.Rooms.History(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []rooms.CallRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"calls": list})
}
