package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidData)
		return
	}

	session, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.fail(c, err, msgUserNotFound)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", session.User.ID)
	c.JSON(http.StatusCreated, newSessionResponse(session))
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidData)
		return
	}

	session, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			abort(c, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		s.fail(c, err, msgUserNotFound)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(session))
}

func (s *HTTPServer) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		abort(c, http.StatusBadRequest, msgInvalidData)
		return
	}

	pair, err := s.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.fail(c, err, msgUserNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": pair.AccessToken, "refreshToken": pair.RefreshToken})
}

func (s *HTTPServer) me(c *gin.Context) {
	user, err := s.users.Me(c.Request.Context(), callerID(c))
	if err != nil {
		s.fail(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (s *HTTPServer) logout(c *gin.Context) {
	if err := s.users.Logout(c.Request.Context(), callerID(c)); err != nil {
		s.fail(c, err, msgUserNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) listTasks(c *gin.Context) {
	list, err := s.tasks.List(c.Request.Context(), callerID(c))
	if err != nil {
		s.fail(c, err, msgTaskNotFound)
		return
	}

	out := make([]taskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, newTaskResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidData)
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), callerID(c), req.Title, req.Description, models.TaskStatus(req.Status))
	if err != nil {
		s.fail(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (s *HTTPServer) updateTask(c *gin.Context) {
	var req updateTaskRequest
	// no body is an empty patch
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abort(c, http.StatusBadRequest, msgInvalidData)
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), callerID(c), c.Param("id"), req.patch())
	if err != nil {
		s.fail(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (s *HTTPServer) deleteTask(c *gin.Context) {
	id, err := s.tasks.Delete(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *HTTPServer) attachTask(c *gin.Context) {
	key, url, err := s.tasks.Attach(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}

func (s *HTTPServer) getAttachment(c *gin.Context) {
	url, err := s.tasks.Attachment(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		notFound := msgTaskNotFound
		if errors.Is(err, services.ErrNoAttachment) {
			notFound = msgAttachmentNotFound
		}
		s.fail(c, err, notFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
