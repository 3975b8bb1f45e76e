package controller

import (
	"errors"
	"net/http"
	"time"

	"taskboard/internal/flash"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/session"
	"taskboard/internal/tasklist"
	"taskboard/internal/views"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const flashCookie = "flash_id"

// LoginPage renders the sign-in form.
func (h *Controller) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, views.LoginPage, views.Login{Message: h.popFlash(c)})
}

// Login handles both buttons of the login form.
func (h *Controller) Login(c *gin.Context) {
	ctx := c.Request.Context()
	email := c.PostForm("email")
	password := c.PostForm("password")

	if c.PostForm("action") == "signup" {
		res := h.gate.SignUp(ctx, email, password)
		c.HTML(http.StatusOK, views.LoginPage, views.Login{Email: email, Message: notice(res.Message.Text, res.Message.OK)})
		return
	}

	res := h.gate.SignIn(ctx, email, password)
	if res.Redirect == "" {
		c.HTML(http.StatusOK, views.LoginPage, views.Login{Email: email, Message: notice(res.Message.Text, res.Message.OK)})
		return
	}
	h.cookies.Set(c.Writer, res.Session)
	h.setFlash(c, flash.Message{Text: res.Message.Text, OK: res.Message.OK})
	if h.events != nil {
		ev := models.TaskEvent{Action: models.ActionSignedIn, UserID: res.Session.User.ID, OccurredAt: time.Now()}
		if err := h.events.Publish(ctx, ev); err != nil {
			logger.Warn(ctx, "Publish sign-in event failed", "error", err)
		}
	}
	c.Redirect(http.StatusSeeOther, res.Redirect)
}

// Logout ends the session and returns to the login page.
func (h *Controller) Logout(c *gin.Context) {
	h.gate.SignOut(c.Request.Context(), h.cookies.Token(c.Request))
	h.cookies.Clear(c.Writer)
	c.Redirect(http.StatusSeeOther, "/login")
}

// Dashboard renders both task sections.
func (h *Controller) Dashboard(c *gin.Context) {
	v := h.tasks.View(c.Request.Context(), middleware.Token(c))
	d := views.NewDashboard(v.Partition, views.TaskForm{}, h.tasks.EnforcesOwnership())
	d.Flash = h.popFlash(c)
	c.HTML(http.StatusOK, views.DashboardPage, d)
}

// AddTask creates a task from the form. The form keeps its values unless the insert succeeded.
func (h *Controller) AddTask(c *gin.Context) {
	ctx := c.Request.Context()
	token := middleware.Token(c)
	form := views.TaskForm{
		Title:    c.PostForm("title"),
		Priority: models.ParsePriority(c.PostForm("priority")),
		Deadline: c.PostForm("deadline"),
	}

	v, err := h.tasks.Add(ctx, token, form.Title, form.Priority, form.Deadline)
	v = h.view(ctx, token, v)
	if v.Saved {
		form = views.TaskForm{}
	}
	d := views.NewDashboard(v.Partition, form, h.tasks.EnforcesOwnership())
	switch {
	case err == nil, errors.Is(err, tasklist.ErrMissingField):
	case errors.Is(err, tasklist.ErrUnauthenticated):
		d.Error = tasklist.UnauthenticatedMessage
	default:
		d.Error = err.Error()
	}
	c.HTML(http.StatusOK, views.DashboardPage, d)
}

// CompleteTask marks a task done and sends the browser back to the dashboard.
func (h *Controller) CompleteTask(c *gin.Context) {
	_, err := h.tasks.Complete(c.Request.Context(), middleware.Token(c), c.Param("id"))
	h.backToDashboard(c, err)
}

// DeleteTask removes a completed task and sends the browser back to the dashboard.
func (h *Controller) DeleteTask(c *gin.Context) {
	_, err := h.tasks.Delete(c.Request.Context(), middleware.Token(c), c.Param("id"))
	h.backToDashboard(c, err)
}

// backToDashboard redirects after a mutation; a failure rides along as a flash.
func (h *Controller) backToDashboard(c *gin.Context, err error) {
	if err != nil {
		h.setFlash(c, flash.Message{Text: err.Error()})
	}
	c.Redirect(http.StatusSeeOther, session.DashboardPath)
}

func (h *Controller) setFlash(c *gin.Context, msg flash.Message) {
	key := uuid.New().String()
	if err := h.flash.Set(c.Request.Context(), key, msg); err != nil {
		logger.Warn(c.Request.Context(), "Set flash failed", "error", err)
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Controller) popFlash(c *gin.Context) *views.Notice {
	ck, err := c.Request.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	http.SetCookie(c.Writer, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	msg, ok := h.flash.Pop(c.Request.Context(), ck.Value)
	if !ok {
		return nil
	}
	return notice(msg.Text, msg.OK)
}

func notice(text string, ok bool) *views.Notice {
	if text == "" {
		return nil
	}
	return &views.Notice{Text: text, OK: ok}
}
