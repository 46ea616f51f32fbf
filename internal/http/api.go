package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stress-tracker/internal/domain"
	"stress-tracker/internal/service"
)

const (
	ctxUserID   = "userID"
	ctxUsername = "username"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	assessments service.AssessmentService
	sessions    *SessionManager
	logger      *logrus.Logger
}

func NewHandler(users service.UserService, assessments service.AssessmentService, sessions *SessionManager, logger *logrus.Logger) *Handler {
	return &Handler{
		users:       users,
		assessments: assessments,
		sessions:    sessions,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.index)
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/signup", h.signupPage)
	router.POST("/signup", h.signup)
	router.GET("/logout", h.logout)

	authed := router.Group("/", h.requireSession())
	authed.GET("/profile", h.profile)
	authed.GET("/stress_test", h.stressTestPage)
	authed.POST("/stress_test", h.submitStressTest)
	authed.GET("/dashboard", h.dashboard)
	authed.GET("/manage", h.manage)
}

// requireSession redirects to the login page before any business logic runs
// when no valid session cookie is present.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, username, err := h.sessions.Resolve(c)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxUsername, username)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	id, _ := c.Get(ctxUserID)
	userID, _ := id.(int64)
	return userID
}

func (h *Handler) index(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":  "login",
		"flash": popFlash(c),
	})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Errorf("authenticate %q: %v", username, err)
		}
		// identical message for unknown user and wrong password
		setFlash(c, "danger", "Invalid username or password")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if err := h.sessions.Issue(c, user.ID, user.Username); err != nil {
		h.logger.Errorf("issue session for %q: %v", username, err)
		setFlash(c, "danger", "Could not log you in, please try again")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	setFlash(c, "success", "Logged in successfully!")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) signupPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":  "signup",
		"flash": popFlash(c),
	})
}

func (h *Handler) signup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	email := c.PostForm("email")

	var age *int
	if raw := strings.TrimSpace(c.PostForm("age")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			setFlash(c, "danger", "Age must be a whole number")
			c.Redirect(http.StatusSeeOther, "/signup")
			return
		}
		age = &v
	}

	if _, err := h.users.Register(c.Request.Context(), username, password, email, age); err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			setFlash(c, "danger", "Username or email already exists")
		case errors.Is(err, service.ErrInvalidInput):
			setFlash(c, "danger", err.Error())
		default:
			h.logger.Errorf("register %q: %v", username, err)
			setFlash(c, "danger", "Could not create account, please try again")
		}
		c.Redirect(http.StatusSeeOther, "/signup")
		return
	}

	setFlash(c, "success", "Account created successfully! Please login.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Clear(c)
	setFlash(c, "info", "You have been logged out")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) profile(c *gin.Context) {
	view, err := h.assessments.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Errorf("load profile: %v", err)
		setFlash(c, "danger", "Error loading profile")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	counts := make([]levelCountResponse, len(view.Counts))
	for i, lc := range view.Counts {
		counts[i] = levelCountResponse{Level: string(lc.Level), Count: lc.Count}
	}
	c.JSON(http.StatusOK, gin.H{
		"user":           userToResponse(view.User),
		"stress_history": counts,
		"flash":          popFlash(c),
	})
}

func (h *Handler) stressTestPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page": "stress_test",
		"fields": gin.H{
			"age":               "whole number",
			"study_hours":       "0-24",
			"sleep_hours":       "0-24",
			"physical_activity": "1-5",
			"social_support":    "1-5",
		},
		"flash": popFlash(c),
	})
}

func (h *Handler) submitStressTest(c *gin.Context) {
	sub := service.Submission{
		Age:              c.PostForm("age"),
		StudyHours:       c.PostForm("study_hours"),
		SleepHours:       c.PostForm("sleep_hours"),
		PhysicalActivity: c.PostForm("physical_activity"),
		SocialSupport:    c.PostForm("social_support"),
	}

	record, err := h.assessments.Submit(c.Request.Context(), currentUserID(c), sub)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			setFlash(c, "danger", "Invalid input values: please enter valid numbers")
		} else {
			h.logger.Errorf("submit stress test: %v", err)
			setFlash(c, "danger", "Error processing your submission")
		}
		c.Redirect(http.StatusSeeOther, "/stress_test")
		return
	}

	setFlash(c, "info", "Your stress level is: "+string(record.StressLevel))
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) dashboard(c *gin.Context) {
	view, err := h.assessments.Dashboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Errorf("load dashboard: %v", err)
		setFlash(c, "danger", "Error loading dashboard")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	records := make([]recordResponse, len(view.Records))
	for i := range view.Records {
		records[i] = recordToResponse(view.Records[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"user":            userToResponse(view.User),
		"records":         records,
		"recommendations": view.Recommendations,
		"flash":           popFlash(c),
	})
}

func (h *Handler) manage(c *gin.Context) {
	view, err := h.assessments.Manage(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Errorf("load manage view: %v", err)
		setFlash(c, "danger", "Error loading data")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	dates := make([]string, len(view.Dates))
	for i, d := range view.Dates {
		dates[i] = d.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{
		"user":            userToResponse(view.User),
		"dates":           dates,
		"stress_levels":   view.Levels,
		"study_hours":     view.StudyHours,
		"sleep_hours":     view.SleepHours,
		"recommendations": view.Recommendations,
		"flash":           popFlash(c),
	})
}

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Age       *int   `json:"age,omitempty"`
	CreatedAt string `json:"created_at"`
}

type recordResponse struct {
	ID               int64  `json:"id"`
	StudyHours       int    `json:"study_hours"`
	SleepHours       int    `json:"sleep_hours"`
	PhysicalActivity int    `json:"physical_activity"`
	SocialSupport    int    `json:"social_support"`
	StressLevel      string `json:"stress_level"`
	RecordedAt       string `json:"recorded_at"`
}

type levelCountResponse struct {
	Level string `json:"stress_level"`
	Count int    `json:"count"`
}

func userToResponse(user *domain.User) userResponse {
	if user == nil {
		return userResponse{}
	}
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Age:       user.Age,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func recordToResponse(rec domain.StressRecord) recordResponse {
	return recordResponse{
		ID:               rec.ID,
		StudyHours:       rec.StudyHours,
		SleepHours:       rec.SleepHours,
		PhysicalActivity: rec.PhysicalActivity,
		SocialSupport:    rec.SocialSupport,
		StressLevel:      string(rec.StressLevel),
		RecordedAt:       rec.RecordedAt.Format(time.RFC3339),
	}
}
