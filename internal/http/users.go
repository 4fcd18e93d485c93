package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/database/users"
	"github.com/avelichka/bookshelf/internal/entities"
	"github.com/avelichka/bookshelf/internal/feed"
)

// UserStore is the user and follow surface the user endpoints need.
type UserStore interface {
	GetByID(id uint) (*entities.User, error)
	UpdateProfile(userID uint, name, bio, avatarURL string) error
	Follow(followerID, followeeID uint) error
	Unfollow(followerID, followeeID uint) error
	IsFollowing(followerID, followeeID uint) (bool, error)
	Followers(userID uint) ([]entities.User, error)
	Following(userID uint) ([]entities.User, error)
	ProfileCounts(userID uint) (followers, following, reviews int64, err error)
}

// ReadingStats supplies aggregate reading numbers for profiles.
type ReadingStats interface {
	Stats(userID uint) (finished int64, reading int64, pagesRead int, err error)
}

// FeedBuilder assembles activity feeds.
type FeedBuilder interface {
	Build(userID uint, limit int) ([]feed.Event, error)
}

// UsersController serves profiles, follows and the activity feed.
type UsersController struct {
	users    UserStore
	progress ReadingStats
	feed     FeedBuilder
}

func NewUsersController(users UserStore, progress ReadingStats, feed FeedBuilder) *UsersController {
	return &UsersController{
		users:    users,
		progress: progress,
		feed:     feed,
	}
}

// Profile is the public profile payload.
type Profile struct {
	entities.User
	Followers     int64 `json:"followers"`
	Following     int64 `json:"following"`
	Reviews       int64 `json:"reviews"`
	BooksFinished int64 `json:"books_finished"`
	BooksReading  int64 `json:"books_reading"`
	PagesRead     int   `json:"pages_read"`
	IsFollowing   bool  `json:"is_following"`
}

// Get handles GET /api/users/:id.
func (ctrl *UsersController) Get(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "load user")
		return
	}

	followers, following, reviewCount, err := ctrl.users.ProfileCounts(userID)
	if err != nil {
		respondInternalError(c, err, "load profile counts")
		return
	}

	finished, reading, pagesRead, err := ctrl.progress.Stats(userID)
	if err != nil {
		respondInternalError(c, err, "load reading stats")
		return
	}

	isFollowing := false
	if viewer := GetUserID(c); viewer != 0 && viewer != userID {
		isFollowing, err = ctrl.users.IsFollowing(viewer, userID)
		if err != nil {
			respondInternalError(c, err, "check follow state")
			return
		}
	}

	c.JSON(http.StatusOK, Profile{
		User:          *user,
		Followers:     followers,
		Following:     following,
		Reviews:       reviewCount,
		BooksFinished: finished,
		BooksReading:  reading,
		PagesRead:     pagesRead,
		IsFollowing:   isFollowing,
	})
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateProfile handles PUT /api/users/me.
func (ctrl *UsersController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	if err := ctrl.users.UpdateProfile(GetUserID(c), req.Name, req.Bio, req.AvatarURL); err != nil {
		respondInternalError(c, err, "update profile")
		return
	}
	respondSuccess(c, "profile updated")
}

// Follow handles POST /api/users/:id/follow.
func (ctrl *UsersController) Follow(c *gin.Context) {
	followeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.users.Follow(GetUserID(c), followeeID)
	switch {
	case errors.Is(err, users.ErrSelfFollow):
		respondBadRequest(c, users.ErrSelfFollow.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "user")
	case err != nil:
		respondInternalError(c, err, "follow user")
	default:
		respondSuccess(c, "followed")
	}
}

// Unfollow handles DELETE /api/users/:id/follow.
func (ctrl *UsersController) Unfollow(c *gin.Context) {
	followeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.users.Unfollow(GetUserID(c), followeeID); err != nil {
		respondInternalError(c, err, "unfollow user")
		return
	}
	respondSuccess(c, "unfollowed")
}

// Followers handles GET /api/users/:id/followers.
func (ctrl *UsersController) Followers(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.users.Followers(userID)
	if err != nil {
		respondInternalError(c, err, "list followers")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Following handles GET /api/users/:id/following.
func (ctrl *UsersController) Following(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.users.Following(userID)
	if err != nil {
		respondInternalError(c, err, "list following")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Feed handles GET /api/feed.
func (ctrl *UsersController) Feed(c *gin.Context) {
	events, err := ctrl.feed.Build(GetUserID(c), parseLimitQuery(c, 50))
	if err != nil {
		respondInternalError(c, err, "build feed")
		return
	}
	c.JSON(http.StatusOK, events)
}
