package httpserver

import (
	"net/http"
	"strings"

	"milsabores/internal/domain"
	usersvc "milsabores/internal/service/user"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserKey  = "authUser"
	ctxOwnerKey = "cartOwner"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireIdentity accepts either a user access token or a guest token. It
// sets the cart owner key for downstream handlers, plus the user when the
// token belongs to an account.
func requireIdentity(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		if u, err := deps.UserSvc.LookupByToken(c.Request.Context(), token); err == nil {
			c.Set(ctxUserKey, u)
			c.Set(ctxOwnerKey, "user:"+u.ID)
			c.Next()
			return
		}

		ownerKey, err := deps.GuestSvc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxOwnerKey, ownerKey)
		c.Next()
	}
}

// requireUser only admits account holders.
func requireUser(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		u, err := deps.UserSvc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserKey, u)
		c.Set(ctxOwnerKey, "user:"+u.ID)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.HasPermission(domain.PermissionAll) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func cartOwner(c *gin.Context) string {
	return c.GetString(ctxOwnerKey)
}

type registerRequest struct {
	NationalID   string `json:"nationalId" binding:"required,nationalid"`
	FirstName    string `json:"firstName" binding:"required,max=50"`
	LastName     string `json:"lastName" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,allowedemail"`
	Password     string `json:"password" binding:"required,min=4,max=10"`
	Phone        string `json:"phone" binding:"omitempty,clphone"`
	Birthdate    string `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	Region       string `json:"region"`
	Commune      string `json:"commune"`
	Address      string `json:"address" binding:"required,max=300"`
	DiscountCode string `json:"discountCode"`
}

type sessionResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"`
}

func registerHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		u, err := users.Register(c.Request.Context(), usersvc.RegisterInput{
			NationalID:   req.NationalID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Password:     req.Password,
			Phone:        req.Phone,
			Birthdate:    req.Birthdate,
			Region:       req.Region,
			Commune:      req.Commune,
			Address:      req.Address,
			DiscountCode: req.DiscountCode,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		u, access, refresh, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionResponse{
			User:         u,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    users.AccessTTLSeconds(),
		})
	}
}

func guestTokenHandler(guests GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _, err := guests.Issue(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"accessToken": token,
			"expiresIn":   guests.TTLSeconds(),
		})
	}
}

func logoutHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			users.Logout(c.Request.Context(), token)
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
	}
}

func updateProfileHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.UpdateProfileInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		u, err := users.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}
