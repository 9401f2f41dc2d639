package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core"
	"github.com/MohsenMaaleki/windsightai/core/models"
	"github.com/MohsenMaaleki/windsightai/security"
	"github.com/MohsenMaaleki/windsightai/web/common"
)

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ep *Endpoint) RegisterAccount(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var account *models.Account
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		account, err = core.RegisterAccount(db, core.RegisterInput{
			Username: dto.Username,
			Email:    dto.Email,
			Password: dto.Password,
		})
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	if ep.OnRegister != nil {
		go ep.OnRegister(account)
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{
		"id":       account.ID,
		"username": account.Username,
		"email":    account.Email,
	}))
}

func (ep *Endpoint) Login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var account *models.Account
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		account, err = core.Authenticate(db, dto.Username, dto.Password)
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	token, err := security.CreateIdentityToken(security.Identity{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	}, ep.Secret, ep.TokenTTL)
	if err != nil {
		common.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"id":       account.ID,
		"username": account.Username,
		"token":    token,
	}))
}

func (ep *Endpoint) Me(c *gin.Context) {
	identity, ok := c.Get("identity")
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("missing identity"))
		return
	}
	claims := identity.(*security.IdentityClaims)
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"id":       claims.AccountID,
		"username": claims.Username,
		"email":    claims.Email,
	}))
}
