package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core"
	"github.com/MohsenMaaleki/windsightai/core/models"
	"github.com/MohsenMaaleki/windsightai/web/common"
)

type SubscribeDTO struct {
	AccountID uint   `json:"account_id" binding:"required"`
	PlanType  string `json:"plan_type" binding:"required"`
}

func (ep *Endpoint) Subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var sub *models.Subscription
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		sub, err = core.Subscribe(db, dto.AccountID, dto.PlanType)
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(toSubscriptionDTO(*sub)))
}

func (ep *Endpoint) GetSubscription(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Param("account_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid account id"))
		return
	}

	var sub *models.Subscription
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		sub, err = core.GetActiveSubscription(db, uint(accountID))
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("no active subscription found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toSubscriptionDTO(*sub)))
}

func (ep *Endpoint) CancelSubscription(c *gin.Context) {
	subscriptionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid subscription id"))
		return
	}

	var sub *models.Subscription
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		sub, err = core.CancelSubscription(db, uint(subscriptionID))
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toSubscriptionDTO(*sub)))
}
