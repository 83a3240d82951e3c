package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vitrine/models"
)

type companyInfoView struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	OpeningInfo string `json:"openingInfo"`
}

// Storefront display record. A fresh deployment without a row answers with
// defaults instead of an error.
// (GET /api/company-info)
func (impl *ServerImpl) GetCompanyInfo(c *gin.Context) {
	const op = "GetCompanyInfo"
	var info models.CompanyInfo
	result := impl.db.WithContext(c.Request.Context()).First(&info)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, companyInfoView{Name: "Notre concession"})
			return
		}
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to load company info, err=%w", op, result.Error))
		return
	}
	c.JSON(http.StatusOK, companyInfoView{
		Name:        info.Name,
		Tagline:     info.Tagline,
		Address:     info.Address,
		Phone:       info.Phone,
		Email:       info.Email,
		OpeningInfo: info.OpeningInfo,
	})
}

type companyInfoRequest struct {
	Name        string `json:"name" binding:"required"`
	Tagline     string `json:"tagline"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	OpeningInfo string `json:"openingInfo"`
}

// Singleton upsert: the first save creates the row, later saves rewrite it.
// (PUT /api/admin/company-info)
func (impl *ServerImpl) UpdateCompanyInfo(c *gin.Context) {
	const op = "UpdateCompanyInfo"
	var req companyInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var info models.CompanyInfo
	result := impl.db.WithContext(c.Request.Context()).First(&info)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to load company info, err=%w", op, result.Error))
		return
	}
	info.Name = req.Name
	info.Tagline = req.Tagline
	info.Address = req.Address
	info.Phone = req.Phone
	info.Email = req.Email
	info.OpeningInfo = req.OpeningInfo
	if result := impl.db.WithContext(c.Request.Context()).Save(&info); result.Error != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to save company info, err=%w", op, result.Error))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}
