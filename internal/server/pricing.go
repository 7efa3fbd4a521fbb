package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
)

func (s *Server) ListPricingOverrides(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.pricingSvc.ListOverrides(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) PutPricingOverride(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req pricingdomain.PutOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CompanyID = companyID

	item, err := s.pricingSvc.PutOverride(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeletePricingOverride(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.pricingSvc.DeleteOverride(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetEffectivePricing(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.pricingSvc.ResolveEffectivePrice(c.Request.Context(), courseID, companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
