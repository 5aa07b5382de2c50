package main

import (
	"net/http"

	"sikeu/models"

	"github.com/gin-gonic/gin"
)

func getSekolahHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	schoolID, ok := requireSchool(c, user)
	if !ok {
		return
	}
	var school models.School
	if err := db.First(&school, schoolID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sekolah tidak ditemukan"})
		return
	}
	c.JSON(http.StatusOK, school)
}

func updateSekolahHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	schoolID, ok := requireSchool(c, user)
	if !ok {
		return
	}
	var school models.School
	if err := db.First(&school, schoolID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sekolah tidak ditemukan"})
		return
	}
	var req struct {
		Name          string `json:"name"`
		Address       string `json:"address"`
		Phone         string `json:"phone"`
		Email         string `json:"email"`
		ReceiptFormat string `json:"receipt_format"`
		ReceiptReset  string `json:"receipt_reset"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != "" {
		school.Name = req.Name
	}
	if req.Address != "" {
		school.Address = req.Address
	}
	if req.Phone != "" {
		school.Phone = req.Phone
	}
	if req.Email != "" {
		school.Email = req.Email
	}
	if req.ReceiptFormat != "" {
		school.ReceiptFormat = req.ReceiptFormat
	}
	if req.ReceiptReset != "" {
		if req.ReceiptReset != models.ResetNever && req.ReceiptReset != models.ResetMonthly {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receipt_reset harus NEVER atau MONTHLY"})
			return
		}
		school.ReceiptReset = req.ReceiptReset
	}
	if err := db.Save(&school).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan sekolah"})
		return
	}
	c.JSON(http.StatusOK, school)
}
