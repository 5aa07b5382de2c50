package main

import (
	"net/http"

	"sikeu/models"

	"github.com/gin-gonic/gin"
)

func createKategoriHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	schoolID, ok := requireSchool(c, user)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		Type        string `json:"type" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type != models.TypeIncome && req.Type != models.TypeExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type harus INCOME atau EXPENSE"})
		return
	}
	cat := models.Category{Name: req.Name, Type: req.Type, SchoolID: schoolID, Description: req.Description}
	if err := db.Create(&cat).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "kategori sudah ada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal membuat kategori"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": cat.ID})
}

func listKategoriHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	scope, ok := scopeSchool(c, user)
	if !ok {
		return
	}
	q := db.Model(&models.Category{})
	if scope.SchoolID != nil {
		q = q.Where("school_id = ?", *scope.SchoolID)
	}
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	var items []models.Category
	if err := q.Order("name asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func updateKategoriHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	schoolID, ok := requireSchool(c, user)
	if !ok {
		return
	}
	var cat models.Category
	if err := db.Where("id = ? AND school_id = ?", c.Param("id"), schoolID).First(&cat).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kategori tidak ditemukan"})
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != "" {
		cat.Name = req.Name
	}
	if req.Description != "" {
		cat.Description = req.Description
	}
	if err := db.Save(&cat).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "kategori dengan nama itu sudah ada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan kategori"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func deleteKategoriHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	schoolID, ok := requireSchool(c, user)
	if !ok {
		return
	}
	var cat models.Category
	if err := db.Where("id = ? AND school_id = ?", c.Param("id"), schoolID).First(&cat).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kategori tidak ditemukan"})
		return
	}
	// refuse to orphan transactions
	var cnt int64
	db.Model(&models.Transaction{}).Where("category_id = ?", cat.ID).Count(&cnt)
	if cnt > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "kategori masih dipakai transaksi"})
		return
	}
	if err := db.Delete(&cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menghapus kategori"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "kategori dihapus"})
}
