package main

import (
	"net/http"

	"sikeu/models"

	"github.com/gin-gonic/gin"
)

// listCoaHandler returns the full COA tree, categories down to accounts.
func listCoaHandler(c *gin.Context) {
	var categories []models.CoaCategory
	if err := db.Order("code asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	type accountNode struct {
		ID       uint   `json:"id"`
		Code     string `json:"code"`
		Name     string `json:"name"`
		IsActive bool   `json:"is_active"`
	}
	type subNode struct {
		ID       uint          `json:"id"`
		Code     string        `json:"code"`
		Name     string        `json:"name"`
		Accounts []accountNode `json:"accounts"`
	}
	type catNode struct {
		ID   uint      `json:"id"`
		Code string    `json:"code"`
		Name string    `json:"name"`
		Type string    `json:"type"`
		Subs []subNode `json:"sub_categories"`
	}
	out := make([]catNode, 0, len(categories))
	for _, cat := range categories {
		node := catNode{ID: cat.ID, Code: cat.Code, Name: cat.Name, Type: cat.Type, Subs: []subNode{}}
		var subs []models.CoaSubCategory
		db.Where("coa_category_id = ?", cat.ID).Order("code asc").Find(&subs)
		for _, s := range subs {
			sn := subNode{ID: s.ID, Code: s.Code, Name: s.Name, Accounts: []accountNode{}}
			var accounts []models.CoaAccount
			db.Where("coa_sub_category_id = ?", s.ID).Order("code asc").Find(&accounts)
			for _, a := range accounts {
				sn.Accounts = append(sn.Accounts, accountNode{ID: a.ID, Code: a.Code, Name: a.Name, IsActive: a.IsActive})
			}
			node.Subs = append(node.Subs, sn)
		}
		out = append(out, node)
	}
	c.JSON(http.StatusOK, out)
}

func createCoaAkunHandler(c *gin.Context) {
	if !isAdministrator(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "hanya administrator"})
		return
	}
	var req struct {
		Code             string `json:"code" binding:"required"`
		Name             string `json:"name" binding:"required"`
		CoaSubCategoryID uint   `json:"coa_sub_category_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var sub models.CoaSubCategory
	if err := db.First(&sub, req.CoaSubCategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sub-kategori COA tidak ditemukan"})
		return
	}
	acc := models.CoaAccount{Code: req.Code, Name: req.Name, CoaSubCategoryID: sub.ID, IsActive: true}
	if err := db.Create(&acc).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "kode akun sudah ada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal membuat akun"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": acc.ID})
}

func updateCoaAkunHandler(c *gin.Context) {
	if !isAdministrator(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "hanya administrator"})
		return
	}
	var acc models.CoaAccount
	if err := db.First(&acc, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "akun tidak ditemukan"})
		return
	}
	var req struct {
		Name     string `json:"name"`
		IsActive *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != "" {
		acc.Name = req.Name
	}
	if req.IsActive != nil {
		acc.IsActive = *req.IsActive
	}
	if err := db.Save(&acc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan akun"})
		return
	}
	c.JSON(http.StatusOK, acc)
}

// deleteCoaAkunHandler deactivates rather than deletes when the account is
// referenced by transactions.
func deleteCoaAkunHandler(c *gin.Context) {
	if !isAdministrator(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "hanya administrator"})
		return
	}
	var acc models.CoaAccount
	if err := db.First(&acc, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "akun tidak ditemukan"})
		return
	}
	var cnt int64
	db.Model(&models.Transaction{}).Where("coa_account_id = ?", acc.ID).Count(&cnt)
	if cnt > 0 {
		acc.IsActive = false
		if err := db.Save(&acc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menonaktifkan akun"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "akun dinonaktifkan (masih dipakai transaksi)"})
		return
	}
	if err := db.Delete(&acc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menghapus akun"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "akun dihapus"})
}
