package main

import (
	"log"
	"os"
	"strings"

	"sikeu/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		// Order matters loosely: referenced tables first so FKs apply cleanly.
		for _, m := range []interface{}{
			&models.Role{},
			&models.School{},
			&models.User{},
			&models.RefreshToken{},
			&models.CoaCategory{},
			&models.CoaSubCategory{},
			&models.CoaAccount{},
			&models.Category{},
			&models.Transaction{},
		} {
			if err := db.AutoMigrate(m); err != nil {
				log.Printf("migration warning (%T): %v", m, err)
			}
		}
	}
	seedDB()
}

func seedDB() {
	// Ensure master roles exist
	roles := []models.Role{
		{Name: models.RoleAdministrator, Description: "full access, all schools"},
		{Name: models.RoleOperator, Description: "school staff, limited report window"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}

	// Seed a school so a fresh install can log in and record transactions
	var school models.School
	var scount int64
	db.Model(&models.School{}).Count(&scount)
	if scount == 0 {
		school = models.School{
			Name:           "Sekolah Demo",
			Address:        "Jl. Pendidikan No. 1",
			ReceiptFormat:  models.DefaultReceiptFormat,
			ReceiptCounter: 1,
			ReceiptReset:   models.ResetMonthly,
		}
		if err := db.Create(&school).Error; err != nil {
			log.Printf("failed to seed school: %v", err)
		} else {
			log.Println("Seeded school:", school.Name)
		}
	} else {
		db.Order("id asc").First(&school)
	}

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", models.RoleAdministrator).First(&role).Error; err != nil {
			log.Printf("failed to find administrator role: %v", err)
		}
		rid := role.ID
		sid := school.ID
		admin := models.User{
			Username: "admin",
			RoleID:   &rid,
			SchoolID: &sid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Println("Seeded admin user: username=admin, password=admin123")
	}

	seedCoa()
	ensureUploadBase()
}

// seedCoa installs a minimal Indonesian school chart of accounts on first
// run. The tree is shared across schools; it only classifies, it is never
// written by the transaction paths.
func seedCoa() {
	var cnt int64
	db.Model(&models.CoaCategory{}).Count(&cnt)
	if cnt > 0 {
		return
	}
	type account struct{ code, name string }
	type sub struct {
		code, name string
		accounts   []account
	}
	type cat struct {
		code, name, typ string
		subs            []sub
	}
	tree := []cat{
		{"1", "Aset", models.CoaAsset, []sub{
			{"1.1", "Kas dan Bank", []account{{"1.1.1", "Kas"}, {"1.1.2", "Bank"}}},
		}},
		{"2", "Kewajiban", models.CoaLiability, []sub{
			{"2.1", "Utang Jangka Pendek", []account{{"2.1.1", "Utang Usaha"}}},
		}},
		{"3", "Ekuitas", models.CoaEquity, []sub{
			{"3.1", "Dana Sekolah", []account{{"3.1.1", "Saldo Dana"}}},
		}},
		{"4", "Pendapatan", models.CoaRevenue, []sub{
			{"4.1", "Pendapatan Siswa", []account{
				{"4.1.1", "Pendapatan SPP"},
				{"4.1.2", "Uang Pangkal"},
				{"4.1.3", "Uang Kegiatan"},
			}},
			{"4.2", "Pendapatan Lain", []account{
				{"4.2.1", "Donasi"},
				{"4.2.2", "Bantuan Operasional"},
			}},
		}},
		{"5", "Beban", models.CoaExpense, []sub{
			{"5.1", "Beban Operasional", []account{
				{"5.1.1", "Gaji dan Honor"},
				{"5.1.2", "Listrik dan Air"},
				{"5.1.3", "Alat Tulis Kantor"},
				{"5.1.4", "Pemeliharaan Gedung"},
			}},
		}},
	}
	for _, c := range tree {
		cc := models.CoaCategory{Code: c.code, Name: c.name, Type: c.typ}
		if err := db.Create(&cc).Error; err != nil {
			log.Printf("failed to seed COA category %s: %v", c.code, err)
			continue
		}
		for _, s := range c.subs {
			sc := models.CoaSubCategory{Code: s.code, Name: s.name, CoaCategoryID: cc.ID}
			if err := db.Create(&sc).Error; err != nil {
				log.Printf("failed to seed COA sub-category %s: %v", s.code, err)
				continue
			}
			for _, a := range s.accounts {
				ac := models.CoaAccount{Code: a.code, Name: a.name, CoaSubCategoryID: sc.ID, IsActive: true}
				if err := db.Create(&ac).Error; err != nil {
					log.Printf("failed to seed COA account %s: %v", a.code, err)
				}
			}
		}
	}
	log.Println("Seeded default chart of accounts")
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for local uploads (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
