package models

import "time"

// Категории электронных книг.
const (
	EbookCategoryMiningTechniques        = "mining_techniques"
	EbookCategorySafetyGuidelines        = "safety_guidelines"
	EbookCategoryEnvironmentalCompliance = "environmental_compliance"
	EbookCategoryLegalFramework          = "legal_framework"
	EbookCategoryEquipmentMaintenance    = "equipment_maintenance"
	EbookCategoryOther                   = "other"
)

// Ebook электронная книга библиотеки. AccessLevel задаёт минимальный уровень подписки.
type Ebook struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	FileKey     string    `json:"-"`
	FileURL     string    `json:"-"`
	CoverImage  string    `json:"cover_image,omitempty"`
	AccessLevel Tier      `json:"access_level"`
	FileSize    int64     `json:"file_size"`
	FileFormat  string    `json:"file_format"`
	Tags        []string  `json:"tags"`
	Ratings     []Rating  `json:"ratings"`
	PublishDate time.Time `json:"publish_date"`
	LastUpdated time.Time `json:"last_updated"`
}

// Rating оценка книги пользователем. У пользователя не больше одной оценки на книгу.
type Rating struct {
	AccountID string    `json:"user"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	Date      time.Time `json:"date"`
}

// LevelsFor возвращает уровни доступа к контенту, открытые для уровня подписки tier.
func LevelsFor(tier Tier) []Tier {
	switch tier {
	case TierPremium:
		return []Tier{TierFree, TierBasic, TierPremium}
	case TierBasic:
		return []Tier{TierFree, TierBasic}
	default:
		return []Tier{TierFree}
	}
}
