package models

// Category groups products under a human-readable description.
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Description string `gorm:"column:descricao;size:255;not null"`
}

func (c *Category) TableName() string {
	return "tb_categorias"
}

// CategoryDraft is the caller-supplied payload for creating or replacing a category.
type CategoryDraft struct {
	Description string
}
